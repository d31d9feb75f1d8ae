// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
)

var errSigning = fault.ProcessError("block signing failed")

// Signer - the signing half of the external crypto engine
//
// separated from verification so that a validator only node never
// needs signing keys loaded
type Signer interface {
	SecretKeyToPublicKey(secret crypto.SecretKey) (crypto.Point, bool)
	GenerateSignature(digest crypto.Hash, secret crypto.SecretKey) (crypto.Signature, bool)
}

// ProducerSign - sign the producer digest and record the producer key
// and signature in the block
func (block *Block) ProducerSign(signer Signer, secret crypto.SecretKey) (crypto.Point, crypto.Signature, error) {
	publicKey, ok := signer.SecretKeyToPublicKey(secret)
	if !ok {
		return crypto.Point{}, crypto.Signature{}, errSigning
	}

	digest, err := block.MessageDigest(DigestProducer)
	if nil != err {
		return crypto.Point{}, crypto.Signature{}, err
	}

	signature, ok := signer.GenerateSignature(digest, secret)
	if !ok {
		return crypto.Point{}, crypto.Signature{}, errSigning
	}

	block.ProducerPublicKey = publicKey
	block.ProducerSignature = signature
	return publicKey, signature, nil
}

// ValidatorSign - countersign the validator digest and append the
// signature to the block
func (block *Block) ValidatorSign(signer Signer, secret crypto.SecretKey) (crypto.Point, crypto.Signature, error) {
	publicKey, ok := signer.SecretKeyToPublicKey(secret)
	if !ok {
		return crypto.Point{}, crypto.Signature{}, errSigning
	}

	digest, err := block.MessageDigest(DigestValidator)
	if nil != err {
		return crypto.Point{}, crypto.Signature{}, err
	}

	signature, ok := signer.GenerateSignature(digest, secret)
	if !ok {
		return crypto.Point{}, crypto.Signature{}, errSigning
	}

	block.AppendValidatorSignature(publicKey, signature)
	return publicKey, signature, nil
}
