// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package validate

import (
	"github.com/ivantse/turtlecoin-v2/blockrecord"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/staking"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

// CheckBlock - verify a block's signatures against the elected round
//
// the producer proposes, a quorum of the elected validators must
// co-sign, and the producer may not double as a validator. an empty
// validator set skips the election membership and quorum checks (used
// while syncing historic rounds whose election input is not yet
// loaded)
func (v *Validator) CheckBlock(block *blockrecord.Block, validators []crypto.Point) error {

	// index 0 carries the genesis transaction, every other index a
	// staker reward
	if block.IsGenesis() != (0 == block.Index) {
		return fault.ErrBlockInvalidIndex
	}
	switch block.RewardTx.(type) {
	case *transactionrecord.GenesisTransaction, *transactionrecord.StakerRewardTransaction:
	default:
		return fault.ErrInvalidRewardTransaction
	}

	if block.ProducerPublicKey.IsEmpty() || block.ProducerSignature.IsEmpty() {
		return fault.ErrBlockNotSigned
	}

	// the producer must not also countersign
	for _, vs := range block.ValidatorSignatures {
		if vs.PublicKey == block.ProducerPublicKey {
			return fault.ErrBlockProducerIsValidator
		}
	}

	producerDigest, err := block.MessageDigest(blockrecord.DigestProducer)
	if nil != err {
		return err
	}
	if !v.engine.VerifySignature(producerDigest, block.ProducerPublicKey, block.ProducerSignature) {
		return fault.ErrBlockProducerSignature
	}

	validatorDigest, err := block.MessageDigest(blockrecord.DigestValidator)
	if nil != err {
		return err
	}

	elected := make(map[crypto.Point]struct{}, len(validators))
	for _, key := range validators {
		elected[key] = struct{}{}
	}

	for _, vs := range block.ValidatorSignatures {
		if 0 != len(elected) {
			if _, ok := elected[vs.PublicKey]; !ok {
				return fault.ErrBlockValidatorUnelected
			}
		}
		if !v.engine.VerifySignature(validatorDigest, vs.PublicKey, vs.Signature) {
			return fault.ErrBlockValidatorSignature
		}
	}

	if 0 != len(validators) {
		required := quorum(len(validators))
		if len(block.ValidatorSignatures) < required {
			return fault.ErrBlockValidatorQuorum
		}
	}
	return nil
}

// smallest signature count reaching the validator threshold
func quorum(validators int) int {
	return (validators*staking.ValidatorThreshold + 99) / 100
}
