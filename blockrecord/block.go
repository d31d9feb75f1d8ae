// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockrecord - canonical block type
//
// transactions and validator signatures are kept sorted so that the
// block hash is identical on every node
package blockrecord

import (
	"bytes"
	"sort"

	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/serializer"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

// DigestMode - which sections take part in a message digest
type DigestMode int

const (
	// the full block
	DigestFull DigestMode = iota

	// up to but excluding the producer signature; what the
	// producer signs
	DigestProducer

	// up to but excluding the validator signatures; what each
	// validator signs
	DigestValidator
)

// ValidatorSignature - one validator's co-signature
type ValidatorSignature struct {
	PublicKey crypto.Point
	Signature crypto.Signature
}

// Block - one chain entry
type Block struct {
	Version      uint64
	PreviousHash crypto.Hash
	Timestamp    uint64
	Index        uint64

	// Genesis or StakerReward only
	RewardTx transactionrecord.Transaction

	// hashes of the user transactions, ascending
	Transactions []crypto.Hash

	ProducerPublicKey crypto.Point
	ProducerSignature crypto.Signature

	// ascending by public key
	ValidatorSignatures []ValidatorSignature
}

// AppendTransactionHash - insert a transaction hash keeping the set
// sorted and unique
func (block *Block) AppendTransactionHash(hash crypto.Hash) {
	i := sort.Search(len(block.Transactions), func(i int) bool {
		return block.Transactions[i].Cmp(hash) >= 0
	})
	if i < len(block.Transactions) && block.Transactions[i] == hash {
		return
	}
	block.Transactions = append(block.Transactions, crypto.Hash{})
	copy(block.Transactions[i+1:], block.Transactions[i:])
	block.Transactions[i] = hash
}

// AppendValidatorSignature - insert a validator signature keeping the
// map sorted by public key and unique
func (block *Block) AppendValidatorSignature(publicKey crypto.Point, signature crypto.Signature) {
	i := sort.Search(len(block.ValidatorSignatures), func(i int) bool {
		return bytes.Compare(block.ValidatorSignatures[i].PublicKey[:], publicKey[:]) >= 0
	})
	if i < len(block.ValidatorSignatures) && block.ValidatorSignatures[i].PublicKey == publicKey {
		return
	}
	block.ValidatorSignatures = append(block.ValidatorSignatures, ValidatorSignature{})
	copy(block.ValidatorSignatures[i+1:], block.ValidatorSignatures[i:])
	block.ValidatorSignatures[i] = ValidatorSignature{
		PublicKey: publicKey,
		Signature: signature,
	}
}

// IsGenesis - true when the reward transaction is the genesis
// transaction
func (block *Block) IsGenesis() bool {
	_, ok := block.RewardTx.(*transactionrecord.GenesisTransaction)
	return ok
}

// SerializeMode - canonical form up to the requested digest boundary
func (block *Block) SerializeMode(writer *serializer.Writer, mode DigestMode) error {
	writer.Varint(block.Version)
	writer.Key(block.PreviousHash[:])
	writer.Varint(block.Timestamp)
	writer.Varint(block.Index)

	block.RewardTx.Serialize(writer)

	writer.Varint(uint64(len(block.Transactions)))
	for _, hash := range block.Transactions {
		writer.Key(hash[:])
	}

	if DigestProducer == mode {
		return nil
	}

	hasProducer := !block.ProducerPublicKey.IsEmpty() && !block.ProducerSignature.IsEmpty()
	writer.Bool(hasProducer)
	if hasProducer {
		writer.Key(block.ProducerPublicKey[:])
		writer.Key(block.ProducerSignature[:])
	} else if DigestValidator == mode {
		// nothing for a validator to countersign yet
		return fault.ErrBlockNotSigned
	}

	if DigestValidator == mode {
		return nil
	}

	writer.Varint(uint64(len(block.ValidatorSignatures)))
	for _, vs := range block.ValidatorSignatures {
		writer.Key(vs.PublicKey[:])
		writer.Key(vs.Signature[:])
	}
	return nil
}

// Serialize - the full canonical form
func (block *Block) Serialize(writer *serializer.Writer) {
	// full mode cannot fail
	_ = block.SerializeMode(writer, DigestFull)
}

// Pack - the full canonical form as bytes
func (block *Block) Pack() []byte {
	writer := serializer.NewWriter()
	block.Serialize(writer)
	return writer.Bytes()
}

// Deserialize - parse the canonical form
func Deserialize(reader *serializer.Reader) (*Block, error) {
	block := &Block{}

	block.Version = reader.Varint()
	copy(block.PreviousHash[:], reader.Key(crypto.HashLength))
	block.Timestamp = reader.Varint()
	block.Index = reader.Varint()

	switch tag := transactionrecord.TagType(reader.PeekVarint()); tag {
	case transactionrecord.GenesisTag, transactionrecord.StakerRewardTag:
		rewardTx, err := transactionrecord.Deserialize(reader)
		if nil != err {
			return nil, err
		}
		block.RewardTx = rewardTx
	default:
		if nil != reader.Error() {
			return nil, reader.Error()
		}
		return nil, fault.ErrInvalidRewardTransaction
	}

	count := reader.Varint()
	if nil != reader.Error() || count > uint64(reader.Remaining()/crypto.HashLength) {
		return nil, fault.ErrInvalidPacket
	}
	for i := uint64(0); i < count; i += 1 {
		var hash crypto.Hash
		copy(hash[:], reader.Key(crypto.HashLength))
		block.AppendTransactionHash(hash)
	}

	if reader.Bool() {
		copy(block.ProducerPublicKey[:], reader.Key(crypto.KeyLength))
		copy(block.ProducerSignature[:], reader.Key(crypto.SignatureLength))
	}

	count = reader.Varint()
	if nil != reader.Error() || count > uint64(reader.Remaining()) {
		return nil, fault.ErrInvalidPacket
	}
	for i := uint64(0); i < count; i += 1 {
		var publicKey crypto.Point
		var signature crypto.Signature
		copy(publicKey[:], reader.Key(crypto.KeyLength))
		copy(signature[:], reader.Key(crypto.SignatureLength))
		block.AppendValidatorSignature(publicKey, signature)
	}

	if err := reader.Error(); nil != err {
		return nil, err
	}
	return block, nil
}

// MessageDigest - SHA3 of the canonical form up to the mode boundary
func (block *Block) MessageDigest(mode DigestMode) (crypto.Hash, error) {
	writer := serializer.NewWriter()
	err := block.SerializeMode(writer, mode)
	if nil != err {
		return crypto.Hash{}, err
	}
	return crypto.NewHash(writer.Bytes()), nil
}

// Hash - the block identity
func (block *Block) Hash() crypto.Hash {
	digest, _ := block.MessageDigest(DigestFull)
	return digest
}

// Size - canonical byte count
func (block *Block) Size() int {
	return len(block.Pack())
}

// TransactionOrderHash - SHA3 over the stored transaction hash set in
// order; compared against the hash of the provided transactions on
// every write
func (block *Block) TransactionOrderHash() crypto.Hash {
	return crypto.HashHashes(block.Transactions)
}
