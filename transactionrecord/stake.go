// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/serializer"
)

// CommittedStakeTransaction - a stake with pruned proofs
//
// version 1 proposes a candidate node, version 2 votes for one
type CommittedStakeTransaction struct {
	Prefix
	UserBody
	StakeData
	CommittedSuffix
}

// Type - the record type code
func (tx *CommittedStakeTransaction) Type() TagType { return StakeTag }

func (tx *CommittedStakeTransaction) serializeDigest(writer *serializer.Writer) {
	tx.serializePrefix(writer, StakeTag)
	tx.serializeBody(writer)
	tx.serializeData(writer)
}

// Serialize - canonical form
func (tx *CommittedStakeTransaction) Serialize(writer *serializer.Writer) {
	tx.serializeDigest(writer)
	tx.serializeSuffix(writer)
}

// DeserializeCommittedStake - parse the canonical form
func DeserializeCommittedStake(reader *serializer.Reader) (*CommittedStakeTransaction, error) {
	tx := &CommittedStakeTransaction{}

	tag := tx.deserializePrefix(reader)
	tx.deserializeBody(reader)
	tx.deserializeData(reader)
	tx.deserializeSuffix(reader)

	if err := reader.Error(); nil != err {
		return nil, err
	}
	if StakeTag != tag {
		return nil, fault.ErrUnknownTransactionType
	}
	return tx, nil
}

// DigestBytes - the serialized prefix, body and data sections
func (tx *CommittedStakeTransaction) DigestBytes() []byte {
	writer := serializer.NewWriter()
	tx.serializeDigest(writer)
	return writer.Bytes()
}

// Digest - SHA3 of the digest serialization
func (tx *CommittedStakeTransaction) Digest() crypto.Hash {
	return crypto.NewHash(tx.DigestBytes())
}

// Hash - the transaction identity, equal for both forms
func (tx *CommittedStakeTransaction) Hash() crypto.Hash {
	return transactionHash(tx.Digest(), tx.SignatureHash, tx.RangeProofHash)
}

// PowHash - the anti-spam Argon2id hash
func (tx *CommittedStakeTransaction) PowHash() crypto.Hash {
	return powHash(tx.DigestBytes(), tx.RangeProofHash)
}

// Size - canonical byte count
func (tx *CommittedStakeTransaction) Size() int {
	return len(Pack(tx))
}

// UncommittedStakeTransaction - a stake carrying its plaintext ring
// signatures and range proof
type UncommittedStakeTransaction struct {
	Prefix
	UserBody
	StakeData
	UncommittedSuffix
}

// Type - the record type code
func (tx *UncommittedStakeTransaction) Type() TagType { return StakeTag }

func (tx *UncommittedStakeTransaction) serializeDigest(writer *serializer.Writer) {
	tx.serializePrefix(writer, StakeTag)
	tx.serializeBody(writer)
	tx.serializeData(writer)
}

// Serialize - canonical form
func (tx *UncommittedStakeTransaction) Serialize(writer *serializer.Writer) {
	tx.serializeDigest(writer)
	tx.serializeSuffix(writer)
}

// DeserializeUncommittedStake - parse the canonical form
func DeserializeUncommittedStake(reader *serializer.Reader) (*UncommittedStakeTransaction, error) {
	tx := &UncommittedStakeTransaction{}

	tag := tx.deserializePrefix(reader)
	tx.deserializeBody(reader)
	tx.deserializeData(reader)
	tx.deserializeSuffix(reader)

	if err := reader.Error(); nil != err {
		return nil, err
	}
	if StakeTag != tag {
		return nil, fault.ErrUnknownTransactionType
	}
	return tx, nil
}

// DigestBytes - the serialized prefix, body and data sections
func (tx *UncommittedStakeTransaction) DigestBytes() []byte {
	writer := serializer.NewWriter()
	tx.serializeDigest(writer)
	return writer.Bytes()
}

// Digest - SHA3 of the digest serialization
func (tx *UncommittedStakeTransaction) Digest() crypto.Hash {
	return crypto.NewHash(tx.DigestBytes())
}

// Hash - the transaction identity, equal for both forms
func (tx *UncommittedStakeTransaction) Hash() crypto.Hash {
	return transactionHash(tx.Digest(), tx.SignatureHash(), tx.RangeProofHash())
}

// PowHash - the anti-spam Argon2id hash
func (tx *UncommittedStakeTransaction) PowHash() crypto.Hash {
	return powHash(tx.DigestBytes(), tx.RangeProofHash())
}

// Mine - search the nonce space for the requested difficulty
func (tx *UncommittedStakeTransaction) Mine(zeros int) bool {
	return mine(&tx.UserBody, tx.PowHash, zeros)
}

// Size - canonical byte count
func (tx *UncommittedStakeTransaction) Size() int {
	return len(Pack(tx))
}

// CommittedSize - byte count after pruning to the committed form
func (tx *UncommittedStakeTransaction) CommittedSize() int {
	return len(tx.DigestBytes()) + 2*crypto.HashLength
}

// ToCommitted - prune the proofs to their hashes
func (tx *UncommittedStakeTransaction) ToCommitted() Transaction {
	committed := &CommittedStakeTransaction{
		Prefix:    tx.Prefix,
		UserBody:  tx.UserBody,
		StakeData: tx.StakeData,
		CommittedSuffix: CommittedSuffix{
			SignatureHash:  tx.SignatureHash(),
			RangeProofHash: tx.RangeProofHash(),
		},
	}
	return committed
}
