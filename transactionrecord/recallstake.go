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

// CommittedRecallStakeTransaction - a stake recall with pruned proofs
//
// versions 1 and 2 are accepted; version 2 adds nothing to the wire
// form but marks records created after the staking schema update
type CommittedRecallStakeTransaction struct {
	Prefix
	UserBody
	RecallStakeData
	CommittedSuffix
}

// Type - the record type code
func (tx *CommittedRecallStakeTransaction) Type() TagType { return RecallStakeTag }

func (tx *CommittedRecallStakeTransaction) serializeDigest(writer *serializer.Writer) {
	tx.serializePrefix(writer, RecallStakeTag)
	tx.serializeBody(writer)
	tx.serializeData(writer)
}

// Serialize - canonical form
func (tx *CommittedRecallStakeTransaction) Serialize(writer *serializer.Writer) {
	tx.serializeDigest(writer)
	tx.serializeSuffix(writer)
}

// DeserializeCommittedRecallStake - parse the canonical form
func DeserializeCommittedRecallStake(reader *serializer.Reader) (*CommittedRecallStakeTransaction, error) {
	tx := &CommittedRecallStakeTransaction{}

	tag := tx.deserializePrefix(reader)
	tx.deserializeBody(reader)
	tx.deserializeData(reader)
	tx.deserializeSuffix(reader)

	if err := reader.Error(); nil != err {
		return nil, err
	}
	if RecallStakeTag != tag {
		return nil, fault.ErrUnknownTransactionType
	}
	return tx, nil
}

// DigestBytes - the serialized prefix, body and data sections
func (tx *CommittedRecallStakeTransaction) DigestBytes() []byte {
	writer := serializer.NewWriter()
	tx.serializeDigest(writer)
	return writer.Bytes()
}

// Digest - SHA3 of the digest serialization
func (tx *CommittedRecallStakeTransaction) Digest() crypto.Hash {
	return crypto.NewHash(tx.DigestBytes())
}

// Hash - the transaction identity, equal for both forms
func (tx *CommittedRecallStakeTransaction) Hash() crypto.Hash {
	return transactionHash(tx.Digest(), tx.SignatureHash, tx.RangeProofHash)
}

// PowHash - the anti-spam Argon2id hash
func (tx *CommittedRecallStakeTransaction) PowHash() crypto.Hash {
	return powHash(tx.DigestBytes(), tx.RangeProofHash)
}

// Size - canonical byte count
func (tx *CommittedRecallStakeTransaction) Size() int {
	return len(Pack(tx))
}

// UncommittedRecallStakeTransaction - a stake recall carrying its
// plaintext ring signatures and range proof
type UncommittedRecallStakeTransaction struct {
	Prefix
	UserBody
	RecallStakeData
	UncommittedSuffix
}

// Type - the record type code
func (tx *UncommittedRecallStakeTransaction) Type() TagType { return RecallStakeTag }

func (tx *UncommittedRecallStakeTransaction) serializeDigest(writer *serializer.Writer) {
	tx.serializePrefix(writer, RecallStakeTag)
	tx.serializeBody(writer)
	tx.serializeData(writer)
}

// Serialize - canonical form
func (tx *UncommittedRecallStakeTransaction) Serialize(writer *serializer.Writer) {
	tx.serializeDigest(writer)
	tx.serializeSuffix(writer)
}

// DeserializeUncommittedRecallStake - parse the canonical form
func DeserializeUncommittedRecallStake(reader *serializer.Reader) (*UncommittedRecallStakeTransaction, error) {
	tx := &UncommittedRecallStakeTransaction{}

	tag := tx.deserializePrefix(reader)
	tx.deserializeBody(reader)
	tx.deserializeData(reader)
	tx.deserializeSuffix(reader)

	if err := reader.Error(); nil != err {
		return nil, err
	}
	if RecallStakeTag != tag {
		return nil, fault.ErrUnknownTransactionType
	}
	return tx, nil
}

// DigestBytes - the serialized prefix, body and data sections
func (tx *UncommittedRecallStakeTransaction) DigestBytes() []byte {
	writer := serializer.NewWriter()
	tx.serializeDigest(writer)
	return writer.Bytes()
}

// Digest - SHA3 of the digest serialization
func (tx *UncommittedRecallStakeTransaction) Digest() crypto.Hash {
	return crypto.NewHash(tx.DigestBytes())
}

// Hash - the transaction identity, equal for both forms
func (tx *UncommittedRecallStakeTransaction) Hash() crypto.Hash {
	return transactionHash(tx.Digest(), tx.SignatureHash(), tx.RangeProofHash())
}

// PowHash - the anti-spam Argon2id hash
func (tx *UncommittedRecallStakeTransaction) PowHash() crypto.Hash {
	return powHash(tx.DigestBytes(), tx.RangeProofHash())
}

// Mine - search the nonce space for the requested difficulty
func (tx *UncommittedRecallStakeTransaction) Mine(zeros int) bool {
	return mine(&tx.UserBody, tx.PowHash, zeros)
}

// Size - canonical byte count
func (tx *UncommittedRecallStakeTransaction) Size() int {
	return len(Pack(tx))
}

// CommittedSize - byte count after pruning to the committed form
func (tx *UncommittedRecallStakeTransaction) CommittedSize() int {
	return len(tx.DigestBytes()) + 2*crypto.HashLength
}

// ToCommitted - prune the proofs to their hashes
func (tx *UncommittedRecallStakeTransaction) ToCommitted() Transaction {
	committed := &CommittedRecallStakeTransaction{
		Prefix:          tx.Prefix,
		UserBody:        tx.UserBody,
		RecallStakeData: tx.RecallStakeData,
		CommittedSuffix: CommittedSuffix{
			SignatureHash:  tx.SignatureHash(),
			RangeProofHash: tx.RangeProofHash(),
		},
	}
	return committed
}
