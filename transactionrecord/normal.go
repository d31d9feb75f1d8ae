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

// CommittedNormalTransaction - a user spend with pruned proofs
type CommittedNormalTransaction struct {
	Prefix
	UserBody
	NormalData
	CommittedSuffix
}

// Type - the record type code
func (tx *CommittedNormalTransaction) Type() TagType { return NormalTag }

func (tx *CommittedNormalTransaction) serializeDigest(writer *serializer.Writer) {
	tx.serializePrefix(writer, NormalTag)
	tx.serializeBody(writer)
	tx.serializeData(writer)
}

// Serialize - canonical form
func (tx *CommittedNormalTransaction) Serialize(writer *serializer.Writer) {
	tx.serializeDigest(writer)
	tx.serializeSuffix(writer)
}

// DeserializeCommittedNormal - parse the canonical form
func DeserializeCommittedNormal(reader *serializer.Reader) (*CommittedNormalTransaction, error) {
	tx := &CommittedNormalTransaction{}

	tag := tx.deserializePrefix(reader)
	tx.deserializeBody(reader)
	tx.deserializeData(reader)
	tx.deserializeSuffix(reader)

	if err := reader.Error(); nil != err {
		return nil, err
	}
	if NormalTag != tag {
		return nil, fault.ErrUnknownTransactionType
	}
	return tx, nil
}

// DigestBytes - the serialized prefix, body and data sections
func (tx *CommittedNormalTransaction) DigestBytes() []byte {
	writer := serializer.NewWriter()
	tx.serializeDigest(writer)
	return writer.Bytes()
}

// Digest - SHA3 of the digest serialization
func (tx *CommittedNormalTransaction) Digest() crypto.Hash {
	return crypto.NewHash(tx.DigestBytes())
}

// Hash - the transaction identity, equal for both forms
func (tx *CommittedNormalTransaction) Hash() crypto.Hash {
	return transactionHash(tx.Digest(), tx.SignatureHash, tx.RangeProofHash)
}

// PowHash - the anti-spam Argon2id hash
func (tx *CommittedNormalTransaction) PowHash() crypto.Hash {
	return powHash(tx.DigestBytes(), tx.RangeProofHash)
}

// Size - canonical byte count
func (tx *CommittedNormalTransaction) Size() int {
	return len(Pack(tx))
}

// UncommittedNormalTransaction - a user spend carrying its plaintext
// ring signatures and range proof
type UncommittedNormalTransaction struct {
	Prefix
	UserBody
	NormalData
	UncommittedSuffix
}

// Type - the record type code
func (tx *UncommittedNormalTransaction) Type() TagType { return NormalTag }

func (tx *UncommittedNormalTransaction) serializeDigest(writer *serializer.Writer) {
	tx.serializePrefix(writer, NormalTag)
	tx.serializeBody(writer)
	tx.serializeData(writer)
}

// Serialize - canonical form
func (tx *UncommittedNormalTransaction) Serialize(writer *serializer.Writer) {
	tx.serializeDigest(writer)
	tx.serializeSuffix(writer)
}

// DeserializeUncommittedNormal - parse the canonical form
func DeserializeUncommittedNormal(reader *serializer.Reader) (*UncommittedNormalTransaction, error) {
	tx := &UncommittedNormalTransaction{}

	tag := tx.deserializePrefix(reader)
	tx.deserializeBody(reader)
	tx.deserializeData(reader)
	tx.deserializeSuffix(reader)

	if err := reader.Error(); nil != err {
		return nil, err
	}
	if NormalTag != tag {
		return nil, fault.ErrUnknownTransactionType
	}
	return tx, nil
}

// DigestBytes - the serialized prefix, body and data sections
func (tx *UncommittedNormalTransaction) DigestBytes() []byte {
	writer := serializer.NewWriter()
	tx.serializeDigest(writer)
	return writer.Bytes()
}

// Digest - SHA3 of the digest serialization
func (tx *UncommittedNormalTransaction) Digest() crypto.Hash {
	return crypto.NewHash(tx.DigestBytes())
}

// Hash - the transaction identity, equal for both forms
func (tx *UncommittedNormalTransaction) Hash() crypto.Hash {
	return transactionHash(tx.Digest(), tx.SignatureHash(), tx.RangeProofHash())
}

// PowHash - the anti-spam Argon2id hash
func (tx *UncommittedNormalTransaction) PowHash() crypto.Hash {
	return powHash(tx.DigestBytes(), tx.RangeProofHash())
}

// Mine - search the nonce space for the requested difficulty
func (tx *UncommittedNormalTransaction) Mine(zeros int) bool {
	return mine(&tx.UserBody, tx.PowHash, zeros)
}

// Size - canonical byte count
func (tx *UncommittedNormalTransaction) Size() int {
	return len(Pack(tx))
}

// CommittedSize - byte count after pruning to the committed form
func (tx *UncommittedNormalTransaction) CommittedSize() int {
	return len(tx.DigestBytes()) + 2*crypto.HashLength
}

// ToCommitted - prune the proofs to their hashes
//
// the committed form hashes to the same transaction identity
func (tx *UncommittedNormalTransaction) ToCommitted() Transaction {
	committed := &CommittedNormalTransaction{
		Prefix:     tx.Prefix,
		UserBody:   tx.UserBody,
		NormalData: tx.NormalData,
		CommittedSuffix: CommittedSuffix{
			SignatureHash:  tx.SignatureHash(),
			RangeProofHash: tx.RangeProofHash(),
		},
	}
	return committed
}
