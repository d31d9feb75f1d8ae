// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transactionrecord - canonical transaction types
//
// a transaction is a tagged sum over six variants; the confidential
// variants (normal, stake, recall stake) exist in two forms sharing
// one identity: the uncommitted form carries ring signatures and the
// range proof, the committed form only their hashes
package transactionrecord

import (
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/serializer"
)

// TagType - type code for transactions
//
// encoded as the first varint of every canonical form
type TagType uint64

// enumerate the possible transaction record types
const (
	GenesisTag      TagType = 0
	StakerRewardTag TagType = 1
	NormalTag       TagType = 2
	StakeTag        TagType = 3
	RecallStakeTag  TagType = 4
	StakeRefundTag  TagType = 5

	// this item must be last
	InvalidTag TagType = 6
)

// protocol limits
const (
	// ring participants per signed input; must be a power of two
	RingSize = 512

	MaximumInputs  = 8
	MinimumOutputs = 2
	MaximumOutputs = 8

	// bytes of arbitrary data a normal transaction may carry
	MaximumExtraSize = 1024

	// record schema versions
	CandidateRecordVersion uint64 = 1
	StakerRecordVersion    uint64 = 1
	StakeRecordVersion     uint64 = 1
)

// Transaction - any committed transaction variant
type Transaction interface {
	Type() TagType
	Hash() crypto.Hash
	Serialize(writer *serializer.Writer)
	Size() int
}

// UncommittedTransaction - a user transaction still carrying its
// plaintext signatures and range proof
type UncommittedTransaction interface {
	Transaction
	Digest() crypto.Hash
	PowHash() crypto.Hash
	ToCommitted() Transaction
}

// Pack - serialize any transaction to its canonical bytes
func Pack(tx Transaction) []byte {
	writer := serializer.NewWriter()
	tx.Serialize(writer)
	return writer.Bytes()
}

// Deserialize - parse a committed transaction, dispatching on the
// leading type tag
func Deserialize(reader *serializer.Reader) (Transaction, error) {
	switch tag := TagType(reader.PeekVarint()); tag {
	case GenesisTag:
		return DeserializeGenesis(reader)
	case StakerRewardTag:
		return DeserializeStakerReward(reader)
	case NormalTag:
		return DeserializeCommittedNormal(reader)
	case StakeTag:
		return DeserializeCommittedStake(reader)
	case RecallStakeTag:
		return DeserializeCommittedRecallStake(reader)
	case StakeRefundTag:
		return DeserializeStakeRefund(reader)
	default:
		if nil != reader.Error() {
			return nil, reader.Error()
		}
		return nil, fault.ErrUnknownTransactionType
	}
}

// DeserializeUncommitted - parse an uncommitted user transaction
//
// only the confidential variants have an uncommitted form
func DeserializeUncommitted(reader *serializer.Reader) (UncommittedTransaction, error) {
	switch tag := TagType(reader.PeekVarint()); tag {
	case NormalTag:
		return DeserializeUncommittedNormal(reader)
	case StakeTag:
		return DeserializeUncommittedStake(reader)
	case RecallStakeTag:
		return DeserializeUncommittedRecallStake(reader)
	default:
		if nil != reader.Error() {
			return nil, reader.Error()
		}
		return nil, fault.ErrUnknownTransactionType
	}
}

// RecordName - the name of a transaction record as a string
func RecordName(record interface{}) (string, bool) {
	switch record.(type) {
	case *GenesisTransaction, GenesisTransaction:
		return "Genesis", true

	case *StakerRewardTransaction, StakerRewardTransaction:
		return "StakerReward", true

	case *CommittedNormalTransaction, CommittedNormalTransaction:
		return "CommittedNormal", true

	case *UncommittedNormalTransaction, UncommittedNormalTransaction:
		return "UncommittedNormal", true

	case *CommittedStakeTransaction, CommittedStakeTransaction:
		return "CommittedStake", true

	case *UncommittedStakeTransaction, UncommittedStakeTransaction:
		return "UncommittedStake", true

	case *CommittedRecallStakeTransaction, CommittedRecallStakeTransaction:
		return "CommittedRecallStake", true

	case *UncommittedRecallStakeTransaction, UncommittedRecallStakeTransaction:
		return "UncommittedRecallStake", true

	case *StakeRefundTransaction, StakeRefundTransaction:
		return "StakeRefund", true

	default:
		return "*unknown*", false
	}
}
