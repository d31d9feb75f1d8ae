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

// TransactionOutput - one confidential output
type TransactionOutput struct {
	PublicEphemeral crypto.Point
	Amount          uint64
	Commitment      crypto.Commitment
}

// Serialize - canonical form
func (out *TransactionOutput) Serialize(writer *serializer.Writer) {
	writer.Key(out.PublicEphemeral[:])
	writer.Varint(out.Amount)
	writer.Key(out.Commitment[:])
}

// DeserializeTransactionOutput - parse the canonical form
func DeserializeTransactionOutput(reader *serializer.Reader) TransactionOutput {
	out := TransactionOutput{}
	copy(out.PublicEphemeral[:], reader.Key(crypto.KeyLength))
	out.Amount = reader.Varint()
	copy(out.Commitment[:], reader.Key(crypto.KeyLength))
	return out
}

// Hash - SHA3 of the canonical serialization
func (out *TransactionOutput) Hash() crypto.Hash {
	writer := serializer.NewWriter()
	out.Serialize(writer)
	return crypto.NewHash(writer.Bytes())
}

// CheckConstruction - field level validity
func (out *TransactionOutput) CheckConstruction() error {
	if out.PublicEphemeral.IsEmpty() {
		return fault.ErrTxOutputPublicEphemeral
	}
	if 0 == out.Amount {
		return fault.ErrTxOutputAmount
	}
	if out.Commitment.IsEmpty() {
		return fault.ErrTxOutputCommitment
	}
	return nil
}

// StakerOutput - a reward or penalty entry addressed to a staker
type StakerOutput struct {
	StakerID crypto.Hash
	Amount   uint64
}

// Serialize - canonical form
func (out *StakerOutput) Serialize(writer *serializer.Writer) {
	writer.Key(out.StakerID[:])
	writer.Varint(out.Amount)
}

// DeserializeStakerOutput - parse the canonical form
func DeserializeStakerOutput(reader *serializer.Reader) StakerOutput {
	out := StakerOutput{}
	copy(out.StakerID[:], reader.Key(crypto.HashLength))
	out.Amount = reader.Varint()
	return out
}

// Hash - SHA3 of the canonical serialization
func (out *StakerOutput) Hash() crypto.Hash {
	writer := serializer.NewWriter()
	out.Serialize(writer)
	return crypto.NewHash(writer.Bytes())
}

// CheckConstruction - field level validity
func (out *StakerOutput) CheckConstruction() error {
	if out.StakerID.IsEmpty() {
		return fault.ErrTxStakerRewardID
	}
	if 0 == out.Amount {
		return fault.ErrTxStakerRewardAmount
	}
	return nil
}
