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

// StakeRefundTransaction - returns a recalled stake to its owner
//
// like genesis it reveals its secret key; the single output is
// verifiable by every node against the recall transaction it names
type StakeRefundTransaction struct {
	Prefix
	SecretKey         crypto.SecretKey
	RecallStakeTxHash crypto.Hash
	Outputs           []TransactionOutput
}

// Type - the record type code
func (tx *StakeRefundTransaction) Type() TagType { return StakeRefundTag }

// Serialize - canonical form
func (tx *StakeRefundTransaction) Serialize(writer *serializer.Writer) {
	tx.serializePrefix(writer, StakeRefundTag)
	writer.Key(tx.SecretKey[:])
	writer.Key(tx.RecallStakeTxHash[:])

	writer.Varint(uint64(len(tx.Outputs)))
	for i := range tx.Outputs {
		tx.Outputs[i].Serialize(writer)
	}
}

// DeserializeStakeRefund - parse the canonical form
func DeserializeStakeRefund(reader *serializer.Reader) (*StakeRefundTransaction, error) {
	tx := &StakeRefundTransaction{}

	tag := tx.deserializePrefix(reader)
	copy(tx.SecretKey[:], reader.Key(crypto.KeyLength))
	copy(tx.RecallStakeTxHash[:], reader.Key(crypto.HashLength))

	count := reader.Varint()
	if nil == reader.Error() && count <= uint64(reader.Remaining()) {
		if 0 != count {
			tx.Outputs = make([]TransactionOutput, 0, count)
		}
		for i := uint64(0); i < count; i += 1 {
			tx.Outputs = append(tx.Outputs, DeserializeTransactionOutput(reader))
		}
	}

	if err := reader.Error(); nil != err {
		return nil, err
	}
	if StakeRefundTag != tag {
		return nil, fault.ErrUnknownTransactionType
	}
	return tx, nil
}

// Hash - SHA3 of the full canonical form
func (tx *StakeRefundTransaction) Hash() crypto.Hash {
	return crypto.NewHash(Pack(tx))
}

// Size - canonical byte count
func (tx *StakeRefundTransaction) Size() int {
	return len(Pack(tx))
}
