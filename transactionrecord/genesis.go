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

// GenesisTransaction - the chain's one premine transaction
//
// reveals its secret key so that every node can verify the committed
// outputs against the configured destination wallet
type GenesisTransaction struct {
	Prefix
	SecretKey crypto.SecretKey
	Outputs   []TransactionOutput
}

// Type - the record type code
func (tx *GenesisTransaction) Type() TagType { return GenesisTag }

// Serialize - canonical form
func (tx *GenesisTransaction) Serialize(writer *serializer.Writer) {
	tx.serializePrefix(writer, GenesisTag)
	writer.Key(tx.SecretKey[:])

	writer.Varint(uint64(len(tx.Outputs)))
	for i := range tx.Outputs {
		tx.Outputs[i].Serialize(writer)
	}
}

// DeserializeGenesis - parse the canonical form
func DeserializeGenesis(reader *serializer.Reader) (*GenesisTransaction, error) {
	tx := &GenesisTransaction{}

	tag := tx.deserializePrefix(reader)
	copy(tx.SecretKey[:], reader.Key(crypto.KeyLength))

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
	if GenesisTag != tag {
		return nil, fault.ErrUnknownTransactionType
	}
	return tx, nil
}

// Hash - SHA3 of the full canonical form
func (tx *GenesisTransaction) Hash() crypto.Hash {
	return crypto.NewHash(Pack(tx))
}

// Size - canonical byte count
func (tx *GenesisTransaction) Size() int {
	return len(Pack(tx))
}
