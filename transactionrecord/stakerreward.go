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

// StakerRewardTransaction - the per round reward record crediting and
// penalising stakers
type StakerRewardTransaction struct {
	Header
	StakerOutputs   []StakerOutput
	StakerPenalties []StakerOutput
}

// Type - the record type code
func (tx *StakerRewardTransaction) Type() TagType { return StakerRewardTag }

// Serialize - canonical form
func (tx *StakerRewardTransaction) Serialize(writer *serializer.Writer) {
	tx.serializeHeader(writer, StakerRewardTag)

	writer.Varint(uint64(len(tx.StakerOutputs)))
	for i := range tx.StakerOutputs {
		tx.StakerOutputs[i].Serialize(writer)
	}

	writer.Varint(uint64(len(tx.StakerPenalties)))
	for i := range tx.StakerPenalties {
		tx.StakerPenalties[i].Serialize(writer)
	}
}

// DeserializeStakerReward - parse the canonical form
func DeserializeStakerReward(reader *serializer.Reader) (*StakerRewardTransaction, error) {
	tx := &StakerRewardTransaction{}

	tag := tx.deserializeHeader(reader)
	tx.StakerOutputs = deserializeStakerOutputs(reader)
	tx.StakerPenalties = deserializeStakerOutputs(reader)

	if err := reader.Error(); nil != err {
		return nil, err
	}
	if StakerRewardTag != tag {
		return nil, fault.ErrUnknownTransactionType
	}
	return tx, nil
}

func deserializeStakerOutputs(reader *serializer.Reader) []StakerOutput {
	count := reader.Varint()
	if nil != reader.Error() || 0 == count || count > uint64(reader.Remaining()) {
		return nil
	}
	outputs := make([]StakerOutput, 0, count)
	for i := uint64(0); i < count; i += 1 {
		outputs = append(outputs, DeserializeStakerOutput(reader))
	}
	return outputs
}

// Hash - SHA3 of the full canonical form
func (tx *StakerRewardTransaction) Hash() crypto.Hash {
	return crypto.NewHash(Pack(tx))
}

// Size - canonical byte count
func (tx *StakerRewardTransaction) Size() int {
	return len(Pack(tx))
}
