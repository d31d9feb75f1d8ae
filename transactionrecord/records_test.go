// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/serializer"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

func makeOutput(seed byte) transactionrecord.TransactionOutput {
	out := transactionrecord.TransactionOutput{
		Amount: uint64(seed) + 1,
	}
	out.PublicEphemeral[0] = seed + 1
	out.Commitment[0] = seed + 2
	return out
}

func makeUncommittedNormal() *transactionrecord.UncommittedNormalTransaction {
	tx := &transactionrecord.UncommittedNormalTransaction{}
	tx.Version = 1
	tx.UnlockBlock = 10
	tx.PublicKey[0] = 0x42
	tx.Nonce = 7
	tx.Fee = 3
	tx.KeyImages = []crypto.KeyImage{{0x11}, {0x22}}
	tx.Outputs = []transactionrecord.TransactionOutput{makeOutput(1), makeOutput(2)}
	tx.Extra = []byte("extra data")
	tx.PseudoCommitments = []crypto.Commitment{{0x33}, {0x44}}
	tx.RingParticipants = []crypto.Hash{{0x55}, {0x66}}
	tx.Signatures = []crypto.RingSignature{
		{Scalars: make([]crypto.Scalar, 4), Challenge: crypto.Scalar{0x01}},
		{Scalars: make([]crypto.Scalar, 4), Challenge: crypto.Scalar{0x02}},
	}
	tx.RangeProof = crypto.RangeProof{
		A:  crypto.Point{0x0a},
		A1: crypto.Point{0x0b},
		B:  crypto.Point{0x0c},
		L:  []crypto.Point{{0x0d}},
		R:  []crypto.Point{{0x0e}},
	}
	return tx
}

func TestGenesisRoundTrip(t *testing.T) {
	tx := &transactionrecord.GenesisTransaction{}
	tx.Version = 1
	tx.PublicKey[0] = 0x01
	tx.SecretKey[0] = 0x02
	for i := byte(0); i < 4; i += 1 {
		tx.Outputs = append(tx.Outputs, makeOutput(i))
	}

	packed := transactionrecord.Pack(tx)

	restored, err := transactionrecord.Deserialize(serializer.NewReader(packed))
	require.NoError(t, err)

	genesis, ok := restored.(*transactionrecord.GenesisTransaction)
	require.True(t, ok, "wrong type: %T", restored)
	assert.Equal(t, tx, genesis)
	assert.Equal(t, tx.Hash(), genesis.Hash())
}

func TestStakerRewardRoundTrip(t *testing.T) {
	tx := &transactionrecord.StakerRewardTransaction{}
	tx.Version = 1
	tx.StakerOutputs = []transactionrecord.StakerOutput{
		{StakerID: crypto.Hash{0x01}, Amount: 100},
		{StakerID: crypto.Hash{0x02}, Amount: 200},
	}
	tx.StakerPenalties = []transactionrecord.StakerOutput{
		{StakerID: crypto.Hash{0x03}, Amount: 50},
	}

	packed := transactionrecord.Pack(tx)

	restored, err := transactionrecord.Deserialize(serializer.NewReader(packed))
	require.NoError(t, err)
	assert.Equal(t, tx, restored)
}

func TestUncommittedNormalRoundTrip(t *testing.T) {
	tx := makeUncommittedNormal()

	packed := transactionrecord.Pack(tx)

	restored, err := transactionrecord.DeserializeUncommitted(serializer.NewReader(packed))
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), restored.Hash())
	assert.Equal(t, tx, restored)
}

func TestCommittedStakeRoundTrip(t *testing.T) {
	tx := &transactionrecord.CommittedStakeTransaction{}
	tx.Version = 1
	tx.PublicKey[0] = 0x07
	tx.Fee = 1
	tx.KeyImages = []crypto.KeyImage{{0x01}}
	tx.Outputs = []transactionrecord.TransactionOutput{makeOutput(1), makeOutput(2)}
	tx.StakeAmount = 100000
	tx.CandidatePublicKey[0] = 0x08
	tx.StakerPublicViewKey[0] = 0x09
	tx.StakerPublicSpendKey[0] = 0x0a
	tx.SignatureHash[0] = 0x0b
	tx.RangeProofHash[0] = 0x0c

	packed := transactionrecord.Pack(tx)

	restored, err := transactionrecord.Deserialize(serializer.NewReader(packed))
	require.NoError(t, err)
	assert.Equal(t, tx, restored)
}

func TestStakeRefundRoundTrip(t *testing.T) {
	tx := &transactionrecord.StakeRefundTransaction{}
	tx.Version = 1
	tx.PublicKey[0] = 0x01
	tx.SecretKey[0] = 0x02
	tx.RecallStakeTxHash[0] = 0x03
	tx.Outputs = []transactionrecord.TransactionOutput{makeOutput(9)}

	packed := transactionrecord.Pack(tx)

	restored, err := transactionrecord.Deserialize(serializer.NewReader(packed))
	require.NoError(t, err)
	assert.Equal(t, tx, restored)
}

// both forms of one transaction must share one identity
func TestCommittedHashEquivalence(t *testing.T) {
	uncommitted := makeUncommittedNormal()
	committed := uncommitted.ToCommitted()

	assert.Equal(t, uncommitted.Hash(), committed.Hash(),
		"committed form changed the transaction hash")

	// the committed form must be smaller and match CommittedSize
	assert.Equal(t, uncommitted.CommittedSize(), committed.Size())
	assert.Less(t, committed.Size(), uncommitted.Size())
}

// the staker id binds the view and spend keys in order
func TestStakerID(t *testing.T) {
	data := transactionrecord.StakeData{}
	data.StakerPublicViewKey[0] = 0x01
	data.StakerPublicSpendKey[0] = 0x02

	expected := crypto.NewHash(
		data.StakerPublicViewKey[:],
		data.StakerPublicSpendKey[:],
	)
	assert.Equal(t, expected, data.StakerID())

	swapped := transactionrecord.StakeData{}
	swapped.StakerPublicViewKey[0] = 0x02
	swapped.StakerPublicSpendKey[0] = 0x01
	assert.NotEqual(t, expected, swapped.StakerID())
}

func TestUnknownTag(t *testing.T) {
	w := serializer.NewWriter()
	w.Varint(99)
	w.Varint(1)

	_, err := transactionrecord.Deserialize(serializer.NewReader(w.Bytes()))
	assert.Error(t, err)
}

func TestRequiredFee(t *testing.T) {

	// below the base size only the minimum applies
	assert.Equal(t, transactionrecord.MinimumFee, transactionrecord.RequiredFee(100, 1))
	assert.Equal(t, transactionrecord.MinimumFee, transactionrecord.RequiredFee(320, 1))

	// one byte over the base starts a new chunk
	assert.Equal(t, uint64(1), transactionrecord.RequiredFee(321, 1))

	// 1024 bytes over the base is 32 chunks
	assert.Equal(t, uint64(32), transactionrecord.RequiredFee(1024+320, 1))

	// each extra zero halves the size fee
	assert.Equal(t, uint64(16), transactionrecord.RequiredFee(1024+320, 2))
	assert.Equal(t, uint64(8), transactionrecord.RequiredFee(1024+320, 3))
}

// fee is non-increasing in the zero count over the valid range
func TestRequiredFeeMonotonic(t *testing.T) {
	sizes := []int{0, 320, 321, 1000, 5000, 100000}
	for _, size := range sizes {
		previous := transactionrecord.RequiredFee(size, transactionrecord.MinimumPowZeros)
		for z := transactionrecord.MinimumPowZeros + 1; z <= transactionrecord.MaximumPowZeros; z += 1 {
			current := transactionrecord.RequiredFee(size, z)
			assert.LessOrEqual(t, current, previous,
				"fee increased at size %d zeros %d", size, z)
			previous = current
		}

		// zeros beyond the maximum gain nothing
		capped := transactionrecord.RequiredFee(size, transactionrecord.MaximumPowZeros+5)
		assert.Equal(t, transactionrecord.RequiredFee(size, transactionrecord.MaximumPowZeros), capped)
	}
}

func TestRecordName(t *testing.T) {
	name, ok := transactionrecord.RecordName(&transactionrecord.GenesisTransaction{})
	assert.True(t, ok)
	assert.Equal(t, "Genesis", name)

	_, ok = transactionrecord.RecordName(42)
	assert.False(t, ok)
}
