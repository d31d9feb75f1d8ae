// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package validate_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivantse/turtlecoin-v2/blockchain"
	"github.com/ivantse/turtlecoin-v2/blockrecord"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/fixtures"
	"github.com/ivantse/turtlecoin-v2/genesis"
	"github.com/ivantse/turtlecoin-v2/staking"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
	"github.com/ivantse/turtlecoin-v2/validate"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	result := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(result)
}

// a deterministic hash backed engine standing in for the external
// curve library
type stubEngine struct{}

func (stubEngine) CheckSubgroup(point crypto.Point) bool {
	// a marker byte lets tests inject an invalid key image
	return point[31] != 0xee
}

func (stubEngine) SecretKeyToPublicKey(secret crypto.SecretKey) (crypto.Point, bool) {
	return crypto.Point(secret), true
}

func (stubEngine) GenerateKeyDerivation(publicView crypto.Point, secret crypto.SecretKey) (crypto.Point, bool) {
	return crypto.Point(crypto.NewHash([]byte("derive"), publicView[:], secret[:])), true
}

func (stubEngine) DerivationToScalar(derivation crypto.Point, index uint64) crypto.Scalar {
	indexBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(indexBytes, index)
	return crypto.Scalar(crypto.NewHash([]byte("scalar"), derivation[:], indexBytes))
}

func (stubEngine) DerivePublicKey(scalar crypto.Scalar, publicSpend crypto.Point) (crypto.Point, bool) {
	return crypto.Point(crypto.NewHash([]byte("ephemeral"), scalar[:], publicSpend[:])), true
}

func (stubEngine) GenerateCommitmentBlindingFactor(scalar crypto.Scalar) crypto.Scalar {
	return crypto.Scalar(crypto.NewHash([]byte("blinding"), scalar[:]))
}

func (stubEngine) GenerateAmountMask(scalar crypto.Scalar) uint64 {
	digest := crypto.NewHash([]byte("mask"), scalar[:])
	return binary.BigEndian.Uint64(digest[:8])
}

func (stubEngine) ToggleMaskedAmount(mask uint64, amount uint64) uint64 {
	return mask ^ amount
}

func (stubEngine) GeneratePedersenCommitment(blinding crypto.Scalar, amount uint64) crypto.Commitment {
	amountBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(amountBytes, amount)
	return crypto.Commitment(crypto.NewHash([]byte("commit"), blinding[:], amountBytes))
}

func (stubEngine) CheckCommitmentsParity(pseudo []crypto.Commitment, outputs []crypto.Commitment, fee uint64) bool {
	return true
}

func (stubEngine) CheckRingSignature(digest crypto.Hash, keyImage crypto.KeyImage, publicKeys []crypto.Point, signature *crypto.RingSignature, commitments []crypto.Commitment) bool {
	return signature.Challenge[31] != 0xbb
}

func (stubEngine) VerifyRangeProof(proof *crypto.RangeProof, commitments []crypto.Commitment) bool {
	return proof.B[31] != 0xcc
}

func (stubEngine) VerifySignature(digest crypto.Hash, publicKey crypto.Point, signature crypto.Signature) bool {
	return true
}

// fixed proof of work results keyed by nothing: tests set the level
func setPowZeros(t *testing.T, zeros int) {
	t.Helper()

	original := crypto.PowHash
	crypto.PowHash = func(seed crypto.Hash) crypto.Hash {
		var hash crypto.Hash
		// set the first bit after the requested zero count
		hash[zeros/8] = 0x80 >> (zeros % 8)
		return hash
	}
	t.Cleanup(func() { crypto.PowHash = original })
}

func newValidator(t *testing.T) (*validate.Validator, *blockchain.Store, *staking.Engine) {
	t.Helper()

	store, err := blockchain.Open(filepath.Join(t.TempDir(), "chain"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	engine, err := staking.Open(filepath.Join(t.TempDir(), "staking"))
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	return validate.New(store, engine, stubEngine{}), store, engine
}

func makeUncommittedNormal() *transactionrecord.UncommittedNormalTransaction {
	tx := &transactionrecord.UncommittedNormalTransaction{}
	tx.Version = 1
	tx.PublicKey[0] = 0x42
	tx.Fee = 1
	tx.KeyImages = []crypto.KeyImage{{0x01}}
	for i := byte(0); i < 2; i += 1 {
		out := transactionrecord.TransactionOutput{Amount: uint64(i) + 1}
		out.PublicEphemeral[0] = i + 1
		out.Commitment[0] = i + 1
		tx.Outputs = append(tx.Outputs, out)
	}
	tx.PseudoCommitments = []crypto.Commitment{{0x09}}
	tx.Signatures = []crypto.RingSignature{
		{Scalars: make([]crypto.Scalar, transactionrecord.RingSize), Challenge: crypto.Scalar{0x01}},
	}
	tx.RingParticipants = []crypto.Hash{{0x77}}
	tx.RangeProof = crypto.RangeProof{
		A:  crypto.Point{0x01},
		A1: crypto.Point{0x02},
		B:  crypto.Point{0x03},
		L:  []crypto.Point{{0x04}},
		R:  []crypto.Point{{0x05}},
	}
	return tx
}

func TestCheckConstructionRejects(t *testing.T) {
	validator, _, _ := newValidator(t)
	setPowZeros(t, 1)

	// bad version
	tx := makeUncommittedNormal()
	tx.Version = 9
	assert.Equal(t, fault.ErrTxInvalidVersion, validator.CheckUncommitted(tx))

	// missing public key
	tx = makeUncommittedNormal()
	tx.PublicKey = crypto.Point{}
	assert.Equal(t, fault.ErrTxPublicKey, validator.CheckUncommitted(tx))

	// identity public key
	tx = makeUncommittedNormal()
	tx.PublicKey = crypto.Point{0x01}
	assert.Equal(t, fault.ErrTxPublicKey, validator.CheckUncommitted(tx))

	// no inputs
	tx = makeUncommittedNormal()
	tx.KeyImages = nil
	assert.Equal(t, fault.ErrTxInvalidInputCount, validator.CheckUncommitted(tx))

	// too many inputs
	tx = makeUncommittedNormal()
	tx.KeyImages = make([]crypto.KeyImage, transactionrecord.MaximumInputs+1)
	for i := range tx.KeyImages {
		tx.KeyImages[i][0] = byte(i + 1)
	}
	assert.Equal(t, fault.ErrTxInvalidInputCount, validator.CheckUncommitted(tx))

	// invalid key image subgroup
	tx = makeUncommittedNormal()
	tx.KeyImages[0][31] = 0xee
	assert.Equal(t, fault.ErrTxInvalidKeyImage, validator.CheckUncommitted(tx))

	// duplicate key images
	tx = makeUncommittedNormal()
	tx.KeyImages = []crypto.KeyImage{{0x01}, {0x01}}
	tx.PseudoCommitments = append(tx.PseudoCommitments, crypto.Commitment{0x0a})
	tx.Signatures = append(tx.Signatures, tx.Signatures[0])
	assert.Equal(t, fault.ErrTxDuplicateKeyImage, validator.CheckUncommitted(tx))

	// too few outputs
	tx = makeUncommittedNormal()
	tx.Outputs = tx.Outputs[:1]
	assert.Equal(t, fault.ErrTxInvalidOutputCount, validator.CheckUncommitted(tx))

	// oversized extra
	tx = makeUncommittedNormal()
	tx.Extra = make([]byte, transactionrecord.MaximumExtraSize+1)
	assert.Equal(t, fault.ErrTxExtraTooLarge, validator.CheckUncommitted(tx))

	// pseudo commitment count mismatch
	tx = makeUncommittedNormal()
	tx.PseudoCommitments = nil
	assert.Equal(t, fault.ErrTxInvalidPseudoCommitments, validator.CheckUncommitted(tx))

	// signature count mismatch
	tx = makeUncommittedNormal()
	tx.Signatures = nil
	assert.Equal(t, fault.ErrTxSignatureSizeMismatch, validator.CheckUncommitted(tx))

	// signature ring size mismatch
	tx = makeUncommittedNormal()
	tx.Signatures[0].Scalars = tx.Signatures[0].Scalars[:4]
	assert.Equal(t, fault.ErrTxInvalidSignature, validator.CheckUncommitted(tx))

	// all checks pass
	tx = makeUncommittedNormal()
	assert.NoError(t, validator.CheckUncommitted(tx))
}

// proof of work floor and fee floor
func TestCheckPowAndFee(t *testing.T) {
	validator, _, _ := newValidator(t)

	// no leading zeros: rejected regardless of fee
	setPowZeros(t, 0)
	tx := makeUncommittedNormal()
	assert.Equal(t, fault.ErrTxMinimumPoW, validator.CheckUncommitted(tx))

	// one zero but a zero fee: below the required fee
	setPowZeros(t, 1)
	tx = makeUncommittedNormal()
	tx.Fee = 0
	assert.Equal(t, fault.ErrTxLowFee, validator.CheckUncommitted(tx))

	// one zero and the exact required fee
	tx = makeUncommittedNormal()
	tx.Fee = transactionrecord.RequiredFee(tx.CommittedSize(), 1)
	assert.NoError(t, validator.CheckUncommitted(tx))
}

// key image already on the chain is a double spend
func TestValidateDoubleSpend(t *testing.T) {
	validator, store, _ := newValidator(t)
	setPowZeros(t, 1)

	spent := crypto.KeyImage{0x01}

	committed := &transactionrecord.CommittedNormalTransaction{}
	committed.Version = 1
	committed.PublicKey[0] = 0x09
	committed.Fee = 1
	committed.KeyImages = []crypto.KeyImage{spent}
	for i := byte(0); i < 2; i += 1 {
		out := transactionrecord.TransactionOutput{Amount: uint64(i) + 1}
		out.PublicEphemeral[0] = 0x30 + i
		out.Commitment[0] = 0x40 + i
		committed.Outputs = append(committed.Outputs, out)
	}

	txs := []transactionrecord.Transaction{committed}
	block := &blockrecord.Block{
		Version:   1,
		Timestamp: 1000,
		Index:     0,
		RewardTx: &transactionrecord.StakerRewardTransaction{
			Header: transactionrecord.Header{Version: 1},
			StakerOutputs: []transactionrecord.StakerOutput{
				{StakerID: crypto.Hash{0x01}, Amount: 1},
			},
		},
	}
	block.AppendTransactionHash(committed.Hash())
	require.NoError(t, store.PutBlock(block, txs))

	// an uncommitted spend of the same key image must be rejected
	tx := makeUncommittedNormal()
	tx.KeyImages = []crypto.KeyImage{spent}
	assert.Equal(t, fault.ErrTxKeyImageAlreadyExists, validator.ValidateUncommitted(tx))
}

// ring members must resolve to stored outputs
func TestValidateRingResolution(t *testing.T) {
	validator, _, _ := newValidator(t)
	setPowZeros(t, 1)

	tx := makeUncommittedNormal()
	tx.RingParticipants = []crypto.Hash{{0x12, 0x34}}
	assert.Equal(t, fault.ErrOutputNotFound, validator.ValidateUncommitted(tx))
}

func TestValidateRangeProofRejected(t *testing.T) {
	validator, _, _ := newValidator(t)
	setPowZeros(t, 1)

	tx := makeUncommittedNormal()
	tx.RangeProof.B[31] = 0xcc
	assert.Equal(t, fault.ErrTxInvalidRangeProof, validator.ValidateUncommitted(tx))
}

// the full genesis acceptance scenario
func TestValidateGenesis(t *testing.T) {
	validator, store, _ := newValidator(t)

	engine := stubEngine{}

	// point the premine at a decodable test wallet
	var spend, view crypto.Point
	spend[0] = 0x51
	view[0] = 0x52
	originalWallet := genesis.DestinationWallet
	genesis.DestinationWallet = genesis.EncodeAddress(spend, view)
	defer func() { genesis.DestinationWallet = originalWallet }()

	tx := &transactionrecord.GenesisTransaction{}
	tx.Version = 1
	tx.SecretKey = genesis.TxPrivateKey
	tx.PublicKey, _ = engine.SecretKeyToPublicKey(tx.SecretKey)

	derivation, _ := engine.GenerateKeyDerivation(view, tx.SecretKey)
	for i := 0; i < transactionrecord.RingSize*2; i += 1 {
		scalar := engine.DerivationToScalar(derivation, uint64(i))
		blinding := engine.GenerateCommitmentBlindingFactor(scalar)
		mask := engine.GenerateAmountMask(scalar)

		ephemeral, _ := engine.DerivePublicKey(scalar, spend)
		out := transactionrecord.TransactionOutput{
			PublicEphemeral: ephemeral,
			Amount:          engine.ToggleMaskedAmount(mask, genesis.OutputAmount),
			Commitment:      engine.GeneratePedersenCommitment(blinding, genesis.OutputAmount),
		}
		tx.Outputs = append(tx.Outputs, out)
	}

	require.NoError(t, validator.Check(tx))
	require.NoError(t, validator.Validate(tx))

	// wrong secret key
	bad := *tx
	bad.SecretKey[0] ^= 0xff
	bad.PublicKey, _ = engine.SecretKeyToPublicKey(bad.SecretKey)
	assert.Equal(t, fault.ErrTxSecretKey, validator.Validate(&bad))

	// tampered output
	tampered := *tx
	tampered.Outputs = append([]transactionrecord.TransactionOutput{}, tx.Outputs...)
	tampered.Outputs[3].PublicEphemeral[0] ^= 0xff
	assert.Equal(t, fault.ErrTxOutputPublicEphemeral, validator.Validate(&tampered))

	// once a block occupies index 0 the genesis is rejected
	block := &blockrecord.Block{
		Version:   1,
		Timestamp: genesis.Timestamp,
		Index:     0,
		RewardTx:  tx,
	}
	require.NoError(t, store.PutBlock(block, nil))
	assert.Equal(t, fault.ErrTxGenesisAlreadyExists, validator.Validate(tx))
}

// stake specific validation against the staking engine
func TestValidateStake(t *testing.T) {
	validator, _, stakingEngine := newValidator(t)
	setPowZeros(t, 1)

	makeStake := func(version uint64, amount uint64) *transactionrecord.UncommittedStakeTransaction {
		tx := &transactionrecord.UncommittedStakeTransaction{}
		tx.Version = version
		tx.PublicKey[0] = 0x42
		tx.Fee = 1
		tx.KeyImages = []crypto.KeyImage{{0x01}}
		for i := byte(0); i < 2; i += 1 {
			out := transactionrecord.TransactionOutput{Amount: uint64(i) + 1}
			out.PublicEphemeral[0] = i + 1
			out.Commitment[0] = i + 1
			tx.Outputs = append(tx.Outputs, out)
		}
		tx.StakeAmount = amount
		tx.CandidatePublicKey[0] = 0x61
		tx.StakerPublicViewKey[0] = 0x62
		tx.StakerPublicSpendKey[0] = 0x63
		tx.PseudoCommitments = []crypto.Commitment{{0x09}}
		tx.Signatures = []crypto.RingSignature{
			{Scalars: make([]crypto.Scalar, transactionrecord.RingSize), Challenge: crypto.Scalar{0x01}},
		}
		tx.RangeProof = crypto.RangeProof{
			A:  crypto.Point{0x01},
			A1: crypto.Point{0x02},
			B:  crypto.Point{0x03},
			L:  []crypto.Point{{0x04}},
			R:  []crypto.Point{{0x05}},
		}
		return tx
	}

	// candidacy with the wrong bond
	tx := makeStake(1, staking.RequiredCandidacyAmount+1)
	assert.Equal(t, fault.ErrStakingCandidateAmount, validator.ValidateUncommitted(tx))

	// correct candidacy
	tx = makeStake(1, staking.RequiredCandidacyAmount)
	assert.NoError(t, validator.ValidateUncommitted(tx))

	// vote before the candidate exists
	tx = makeStake(2, 500)
	assert.Equal(t, fault.ErrStakingCandidateNotFound, validator.ValidateUncommitted(tx))

	// register the candidate, then vote
	candidacy := &transactionrecord.CommittedStakeTransaction{}
	candidacy.Version = 1
	candidacy.StakeAmount = staking.RequiredCandidacyAmount
	candidacy.CandidatePublicKey[0] = 0x61
	candidacy.StakerPublicViewKey[0] = 0x62
	candidacy.StakerPublicSpendKey[0] = 0x63
	require.NoError(t, stakingEngine.AddStake(candidacy))

	// duplicate candidacy now rejected
	tx = makeStake(1, staking.RequiredCandidacyAmount)
	assert.Equal(t, fault.ErrStakingCandidateAlreadyExists, validator.ValidateUncommitted(tx))

	// vote below minimum
	tx = makeStake(2, staking.MinimumStakeAmount-1)
	assert.Equal(t, fault.ErrStakingStakeAmount, validator.ValidateUncommitted(tx))

	// valid vote
	tx = makeStake(2, 500)
	assert.NoError(t, validator.ValidateUncommitted(tx))
}

func TestValidateStakeRefund(t *testing.T) {
	validator, _, _ := newValidator(t)

	engine := stubEngine{}

	tx := &transactionrecord.StakeRefundTransaction{}
	tx.Version = 1
	tx.SecretKey[0] = 0x10
	tx.PublicKey, _ = engine.SecretKeyToPublicKey(tx.SecretKey)
	tx.RecallStakeTxHash = crypto.Hash{0x99}
	out := transactionrecord.TransactionOutput{Amount: 5}
	out.PublicEphemeral[0] = 0x01
	out.Commitment[0] = 0x02
	tx.Outputs = []transactionrecord.TransactionOutput{out}

	require.NoError(t, validator.Check(tx))

	// the referenced recall transaction is not on the chain
	assert.Equal(t, fault.ErrTxRecallStakeTxHash, validator.Validate(tx))
}
