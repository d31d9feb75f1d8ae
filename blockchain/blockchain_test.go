// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivantse/turtlecoin-v2/blockrecord"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/fixtures"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	result := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(result)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "chain"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

// a committed normal transaction with unique content per seed
func makeUserTx(seed byte, unlockBlock uint64) *transactionrecord.CommittedNormalTransaction {
	tx := &transactionrecord.CommittedNormalTransaction{}
	tx.Version = 1
	tx.UnlockBlock = unlockBlock
	tx.PublicKey[0] = seed
	tx.Fee = 1
	tx.KeyImages = []crypto.KeyImage{{seed, 0x01}, {seed, 0x02}}
	for i := byte(0); i < 2; i += 1 {
		out := transactionrecord.TransactionOutput{Amount: uint64(seed)*10 + uint64(i) + 1}
		out.PublicEphemeral[0] = seed
		out.PublicEphemeral[1] = i + 1
		out.Commitment[0] = seed + i + 1
		tx.Outputs = append(tx.Outputs, out)
	}
	tx.SignatureHash[0] = seed
	tx.RangeProofHash[0] = seed
	return tx
}

func makeChainBlock(index uint64, timestamp uint64, previous crypto.Hash, userTxs []transactionrecord.Transaction) *blockrecord.Block {
	reward := &transactionrecord.StakerRewardTransaction{}
	reward.Version = 1
	reward.StakerOutputs = []transactionrecord.StakerOutput{
		{StakerID: crypto.Hash{byte(index + 1)}, Amount: index + 1},
	}

	block := &blockrecord.Block{
		Version:      1,
		PreviousHash: previous,
		Timestamp:    timestamp,
		Index:        index,
		RewardTx:     reward,
	}
	for _, tx := range userTxs {
		block.AppendTransactionHash(tx.Hash())
	}
	return block
}

// order the provided transactions the way the block stores them
func sortByHash(txs []transactionrecord.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		a := txs[i].Hash()
		b := txs[j].Hash()
		return a.Cmp(b) < 0
	})
}

func TestPutBlockChecksOrdering(t *testing.T) {
	store := openTestStore(t)

	txs := []transactionrecord.Transaction{
		makeUserTx(1, 0),
		makeUserTx(2, 0),
	}
	sortByHash(txs)
	block := makeChainBlock(0, 1000, crypto.Hash{}, txs)

	// count mismatch
	err := store.PutBlock(block, txs[:1])
	assert.Equal(t, fault.ErrBlockTransactionMismatch, err)

	// order mismatch
	reversed := []transactionrecord.Transaction{txs[1], txs[0]}
	err = store.PutBlock(block, reversed)
	assert.Equal(t, fault.ErrBlockTransactionOrder, err)

	// correct order
	require.NoError(t, store.PutBlock(block, txs))
}

func TestGetBlock(t *testing.T) {
	store := openTestStore(t)

	txs := []transactionrecord.Transaction{makeUserTx(1, 0), makeUserTx(2, 0)}
	sortByHash(txs)
	block := makeChainBlock(0, 1000, crypto.Hash{}, txs)
	require.NoError(t, store.PutBlock(block, txs))

	restored, restoredTxs, err := store.GetBlock(block.Hash())
	require.NoError(t, err)
	assert.Equal(t, block.Hash(), restored.Hash())
	require.Len(t, restoredTxs, 2)
	assert.Equal(t, txs[0].Hash(), restoredTxs[0].Hash())
	assert.Equal(t, txs[1].Hash(), restoredTxs[1].Hash())

	byIndex, _, err := store.GetBlockByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, block.Hash(), byIndex.Hash())

	hash, err := store.GetBlockHash(0)
	require.NoError(t, err)
	assert.Equal(t, block.Hash(), hash)

	index, err := store.GetBlockIndex(block.Hash())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), index)

	_, _, err = store.GetBlock(crypto.Hash{0xff})
	assert.Equal(t, fault.ErrBlockNotFound, err)
}

func TestGetBlockByTimestamp(t *testing.T) {
	store := openTestStore(t)

	blockA := makeChainBlock(0, 1000, crypto.Hash{}, nil)
	require.NoError(t, store.PutBlock(blockA, nil))

	blockB := makeChainBlock(1, 2000, blockA.Hash(), nil)
	require.NoError(t, store.PutBlock(blockB, nil))

	timestamp, hash, err := store.GetBlockByTimestamp(1500)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), timestamp)
	assert.Equal(t, blockB.Hash(), hash)

	timestamp, hash, err = store.GetBlockByTimestamp(1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), timestamp)
	assert.Equal(t, blockA.Hash(), hash)

	_, _, err = store.GetBlockByTimestamp(9999)
	assert.Equal(t, fault.ErrBlockNotFound, err)
}

func TestGetTransaction(t *testing.T) {
	store := openTestStore(t)

	txs := []transactionrecord.Transaction{makeUserTx(7, 3)}
	block := makeChainBlock(0, 1000, crypto.Hash{}, txs)
	require.NoError(t, store.PutBlock(block, txs))

	tx, blockHash, err := store.GetTransaction(txs[0].Hash())
	require.NoError(t, err)
	assert.Equal(t, block.Hash(), blockHash)
	assert.Equal(t, txs[0].Hash(), tx.Hash())

	_, _, err = store.GetTransaction(crypto.Hash{0xee})
	assert.Equal(t, fault.ErrTransactionNotFound, err)
}

// the key image set must track exactly the committed inputs
func TestKeyImageUniqueness(t *testing.T) {
	store := openTestStore(t)

	txs := []transactionrecord.Transaction{makeUserTx(1, 0), makeUserTx(2, 0)}
	sortByHash(txs)
	block := makeChainBlock(0, 1000, crypto.Hash{}, txs)
	require.NoError(t, store.PutBlock(block, txs))

	assert.Equal(t, 4, store.KeyImageCount(), "two inputs per transaction expected")
	assert.True(t, store.KeyImageExists(crypto.KeyImage{1, 0x01}))
	assert.True(t, store.KeyImagesExist([]crypto.KeyImage{{0xff}, {2, 0x02}}))
	assert.False(t, store.KeyImagesExist([]crypto.KeyImage{{0xff}}))
}

func TestRandomOutputsRequiresPopulation(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetRandomOutputs(10, 4)
	assert.Equal(t, fault.ErrOutputNotFound, err)

	txs := []transactionrecord.Transaction{makeUserTx(1, 0), makeUserTx(2, 0)}
	sortByHash(txs)
	block := makeChainBlock(0, 1000, crypto.Hash{}, txs)
	require.NoError(t, store.PutBlock(block, txs))

	outputs, err := store.GetRandomOutputs(10, 4)
	require.NoError(t, err)
	require.Len(t, outputs, 4)

	// sorted by output hash
	for i := 1; i < len(outputs); i += 1 {
		previous := outputs[i-1].Hash()
		current := outputs[i].Hash()
		assert.True(t, previous.Cmp(current) < 0, "results are not sorted")
	}
}

// locked outputs are never selected
func TestRandomOutputsSkipsLocked(t *testing.T) {
	store := openTestStore(t)

	unlocked := []transactionrecord.Transaction{makeUserTx(1, 5)}
	locked := []transactionrecord.Transaction{makeUserTx(2, 100)}
	all := append(append([]transactionrecord.Transaction{}, unlocked...), locked...)
	sortByHash(all)
	block := makeChainBlock(0, 1000, crypto.Hash{}, all)
	require.NoError(t, store.PutBlock(block, all))

	outputs, err := store.GetRandomOutputs(10, 2)
	require.NoError(t, err)

	expected := map[crypto.Hash]struct{}{}
	for _, tx := range unlocked {
		for _, out := range tx.(*transactionrecord.CommittedNormalTransaction).Outputs {
			expected[out.Hash()] = struct{}{}
		}
	}
	for _, out := range outputs {
		_, ok := expected[out.Hash()]
		assert.True(t, ok, "locked output was selected")
	}
}

// a fixed draw sequence must give a fixed sorted sample
func TestRandomOutputsDeterministic(t *testing.T) {
	store := openTestStore(t)

	txs := []transactionrecord.Transaction{makeUserTx(1, 0), makeUserTx(2, 0)}
	sortByHash(txs)
	block := makeChainBlock(0, 1000, crypto.Hash{}, txs)
	require.NoError(t, store.PutBlock(block, txs))

	// draw the stored output hashes themselves so that every seek
	// lands exactly and the sample is fully determined
	var outputHashes []crypto.Hash
	for _, tx := range txs {
		for _, out := range tx.(*transactionrecord.CommittedNormalTransaction).Outputs {
			outputHashes = append(outputHashes, out.Hash())
		}
	}

	draws := func() func() crypto.Hash {
		i := 0
		return func() crypto.Hash {
			hash := outputHashes[i%len(outputHashes)]
			i += 1
			return hash
		}
	}

	store.randomHash = draws()
	first, err := store.GetRandomOutputs(10, 3)
	require.NoError(t, err)

	store.randomHash = draws()
	second, err := store.GetRandomOutputs(10, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// rewind must be the exact inverse of the puts above the target
func TestRewindIsInverse(t *testing.T) {
	store := openTestStore(t)

	baseTxs := []transactionrecord.Transaction{makeUserTx(1, 0)}
	base := makeChainBlock(0, 1000, crypto.Hash{}, baseTxs)
	require.NoError(t, store.PutBlock(base, baseTxs))

	blockCount := store.BlockCount()
	keyImageCount := store.KeyImageCount()
	outputCount := store.OutputCount()

	extraTxs := []transactionrecord.Transaction{makeUserTx(2, 0), makeUserTx(3, 0)}
	sortByHash(extraTxs)
	extra := makeChainBlock(1, 2000, base.Hash(), extraTxs)
	require.NoError(t, store.PutBlock(extra, extraTxs))

	assert.Greater(t, store.KeyImageCount(), keyImageCount)

	require.NoError(t, store.Rewind(0))

	assert.Equal(t, blockCount, store.BlockCount())
	assert.Equal(t, keyImageCount, store.KeyImageCount())
	assert.Equal(t, outputCount, store.OutputCount())
	assert.False(t, store.BlockExistsAtIndex(1))
	assert.False(t, store.TransactionExists(extraTxs[0].Hash()))

	height, ok := store.Height()
	require.True(t, ok)
	assert.Equal(t, uint64(0), height)
}

func TestRewindMissingTarget(t *testing.T) {
	store := openTestStore(t)
	assert.Equal(t, fault.ErrBlockNotFound, store.Rewind(5))
}
