// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/staking"
)

func populatedEngine(t *testing.T, candidates int) *staking.Engine {
	t.Helper()

	engine, err := staking.Open(filepath.Join(t.TempDir(), "election"))
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	for i := 0; i < candidates; i += 1 {
		seed := byte(i + 1)
		require.NoError(t, engine.AddStake(candidacyTx(seed, staking.RequiredCandidacyAmount)))
		require.NoError(t, engine.AddStake(voteTx(seed, seed+100, uint64(i+1)*1000)))
	}
	return engine
}

func contains(keys []crypto.Point, key crypto.Point) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func TestCalculateElectionSeed(t *testing.T) {
	blocks := []crypto.Hash{{0x01}, {0x02}}

	point1, value1, even1 := staking.CalculateElectionSeed(blocks)
	point2, value2, even2 := staking.CalculateElectionSeed(blocks)

	assert.Equal(t, point1, point2)
	assert.Zero(t, value1.Cmp(value2))
	assert.Equal(t, even1, even2)

	// order matters
	point3, _, _ := staking.CalculateElectionSeed([]crypto.Hash{{0x02}, {0x01}})
	assert.NotEqual(t, point1, point3)
}

func TestElectionDeterministic(t *testing.T) {
	engine := populatedEngine(t, 20)

	blocks := []crypto.Hash{{0x10}, {0x20}, {0x30}}

	producers1, validators1 := engine.RunElection(blocks, staking.ElectorTargetCount)
	producers2, validators2 := engine.RunElection(blocks, staking.ElectorTargetCount)

	assert.Equal(t, producers1, producers2)
	assert.Equal(t, validators1, validators2)
}

func TestElectionInvariants(t *testing.T) {
	engine := populatedEngine(t, 20)

	seeds := [][]crypto.Hash{
		{{0x01}},
		{{0x01}, {0x02}},
		{{0xff}, {0xfe}, {0xfd}},
		{},
	}

	for i, blocks := range seeds {
		producers, validators := engine.RunElection(blocks, staking.ElectorTargetCount)

		assert.LessOrEqual(t, len(producers), staking.ElectorTargetCount, "case %d", i)
		assert.LessOrEqual(t, len(validators), staking.ElectorTargetCount, "case %d", i)

		// permanent candidates appear in both results
		for _, permanent := range staking.PermanentCandidates {
			assert.True(t, contains(producers, permanent), "case %d missing permanent producer", i)
			assert.True(t, contains(validators, permanent), "case %d missing permanent validator", i)
		}

		// the drawn electors are disjoint across the two roles
		for _, producer := range producers {
			if contains(staking.PermanentCandidates, producer) {
				continue
			}
			assert.False(t, contains(validators, producer),
				"case %d: %s elected to both roles", i, producer)
		}
	}
}

func TestElectionThinCandidateSet(t *testing.T) {
	engine := populatedEngine(t, 2)

	producers, validators := engine.RunElection([]crypto.Hash{{0x01}}, staking.ElectorTargetCount)

	// 3 permanent + at most 2 drawn
	assert.LessOrEqual(t, len(producers), 5)
	assert.LessOrEqual(t, len(validators), 5)
	assert.GreaterOrEqual(t, len(producers), len(staking.PermanentCandidates))
	assert.GreaterOrEqual(t, len(validators), len(staking.PermanentCandidates))
}

func TestElectionNoCandidates(t *testing.T) {
	engine, err := staking.Open(filepath.Join(t.TempDir(), "empty"))
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	producers, validators := engine.RunElection([]crypto.Hash{{0x01}}, staking.ElectorTargetCount)

	assert.Equal(t, staking.PermanentCandidates, producers)
	assert.Equal(t, staking.PermanentCandidates, validators)
}
