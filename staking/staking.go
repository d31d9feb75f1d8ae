// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package staking - candidate and stake records plus the per round
// election
//
// two pools of one environment:
//
//	candidates  candidate public key → candidate record
//	stakes      candidate public key ∥ stake hash → stake record
//
// the composite stake key emulates a duplicate sorted store: all
// stakes on one candidate share the key prefix and sort by record
// hash
package staking

import (
	"bytes"
	"sort"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/serializer"
	"github.com/ivantse/turtlecoin-v2/storage"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

// consensus amounts, atomic units
const (
	RequiredCandidacyAmount uint64 = 100000
	MinimumStakeAmount      uint64 = 100

	// electors per role per round
	ElectorTargetCount = 10

	// per cent of validators that must co-sign a block
	ValidatorThreshold = 60
)

var instances struct {
	sync.Mutex
	engines map[string]*Engine
}

// Engine - one opened staking database
type Engine struct {
	log  *logger.L
	path string
	env  *storage.Environment

	candidates *storage.Pool
	stakes     *storage.Pool

	// serialises all mutating operations
	writeMutex sync.Mutex
}

// Open - open or alias the staking database at the given path
func Open(path string) (*Engine, error) {
	instances.Lock()
	defer instances.Unlock()

	if nil == instances.engines {
		instances.engines = make(map[string]*Engine)
	}

	if engine, ok := instances.engines[path]; ok {
		return engine, nil
	}

	env, err := storage.Open(path)
	if nil != err {
		return nil, err
	}

	engine := &Engine{
		log:        logger.New("staking"),
		path:       path,
		env:        env,
		candidates: env.Pool("candidates"),
		stakes:     env.Pool("stakes"),
	}
	instances.engines[path] = engine
	return engine, nil
}

// Close - close the staking database and drop the registry entry
func (engine *Engine) Close() {
	instances.Lock()
	delete(instances.engines, engine.path)
	instances.Unlock()

	storage.Close(engine.env)
}

func stakeKey(candidate crypto.Point, stakeHash crypto.Hash) []byte {
	key := make([]byte, 0, crypto.KeyLength+crypto.HashLength)
	key = append(key, candidate[:]...)
	return append(key, stakeHash[:]...)
}

// AddCandidate - store a candidate record
func (engine *Engine) AddCandidate(candidate Candidate) error {
	engine.writeMutex.Lock()
	defer engine.writeMutex.Unlock()

	if engine.candidates.Has(candidate.CandidatePublicKey[:]) {
		return fault.ErrStakingCandidateAlreadyExists
	}

	engine.env.Begin()
	engine.candidates.Put(candidate.CandidatePublicKey[:], candidate.Pack())
	return engine.env.Commit()
}

// DeleteCandidate - remove a candidate and all stakes placed on it
func (engine *Engine) DeleteCandidate(candidateKey crypto.Point) error {
	engine.writeMutex.Lock()
	defer engine.writeMutex.Unlock()

	if !engine.candidates.Has(candidateKey[:]) {
		return fault.ErrStakingCandidateNotFound
	}

	stakes := engine.stakesFor(candidateKey)

	engine.env.Begin()
	engine.candidates.Delete(candidateKey[:])
	for i := range stakes {
		engine.stakes.Delete(stakeKey(candidateKey, stakes[i].Hash()))
	}
	return engine.env.Commit()
}

// CandidateExists - check for a candidate
func (engine *Engine) CandidateExists(candidateKey crypto.Point) bool {
	return engine.candidates.Has(candidateKey[:])
}

// GetCandidate - fetch one candidate record
func (engine *Engine) GetCandidate(candidateKey crypto.Point) (Candidate, error) {
	value, err := engine.candidates.Get(candidateKey[:])
	if nil != err {
		return Candidate{}, fault.ErrStakingCandidateNotFound
	}
	return DeserializeCandidate(serializer.NewReader(value))
}

// GetCandidates - all candidate keys, ascending
func (engine *Engine) GetCandidates() []crypto.Point {
	var keys []crypto.Point
	_ = engine.candidates.NewCursor().Each(func(e storage.Element) bool {
		if key, ok := crypto.PointFromBytes(e.Key); ok {
			keys = append(keys, key)
		}
		return true
	})
	return keys
}

// GetCandidateStakes - all stakes placed on one candidate, ascending
// by stake hash
func (engine *Engine) GetCandidateStakes(candidateKey crypto.Point) []Stake {
	return engine.stakesFor(candidateKey)
}

func (engine *Engine) stakesFor(candidateKey crypto.Point) []Stake {
	var stakes []Stake
	_ = engine.stakes.NewCursor().Each(func(e storage.Element) bool {
		if !bytes.HasPrefix(e.Key, candidateKey[:]) {
			return true
		}
		stake, err := DeserializeStake(serializer.NewReader(e.Value))
		if nil == err {
			stakes = append(stakes, stake)
		}
		return true
	})
	return stakes
}

// GetCandidateVotes - the candidate's election weight: its own bonded
// amount plus all stakes voted onto it; zero for unknown candidates
func (engine *Engine) GetCandidateVotes(candidateKey crypto.Point) uint64 {
	candidate, err := engine.GetCandidate(candidateKey)
	if nil != err {
		return 0
	}

	votes := candidate.StakedAmount
	for _, stake := range engine.stakesFor(candidateKey) {
		votes += stake.Amount
	}
	return votes
}

// GetStakerStakes - every stake a staker has placed, keyed by
// candidate
func (engine *Engine) GetStakerStakes(stakerID crypto.Hash) map[crypto.Point][]Stake {
	result := make(map[crypto.Point][]Stake)
	_ = engine.stakes.NewCursor().Each(func(e storage.Element) bool {
		stake, err := DeserializeStake(serializer.NewReader(e.Value))
		if nil == err && stake.StakerID() == stakerID {
			result[stake.CandidatePublicKey] = append(result[stake.CandidatePublicKey], stake)
		}
		return true
	})
	return result
}

// GetStakers - ids of every staker with at least one active stake
func (engine *Engine) GetStakers() []crypto.Hash {
	seen := make(map[crypto.Hash]struct{})
	var stakers []crypto.Hash
	_ = engine.stakes.NewCursor().Each(func(e storage.Element) bool {
		stake, err := DeserializeStake(serializer.NewReader(e.Value))
		if nil != err {
			return true
		}
		id := stake.StakerID()
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			stakers = append(stakers, id)
		}
		return true
	})
	return stakers
}

// AddStake - apply a committed stake transaction
//
// version 1 proposes a candidacy, version 2 votes stake onto an
// existing candidate
func (engine *Engine) AddStake(tx *transactionrecord.CommittedStakeTransaction) error {
	switch tx.Version {
	case 1:
		if tx.StakeAmount != RequiredCandidacyAmount {
			return fault.ErrStakingCandidateAmount
		}
		candidate := Candidate{
			RecordVersion:      transactionrecord.CandidateRecordVersion,
			CandidatePublicKey: tx.CandidatePublicKey,
			StakerViewKey:      tx.StakerPublicViewKey,
			StakerSpendKey:     tx.StakerPublicSpendKey,
			StakedAmount:       tx.StakeAmount,
		}
		return engine.AddCandidate(candidate)

	case 2:
		if !engine.CandidateExists(tx.CandidatePublicKey) {
			return fault.ErrStakingCandidateNotFound
		}
		if tx.StakeAmount < MinimumStakeAmount {
			return fault.ErrStakingStakeAmount
		}
		stake := NewStake(tx.CandidatePublicKey, tx.StakerPublicViewKey, tx.StakerPublicSpendKey, tx.StakeAmount)
		return engine.RecordStake(stake)

	default:
		return fault.ErrTxInvalidVersion
	}
}

// RecordStake - store one stake record
func (engine *Engine) RecordStake(stake Stake) error {
	engine.writeMutex.Lock()
	defer engine.writeMutex.Unlock()

	engine.env.Begin()
	engine.stakes.Put(stakeKey(stake.CandidatePublicKey, stake.Hash()), stake.Pack())
	return engine.env.Commit()
}

// RecallStake - apply a committed recall: debit the staker's stakes
// on the candidate by the recalled amount
//
// records are consumed in ascending hash order; a record drained to
// zero is deleted
func (engine *Engine) RecallStake(recall *transactionrecord.CommittedRecallStakeTransaction) error {
	engine.writeMutex.Lock()
	defer engine.writeMutex.Unlock()

	stakes := engine.stakesFor(recall.CandidatePublicKey)

	remaining := recall.StakeAmount
	type update struct {
		old   Stake
		stake Stake
		drop  bool
	}
	var updates []update

	for _, stake := range stakes {
		if 0 == remaining {
			break
		}
		if stake.StakerID() != recall.StakerID {
			continue
		}

		u := update{old: stake, stake: stake}
		if stake.Amount <= remaining {
			remaining -= stake.Amount
			u.drop = true
		} else {
			u.stake.Amount -= remaining
			remaining = 0
		}
		updates = append(updates, u)
	}

	if 0 == len(updates) {
		return fault.ErrStakingStakerNotFound
	}

	engine.env.Begin()
	for _, u := range updates {
		engine.stakes.Delete(stakeKey(u.old.CandidatePublicKey, u.old.Hash()))
		if !u.drop {
			engine.stakes.Put(stakeKey(u.stake.CandidatePublicKey, u.stake.Hash()), u.stake.Pack())
		}
	}
	return engine.env.Commit()
}

// ProcessStakerReward - apply a staker reward transaction
//
// outputs credit the staker's first stake record, penalties debit
// records in ascending hash order
func (engine *Engine) ProcessStakerReward(tx *transactionrecord.StakerRewardTransaction) error {
	for i := range tx.StakerOutputs {
		err := engine.adjustStaker(tx.StakerOutputs[i].StakerID, tx.StakerOutputs[i].Amount, false)
		if nil != err {
			return err
		}
	}
	for i := range tx.StakerPenalties {
		err := engine.adjustStaker(tx.StakerPenalties[i].StakerID, tx.StakerPenalties[i].Amount, true)
		if nil != err {
			return err
		}
	}
	return nil
}

func (engine *Engine) adjustStaker(stakerID crypto.Hash, amount uint64, penalty bool) error {
	engine.writeMutex.Lock()
	defer engine.writeMutex.Unlock()

	byCandidate := engine.GetStakerStakes(stakerID)
	if 0 == len(byCandidate) {
		return fault.ErrStakingStakerNotFound
	}

	// deterministic candidate order
	candidates := make([]crypto.Point, 0, len(byCandidate))
	for candidate := range byCandidate {
		candidates = append(candidates, candidate)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return bytes.Compare(candidates[i][:], candidates[j][:]) < 0
	})

	engine.env.Begin()

	if !penalty {
		// credit the first record
		first := byCandidate[candidates[0]][0]
		engine.stakes.Delete(stakeKey(first.CandidatePublicKey, first.Hash()))
		first.Amount += amount
		engine.stakes.Put(stakeKey(first.CandidatePublicKey, first.Hash()), first.Pack())
		return engine.env.Commit()
	}

	remaining := amount
	for _, candidate := range candidates {
		for _, stake := range byCandidate[candidate] {
			if 0 == remaining {
				break
			}
			engine.stakes.Delete(stakeKey(stake.CandidatePublicKey, stake.Hash()))
			if stake.Amount <= remaining {
				remaining -= stake.Amount
				continue
			}
			stake.Amount -= remaining
			remaining = 0
			engine.stakes.Put(stakeKey(stake.CandidatePublicKey, stake.Hash()), stake.Pack())
		}
	}
	return engine.env.Commit()
}
