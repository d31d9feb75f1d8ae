// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"sort"

	"github.com/ivantse/turtlecoin-v2/crypto"
)

// PermanentCandidates - keys injected into every election result so
// that block production survives a thin candidate set
//
// the network requires at least three for launch
var PermanentCandidates = []crypto.Point{
	mustPoint("0dd2ca6545ea58be4a3984c15f14d6451caad4e0d91d2460310c10bd4d0becf7"),
	mustPoint("775df2eab78f18c9107a6e085a056c055bd515cf1d8746363b4a9c4bfd4951ad"),
	mustPoint("17cf02ef00953115261750711fe13d2d76d217ca5f54ca175bcecf3b5cc966eb"),
}

func mustPoint(s string) crypto.Point {
	var p crypto.Point
	for i := 0; i < crypto.KeyLength; i += 1 {
		hi := hexNibble(s[2*i])
		lo := hexNibble(s[2*i+1])
		p[i] = hi<<4 | lo
	}
	return p
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		panic("staking: invalid compiled in candidate key")
	}
}

// CalculateElectionSeed - derive the deterministic election inputs
// from the previous round's block hashes
//
// returns the seed as a point, as a 256 bit integer, and its
// evenness (parity of the byte sum)
func CalculateElectionSeed(lastRoundBlocks []crypto.Hash) (crypto.Point, *big.Int, bool) {
	seed := crypto.HashHashes(lastRoundBlocks)

	var point crypto.Point
	copy(point[:], seed[:])

	value := new(big.Int).SetBytes(seed[:])

	sum := 0
	for _, b := range seed {
		sum += int(b)
	}
	return point, value, 0 == sum%2
}

// RunElection - select the producers and validators for the next
// round
//
// the draw is fully determined by the previous round's block hashes
// and the stake database:
//
//  1. candidates load sorted ascending by public key; weight is the
//     candidate's total active stake, zero weight is skipped
//  2. draws walk a SHA3 chain seeded by the election seed; each draw
//     reduces its first eight bytes modulo the remaining total weight
//     and selects by cumulative weight, without replacement
//  3. twice the open slot count is drawn; evenness decides whether
//     the first half are the producers or the validators
//  4. the permanent candidates are prepended to both results
//
// the drawn sets are disjoint; |producers| and |validators| never
// exceed maximumKeys
func (engine *Engine) RunElection(lastRoundBlocks []crypto.Hash, maximumKeys int) ([]crypto.Point, []crypto.Point) {

	type weighted struct {
		key    crypto.Point
		weight uint64
	}

	var electable []weighted
	totalWeight := uint64(0)
	for _, key := range engine.GetCandidates() {
		if isPermanent(key) {
			continue
		}
		weight := engine.GetCandidateVotes(key)
		if 0 == weight {
			continue
		}
		electable = append(electable, weighted{key: key, weight: weight})
		totalWeight += weight
	}

	sort.Slice(electable, func(i, j int) bool {
		return bytes.Compare(electable[i].key[:], electable[j].key[:]) < 0
	})

	openSlots := maximumKeys - len(PermanentCandidates)
	if openSlots < 0 {
		openSlots = 0
	}

	seed := crypto.HashHashes(lastRoundBlocks)
	_, _, even := CalculateElectionSeed(lastRoundBlocks)

	drawCount := 2 * openSlots
	if drawCount > len(electable) {
		drawCount = len(electable)
	}

	drawn := make([]crypto.Point, 0, drawCount)
	draw := seed
	for i := 0; i < drawCount; i += 1 {
		draw = crypto.NewHash(draw[:])

		value := binary.BigEndian.Uint64(draw[:8]) % totalWeight

		cumulative := uint64(0)
		selected := 0
		for j, candidate := range electable {
			cumulative += candidate.weight
			if value < cumulative {
				selected = j
				break
			}
		}

		drawn = append(drawn, electable[selected].key)
		totalWeight -= electable[selected].weight
		electable = append(electable[:selected], electable[selected+1:]...)

		if 0 == totalWeight {
			break
		}
	}

	half := openSlots
	if half > len(drawn) {
		half = len(drawn)
	}

	first, second := drawn[:half], drawn[half:]
	var producers, validators []crypto.Point
	if even {
		producers = append(producers, first...)
		validators = append(validators, second...)
	} else {
		validators = append(validators, first...)
		producers = append(producers, second...)
	}

	producers = append(append([]crypto.Point{}, PermanentCandidates...), producers...)
	validators = append(append([]crypto.Point{}, PermanentCandidates...), validators...)

	if len(producers) > maximumKeys {
		producers = producers[:maximumKeys]
	}
	if len(validators) > maximumKeys {
		validators = validators[:maximumKeys]
	}
	return producers, validators
}

func isPermanent(key crypto.Point) bool {
	for _, permanent := range PermanentCandidates {
		if key == permanent {
			return true
		}
	}
	return false
}
