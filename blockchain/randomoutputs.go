// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"sort"

	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

// GetRandomOutputs - sample distinct spendable outputs for ring
// construction
//
// each draw picks a random 32 byte key and takes the first stored
// output at or after it; output hashes are SHA3 and hence close to
// uniform, so the gap-weighted selection is acceptably unbiased.
// results are sorted by output hash
func (store *Store) GetRandomOutputs(currentBlock uint64, count int) ([]transactionrecord.TransactionOutput, error) {

	if store.transactionOutputs.Count() < count {
		return nil, fault.ErrOutputNotFound
	}

	cursor := store.transactionOutputs.NewCursor()

	results := make([]transactionrecord.TransactionOutput, 0, count)
	seen := make(map[crypto.Hash]struct{})

	for len(results) < count {
		randomHash := store.randomHash()

		element, err := cursor.Seek(randomHash[:])
		if fault.ErrKeyNotFound == err {
			// ran off the end of the keyspace, draw again
			continue
		}
		if nil != err {
			return nil, err
		}

		output, unlockBlock, err := unpackOutput(element.Value)
		if nil != err {
			// corrupted value: skip, do not abort the request
			continue
		}

		// not spendable yet
		if unlockBlock > currentBlock {
			continue
		}

		outputHash := output.Hash()

		// value hash must match its key
		key, ok := crypto.HashFromBytes(element.Key)
		if !ok || key != outputHash {
			continue
		}

		if _, duplicate := seen[outputHash]; duplicate {
			continue
		}
		seen[outputHash] = struct{}{}
		results = append(results, output)
	}

	sort.Slice(results, func(i, j int) bool {
		a := results[i].Hash()
		b := results[j].Hash()
		return a.Cmp(b) < 0
	})

	return results, nil
}
