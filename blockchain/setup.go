// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain - typed storage engine for the chain
//
// wraps six named pools of one environment:
//
//	blocks               block hash → block
//	block_indexes        index (BE) → block hash
//	block_timestamps     timestamp (BE) → block hash
//	transactions         tx hash → tx ∥ containing block hash
//	key_images           key image → ∅   (double spend set)
//	transaction_outputs  output hash → unlock (varint) ∥ output
package blockchain

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/storage"
)

// process wide registry; opening the same path twice aliases
var instances struct {
	sync.Mutex
	stores map[string]*Store
}

// Store - one opened chain database
type Store struct {
	log  *logger.L
	path string
	env  *storage.Environment

	blocks             *storage.Pool
	blockIndexes       *storage.Pool
	blockTimestamps    *storage.Pool
	transactions       *storage.Pool
	keyImages          *storage.Pool
	transactionOutputs *storage.Pool

	// guards PutBlock and Rewind; readers never take it
	writeMutex sync.Mutex

	// the ring sampling entropy source; replaced in tests for
	// deterministic draws
	randomHash func() crypto.Hash
}

// Open - open or alias the chain database at the given path
func Open(path string) (*Store, error) {
	instances.Lock()
	defer instances.Unlock()

	if nil == instances.stores {
		instances.stores = make(map[string]*Store)
	}

	if store, ok := instances.stores[path]; ok {
		return store, nil
	}

	env, err := storage.Open(path)
	if nil != err {
		return nil, err
	}

	store := &Store{
		log:                logger.New("blockchain"),
		path:               path,
		env:                env,
		blocks:             env.Pool("blocks"),
		blockIndexes:       env.Pool("block_indexes"),
		blockTimestamps:    env.Pool("block_timestamps"),
		transactions:       env.Pool("transactions"),
		keyImages:          env.Pool("key_images"),
		transactionOutputs: env.Pool("transaction_outputs"),
		randomHash:         crypto.RandomHash,
	}
	instances.stores[path] = store
	return store, nil
}

// Close - close the chain database and drop the registry entry
func (store *Store) Close() {
	instances.Lock()
	delete(instances.stores, store.path)
	instances.Unlock()

	storage.Close(store.env)
}

// big endian so that the key order is the numeric order
func uint64Key(value uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, value)
	return key
}
