// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/ivantse/turtlecoin-v2/fault"
)

// Pool - a named keyspace inside an environment
type Pool struct {
	env    *Environment
	prefix []byte
	limit  []byte
}

// prepend the pool prefix onto a key
func (p *Pool) prefixKey(key []byte) []byte {
	prefixed := make([]byte, len(p.prefix), len(p.prefix)+len(key))
	copy(prefixed, p.prefix)
	return append(prefixed, key...)
}

// Put - stage a key/value pair into the open transaction
func (p *Pool) Put(key []byte, value []byte) {
	env := p.env
	prefixed := p.prefixKey(key)

	env.RLock()
	defer env.RUnlock()

	env.cache.set(cachePut, prefixed, value)
	env.batch.Put(prefixed, value)
}

// Delete - stage a removal into the open transaction
func (p *Pool) Delete(key []byte) {
	env := p.env
	prefixed := p.prefixKey(key)

	env.RLock()
	defer env.RUnlock()

	env.cache.set(cacheDelete, prefixed, nil)
	env.batch.Delete(prefixed)
}

// Get - read a value
//
// staged writes of an open transaction are visible; a missing key
// returns ErrKeyNotFound
func (p *Pool) Get(key []byte) ([]byte, error) {
	env := p.env
	prefixed := p.prefixKey(key)

	env.RLock()
	defer env.RUnlock()

	if nil == env.db {
		return nil, fault.ErrNotInitialised
	}

	if entry, ok := env.cache.get(prefixed); ok {
		if cacheDelete == entry.op {
			return nil, fault.ErrKeyNotFound
		}
		return entry.value, nil
	}

	value, err := env.db.Get(prefixed, nil)
	if nil != err {
		return nil, convertError(err)
	}
	return value, nil
}

// Has - check if a key exists
func (p *Pool) Has(key []byte) bool {
	env := p.env
	prefixed := p.prefixKey(key)

	env.RLock()
	defer env.RUnlock()

	if nil == env.db {
		return false
	}

	if entry, ok := env.cache.get(prefixed); ok {
		return cachePut == entry.op
	}

	ok, err := env.db.Has(prefixed, nil)
	if nil != err {
		return false
	}
	return ok
}

// Count - number of committed keys in the pool
//
// the backing store keeps no per range counters, so this walks the
// keyspace; callers on hot paths cache the result
func (p *Pool) Count() int {
	env := p.env

	env.RLock()
	defer env.RUnlock()

	if nil == env.db {
		return 0
	}

	iter := env.db.NewIterator(&ldb_util.Range{
		Start: p.prefix,
		Limit: p.limit,
	}, nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n += 1
	}
	return n
}

// NewCursor - iterate the committed keys of the pool in order
func (p *Pool) NewCursor() *Cursor {
	return &Cursor{
		pool: p,
	}
}
