// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/ivantse/turtlecoin-v2/fault"
)

// Cursor - ordered traversal over the committed keys of one pool
//
// each operation opens a short lived iterator so cursors never pin a
// snapshot across writes
type Cursor struct {
	pool *Pool
}

// Element - one key/value pair with the pool prefix stripped
type Element struct {
	Key   []byte
	Value []byte
}

func (c *Cursor) capture(iter interface {
	Key() []byte
	Value() []byte
}) Element {
	// iterator slices are only valid until the next call
	rawKey := iter.Key()
	rawValue := iter.Value()

	key := make([]byte, len(rawKey)-len(c.pool.prefix))
	copy(key, rawKey[len(c.pool.prefix):])

	value := make([]byte, len(rawValue))
	copy(value, rawValue)

	return Element{
		Key:   key,
		Value: value,
	}
}

// Seek - the element with the smallest key ≥ the given key
//
// ErrKeyNotFound when no such element exists
func (c *Cursor) Seek(key []byte) (Element, error) {
	env := c.pool.env

	env.RLock()
	defer env.RUnlock()

	if nil == env.db {
		return Element{}, fault.ErrNotInitialised
	}

	iter := env.db.NewIterator(&ldb_util.Range{
		Start: c.pool.prefixKey(key),
		Limit: c.pool.limit,
	}, nil)
	defer iter.Release()

	if !iter.Next() {
		return Element{}, fault.ErrKeyNotFound
	}
	return c.capture(iter), nil
}

// First - the element with the smallest key in the pool
func (c *Cursor) First() (Element, error) {
	return c.Seek(nil)
}

// Last - the element with the largest key in the pool
func (c *Cursor) Last() (Element, error) {
	env := c.pool.env

	env.RLock()
	defer env.RUnlock()

	if nil == env.db {
		return Element{}, fault.ErrNotInitialised
	}

	iter := env.db.NewIterator(&ldb_util.Range{
		Start: c.pool.prefix,
		Limit: c.pool.limit,
	}, nil)
	defer iter.Release()

	if !iter.Last() {
		return Element{}, fault.ErrKeyNotFound
	}
	return c.capture(iter), nil
}

// Each - run a callback over every element in key order
//
// returning false from the callback stops the walk
func (c *Cursor) Each(f func(Element) bool) error {
	env := c.pool.env

	env.RLock()
	defer env.RUnlock()

	if nil == env.db {
		return fault.ErrNotInitialised
	}

	iter := env.db.NewIterator(&ldb_util.Range{
		Start: c.pool.prefix,
		Limit: c.pool.limit,
	}, nil)
	defer iter.Release()

	for iter.Next() {
		if !f(c.capture(iter)) {
			break
		}
	}
	return iter.Error()
}
