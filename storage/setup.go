// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/ivantse/turtlecoin-v2/fault"
)

// process wide registry so that opening the same path twice yields
// aliasing handles sharing one write serialisation
var registry struct {
	sync.Mutex
	environments map[string]*Environment
}

// Environment - one opened key value store holding any number of
// named pools
//
// a single write transaction may be active at a time; read only
// access runs concurrently and never blocks the writer
type Environment struct {
	sync.RWMutex // guards db handle and transaction state

	path  string
	db    *leveldb.DB
	batch *leveldb.Batch
	cache *cache
	inUse bool

	// only one write transaction at a time
	writeMutex sync.Mutex
}

// Open - open or alias the environment at the given path
func Open(path string) (*Environment, error) {
	registry.Lock()
	defer registry.Unlock()

	if nil == registry.environments {
		registry.environments = make(map[string]*Environment)
	}

	if env, ok := registry.environments[path]; ok {
		return env, nil
	}

	db, err := leveldb.OpenFile(path, nil)
	if nil != err {
		return nil, err
	}

	env := &Environment{
		path:  path,
		db:    db,
		batch: new(leveldb.Batch),
		cache: newCache(),
	}
	registry.environments[path] = env
	return env, nil
}

// Close - close the store and remove the registry entry
func Close(env *Environment) {
	registry.Lock()
	delete(registry.environments, env.path)
	registry.Unlock()

	env.Lock()
	if nil != env.db {
		env.db.Close()
		env.db = nil
	}
	env.Unlock()
}

// Pool - access a named database inside the environment
//
// keys are namespaced with: name ∥ 0x00, so pools never collide and
// remain stable across restarts
func (env *Environment) Pool(name string) *Pool {
	prefix := append([]byte(name), 0x00)
	limit := append([]byte(name), 0x01)
	return &Pool{
		env:    env,
		prefix: prefix,
		limit:  limit,
	}
}

// Begin - start the single write transaction
//
// blocks until any current writer commits or aborts
func (env *Environment) Begin() {
	env.writeMutex.Lock()

	env.Lock()
	env.inUse = true
	env.Unlock()
}

// Commit - atomically apply all staged writes
func (env *Environment) Commit() error {
	env.Lock()
	defer env.Unlock()

	if !env.inUse {
		return fault.ErrNotInitialised
	}

	err := env.db.Write(env.batch, nil)
	env.batch.Reset()
	env.cache.clear()
	env.inUse = false
	env.writeMutex.Unlock()
	return convertError(err)
}

// Abort - drop all staged writes
func (env *Environment) Abort() {
	env.Lock()
	defer env.Unlock()

	if !env.inUse {
		return
	}

	env.batch.Reset()
	env.cache.clear()
	env.inUse = false
	env.writeMutex.Unlock()
}

// Grow - expand the environment after a capacity error
//
// the current backing store grows on demand, so there is nothing to
// expand; a backend with a fixed map size implements the actual
// resize here. returns ErrStorageCannotGrow when no further growth
// is possible
func (env *Environment) Grow() error {
	return nil
}

// map backing store errors onto the fault classes so that callers can
// pattern match capacity conditions
func convertError(err error) error {
	switch err {
	case nil:
		return nil
	case leveldb.ErrNotFound:
		return fault.ErrKeyNotFound
	case leveldb.ErrClosed:
		return fault.ErrNotInitialised
	default:
		return err
	}
}
