// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package announce - the persistent peer database
//
// stores every peer the node has learned about, prunes them by last
// seen age, and hands out random samples for connection management
// and peer exchange
package announce

import (
	"encoding/hex"
	"math/rand"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/parameter"
	"github.com/ivantse/turtlecoin-v2/serializer"
	"github.com/ivantse/turtlecoin-v2/storage"
)

// the fixed key the node's own peer id is stored under
var peerIDIdentifier = mustHash("5440dd9b6683e3b2b0805eec3514ff3e23b7edea1bf29b434cd7a8447687650d")

func mustHash(s string) crypto.Hash {
	data, err := hex.DecodeString(s)
	if nil != err {
		panic("announce: invalid compiled in identifier")
	}
	hash, ok := crypto.HashFromBytes(data)
	if !ok {
		panic("announce: invalid compiled in identifier")
	}
	return hash
}

// replaceable clock so tests can age peers
var nowSeconds = func() uint64 {
	return uint64(time.Now().Unix())
}

var instances struct {
	sync.Mutex
	databases map[string]*PeerDB
}

// PeerDB - one opened peer database
type PeerDB struct {
	log    *logger.L
	path   string
	env    *storage.Environment
	peers  *storage.Pool
	peerID crypto.Hash

	writeMutex sync.Mutex
}

// Open - open or alias the peer database at the given path
//
// the node's peer id is generated on first run and kept in an
// auxiliary pool
func Open(path string) (*PeerDB, error) {
	instances.Lock()
	defer instances.Unlock()

	if nil == instances.databases {
		instances.databases = make(map[string]*PeerDB)
	}

	if db, ok := instances.databases[path]; ok {
		return db, nil
	}

	env, err := storage.Open(path)
	if nil != err {
		return nil, err
	}

	db := &PeerDB{
		log:   logger.New("peerdb"),
		path:  path,
		env:   env,
		peers: env.Pool("peerlist"),
	}

	local := env.Pool("local")
	value, err := local.Get(peerIDIdentifier[:])
	if nil == err {
		if peerID, ok := crypto.HashFromBytes(value); ok {
			db.peerID = peerID
		}
	}
	if db.peerID.IsEmpty() {
		db.peerID = crypto.RandomHash()
		db.log.Debugf("generated new peer id: %s", db.peerID)

		env.Begin()
		local.Put(peerIDIdentifier[:], db.peerID[:])
		err = env.Commit()
		if nil != err {
			storage.Close(env)
			return nil, err
		}
	}

	instances.databases[path] = db
	return db, nil
}

// Close - close the database and drop the registry entry
func (db *PeerDB) Close() {
	instances.Lock()
	delete(instances.databases, db.path)
	instances.Unlock()

	storage.Close(db.env)
}

// PeerID - the node's own identity
func (db *PeerDB) PeerID() crypto.Hash {
	return db.peerID
}

// Add - store or refresh a peer entry
//
// self entries and entries already older than the prune window are
// rejected
func (db *PeerDB) Add(peer Peer) error {
	if peer.PeerID == db.peerID {
		return fault.ErrPeerAddFailure
	}

	if peer.LastSeen+parameter.PeerPruneTime < nowSeconds() {
		return fault.ErrPeerAddFailure
	}

	db.writeMutex.Lock()
	defer db.writeMutex.Unlock()

	db.log.Tracef("adding peer entry: %s", peer.PeerID)

	db.env.Begin()
	db.peers.Put(peer.PeerID[:], peer.Pack())
	return db.env.Commit()
}

// Del - remove a peer entry
func (db *PeerDB) Del(peerID crypto.Hash) error {
	db.writeMutex.Lock()
	defer db.writeMutex.Unlock()

	db.env.Begin()
	db.peers.Delete(peerID[:])
	return db.env.Commit()
}

// Exists - check for a peer
func (db *PeerDB) Exists(peerID crypto.Hash) bool {
	return db.peers.Has(peerID[:])
}

// Get - fetch one peer entry
func (db *PeerDB) Get(peerID crypto.Hash) (Peer, error) {
	value, err := db.peers.Get(peerID[:])
	if nil != err {
		return Peer{}, fault.ErrKeyNotFound
	}

	reader := serializer.NewReader(value)
	peer := DeserializePeer(reader)
	if nil != reader.Error() {
		return Peer{}, fault.ErrCorruptedStorage
	}
	return peer, nil
}

// Count - number of stored peers
func (db *PeerDB) Count() int {
	return db.peers.Count()
}

// PeerIDs - ids of every stored peer
func (db *PeerDB) PeerIDs() []crypto.Hash {
	var ids []crypto.Hash
	_ = db.peers.NewCursor().Each(func(e storage.Element) bool {
		if id, ok := crypto.HashFromBytes(e.Key); ok {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// Peers - a shuffled sample of stored peers
//
// count zero returns the whole set; a non empty network id filters to
// peers of that network
func (db *PeerDB) Peers(count int, networkID *crypto.Hash) []Peer {
	var peers []Peer
	_ = db.peers.NewCursor().Each(func(e storage.Element) bool {
		reader := serializer.NewReader(e.Value)
		peer := DeserializePeer(reader)
		if nil != reader.Error() {
			return true
		}
		if nil != networkID && peer.NetworkID != *networkID {
			return true
		}
		peers = append(peers, peer)
		return true
	})

	rand.Shuffle(len(peers), func(i, j int) {
		peers[i], peers[j] = peers[j], peers[i]
	})

	if count > 0 && len(peers) > count {
		peers = peers[:count]
	}
	return peers
}

// Touch - refresh a peer's last seen time to now
//
// never decreases last seen
func (db *PeerDB) Touch(peerID crypto.Hash) error {
	peer, err := db.Get(peerID)
	if nil != err {
		return err
	}

	now := nowSeconds()
	if now > peer.LastSeen {
		peer.LastSeen = now
	}
	return db.Add(peer)
}

// Prune - delete peers unseen for longer than the prune window
func (db *PeerDB) Prune() {
	cutoff := nowSeconds() - parameter.PeerPruneTime

	for _, peer := range db.Peers(0, nil) {
		if peer.LastSeen < cutoff {
			err := db.Del(peer.PeerID)
			if nil != err {
				db.log.Debugf("error deleting peer %s: %s", peer.PeerID, err)
			}
		}
	}
}
