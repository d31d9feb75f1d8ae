// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package parameter - network wide tunables
//
// these values are part of the protocol; changing them forks the
// network
package parameter

import (
	"time"

	"github.com/ivantse/turtlecoin-v2/crypto"
)

// protocol versions
const (
	Version        uint64 = 1
	MinimumVersion uint64 = 1
)

// worker intervals
const (
	KeepaliveInterval         = 30 * time.Second
	PeerExchangeInterval      = 120 * time.Second
	ConnectionManagerInterval = 30 * time.Second

	// how long worker loops sleep between polls; bounds shutdown
	// observation latency
	ThreadPollingInterval = 10 * time.Millisecond

	// outbound connection establishment timeout
	DefaultConnectionTimeout = 2 * time.Second
)

// peer limits
const (
	// packets carrying more peers than this are protocol violations
	MaximumPeersExchanged = 250

	// peers unseen for longer than this are pruned, seconds
	PeerPruneTime uint64 = 86400
)

// default ports
const (
	DefaultBindPort   uint16 = 12897
	NodeAPIBindPort   uint16 = 12898
	WalletAPIBindPort uint16 = 18070
	NotifierBindPort  uint16 = 12899
)

// ServerSecretKey - the CURVE server key all nodes present
//
// clients derive the matching public key; see rfc.zeromq.org/spec:32
const ServerSecretKey = "!EGQIc+DG97q$Y4DOY}.[8l!%dVf*-W{S.^.Gy&z"

// NetworkID - the 32 byte tag shared by nodes that recognise each
// other's blocks
var NetworkID = crypto.Hash{
	0x20, 0x20, 0x20, 0x54, 0x68, 0x65, 0x20, 0x54,
	0x75, 0x72, 0x74, 0x6c, 0x65, 0x43, 0x6f, 0x69,
	0x6e, 0xae, 0x20, 0x44, 0x65, 0x76, 0x65, 0x6c,
	0x6f, 0x70, 0x65, 0x72, 0x73, 0x20, 0x20, 0x20,
}

// SeedNodes - bootstrap nodes tried when the peer database is empty
var SeedNodes = []string{
	"161.35.102.211:12897",
	"128.199.32.206:12897",
	"139.59.120.178:12897",
}

// DefaultConnectionCount - outgoing connections the manager maintains
var DefaultConnectionCount = len(SeedNodes) + 8
