// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package p2p - the peer to peer overlay node
//
// one router socket accepts inbound peers; one dealer socket is held
// per outbound peer. four workers drive the node: the poller drains
// every socket queue, the connection manager tops up outbound
// connections, and the keepalive and peer exchange timers broadcast
// their packets
package p2p

import (
	"net"
	"strconv"
	"time"

	"github.com/bitmark-inc/logger"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ivantse/turtlecoin-v2/announce"
	"github.com/ivantse/turtlecoin-v2/background"
	"github.com/ivantse/turtlecoin-v2/container"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/packet"
	"github.com/ivantse/turtlecoin-v2/parameter"
	"github.com/ivantse/turtlecoin-v2/zmqutil"
)

// Message - a data payload handed to the application layer
type Message struct {
	From     crypto.Hash
	Packet   *packet.Data
	IsServer bool
}

// Node - one overlay node
type Node struct {
	log       *logger.L
	seedMode  bool
	networkID crypto.Hash

	peerDB  *announce.PeerDB
	server  *zmqutil.Server
	clients *container.Map[crypto.Hash, *zmqutil.Client]

	// identities that completed the server side handshake; entries
	// expire so a dead peer may eventually handshake again
	completedHandshakes *gocache.Cache

	messages *container.Queue[Message]

	processes *background.T
	running   bool
}

// NewNode - create a node over the peer database at the given path
func NewNode(path string, bindPort uint16, seedMode bool, networkID crypto.Hash) (*Node, error) {
	peerDB, err := announce.Open(path)
	if nil != err {
		return nil, err
	}
	peerDB.Prune()

	server, err := zmqutil.NewServer(bindPort)
	if nil != err {
		peerDB.Close()
		return nil, err
	}

	node := &Node{
		log:                 logger.New("p2p"),
		seedMode:            seedMode,
		networkID:           networkID,
		peerDB:              peerDB,
		server:              server,
		clients:             container.NewMap[crypto.Hash, *zmqutil.Client](),
		completedHandshakes: gocache.New(2*time.Duration(parameter.PeerPruneTime)*time.Second, 10*time.Minute),
		messages:            container.NewQueue[Message](),
	}
	return node, nil
}

// PeerID - the node's persistent identity
func (node *Node) PeerID() crypto.Hash {
	return node.peerDB.PeerID()
}

// Peers - the backing peer database
func (node *Node) Peers() *announce.PeerDB {
	return node.peerDB
}

// Port - the server bind port
func (node *Node) Port() uint16 {
	return node.server.Port()
}

// Running - true between Start and Stop
func (node *Node) Running() bool {
	return node.running
}

// Messages - data packets awaiting the application layer
func (node *Node) Messages() *container.Queue[Message] {
	return node.messages
}

// IncomingConnections - count of registered inbound peers
func (node *Node) IncomingConnections() int {
	return node.server.Connections()
}

// IncomingConnected - addresses of the inbound peers
func (node *Node) IncomingConnected() []string {
	return node.server.Connected()
}

// OutgoingConnections - count of outbound connections
func (node *Node) OutgoingConnections() int {
	return node.clients.Size()
}

// OutgoingConnected - addresses of the outbound connections
func (node *Node) OutgoingConnected() []string {
	var results []string
	node.clients.Each(func(_ crypto.Hash, client *zmqutil.Client) {
		if client.IsConnected() {
			results = append(results, client.Address())
		}
	})
	return results
}

// Start - bind the server, bootstrap from the seed nodes and start
// the worker loops
//
// fails when no seed node answers and the peer database is empty,
// unless running in seed mode
func (node *Node) Start(extraSeedNodes []string) error {
	if node.running {
		return nil
	}

	err := node.server.Bind()
	if nil != err {
		return err
	}

	node.running = true

	connectedToSeed := false
	for _, seedNode := range parameter.SeedNodes {
		if nil == node.connectTo(seedNode) {
			connectedToSeed = true
		}
	}
	for _, seedNode := range extraSeedNodes {
		if nil == node.connectTo(seedNode) {
			connectedToSeed = true
		}
	}

	if !node.seedMode && !connectedToSeed && 0 == node.peerDB.Count() {
		node.Stop()
		return fault.ErrSeedConnect
	}

	node.processes = background.Start(background.Processes{
		node.poller,
		node.connectionManager,
		node.keepalive,
		node.peerExchange,
	}, nil)

	return nil
}

// Stop - stop every worker, close every socket
func (node *Node) Stop() {
	if !node.running {
		return
	}
	node.log.Debug("shutting down")

	node.running = false
	node.processes.Stop()
	node.processes = nil

	node.clients.Each(func(id crypto.Hash, client *zmqutil.Client) {
		client.Close()
		node.clients.Erase(id)
	})

	node.server.Stop()
	node.log.Debug("shutdown complete")
}

// connect to "host[:port]"; a missing port uses the default
func (node *Node) connectTo(hostPort string) error {
	host, portText, err := net.SplitHostPort(hostPort)
	if nil != err {
		host = hostPort
		portText = ""
	}

	port := parameter.DefaultBindPort
	if "" != portText {
		numericPort, err := strconv.Atoi(portText)
		if nil != err || numericPort < 1 || numericPort > 65535 {
			return fault.ErrInvalidPortNumber
		}
		port = uint16(numericPort)
	}
	return node.Connect(host, port)
}

// Connect - open a dealer connection and send our handshake
func (node *Node) Connect(host string, port uint16) error {
	hash := crypto.NewHash([]byte(host), []byte{byte(port >> 8), byte(port)})
	if node.clients.Contains(hash) {
		return fault.ErrDuplicateConnect
	}

	node.log.Debugf("attempting connection to %s:%d", host, port)

	client, err := zmqutil.NewClient()
	if nil != err {
		return err
	}

	err = client.Connect(host, port)
	if nil != err {
		client.Close()
		return err
	}

	client.Send(packet.NewEnvelope(crypto.Hash{}, node.buildHandshake()))

	node.clients.Insert(hash, client)
	return nil
}

func (node *Node) buildHandshake() *packet.Handshake {
	handshake := packet.NewHandshake(node.peerDB.PeerID(), node.server.Port(), node.networkID)
	handshake.Peers = node.buildPeerList()
	return handshake
}

func (node *Node) buildPeerList() []announce.Peer {
	return node.peerDB.Peers(parameter.MaximumPeersExchanged, nil)
}

// reply via the server socket
func (node *Node) reply(envelope packet.Envelope) {
	node.server.Send(envelope)
}

// Broadcast - send a packet over every outbound connection
func (node *Node) Broadcast(p packet.Packet) {
	envelope := packet.NewEnvelope(crypto.Hash{}, p)
	node.clients.Each(func(_ crypto.Hash, client *zmqutil.Client) {
		client.Send(envelope)
	})
}

// SendData - broadcast a data payload to the network
func (node *Node) SendData(payload []byte) {
	node.Broadcast(packet.NewData(node.networkID, payload))
}
