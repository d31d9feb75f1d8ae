// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"github.com/ivantse/turtlecoin-v2/background"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/packet"
	"github.com/ivantse/turtlecoin-v2/parameter"
	"github.com/ivantse/turtlecoin-v2/zmqutil"
)

// drain every socket queue into the packet handlers
func (node *Node) poller(args interface{}, shutdown <-chan struct{}) {
	node.log.Info("poller: starting…")

loop:
	for {
		for {
			envelope, ok := node.server.Messages().Pop()
			if !ok {
				break
			}
			node.handleIncomingMessage(envelope, true)
		}

		node.clients.Each(func(_ crypto.Hash, client *zmqutil.Client) {
			for {
				envelope, ok := client.Messages().Pop()
				if !ok {
					break
				}
				node.handleIncomingMessage(envelope, false)
			}
		})

		if background.Sleep(shutdown, parameter.ThreadPollingInterval) {
			break loop
		}
	}
	node.log.Info("poller: stopped")
}

// prune dead clients and top the outbound count back up from the
// peer database
func (node *Node) connectionManager(args interface{}, shutdown <-chan struct{}) {
	node.log.Info("connection manager: starting…")

loop:
	for {
		node.clients.Each(func(id crypto.Hash, client *zmqutil.Client) {
			if !client.IsConnected() {
				node.log.Tracef("client %s no longer connected, destroying", id)
				client.Close()
				node.clients.Erase(id)
			}
		})

		missing := parameter.DefaultConnectionCount - node.clients.Size()
		if missing > 0 {
			networkFilter := &node.networkID
			if node.seedMode {
				// a seed node stretches across every network
				networkFilter = nil
			}

			for _, peer := range node.peerDB.Peers(missing, networkFilter) {
				if peer.PeerID == node.peerDB.PeerID() {
					continue
				}

				err := node.Connect(peer.Address.String(), peer.Port)
				if nil != err && fault.ErrDuplicateConnect != err {
					node.log.Debugf("error connecting to peer: %s", err)
				}
			}
		}

		if background.Sleep(shutdown, parameter.ConnectionManagerInterval) {
			break loop
		}
	}
	node.log.Info("connection manager: stopped")
}

// broadcast a keepalive on every connection; the server copy pokes
// the inbound clients
func (node *Node) keepalive(args interface{}, shutdown <-chan struct{}) {
	node.log.Info("keepalive: starting…")

loop:
	for {
		if background.Sleep(shutdown, parameter.KeepaliveInterval) {
			break loop
		}

		p := packet.NewKeepalive(node.peerDB.PeerID())
		node.Broadcast(p)
		node.reply(packet.NewEnvelope(crypto.Hash{}, p))
	}
	node.log.Info("keepalive: stopped")
}

// broadcast our known peers
func (node *Node) peerExchange(args interface{}, shutdown <-chan struct{}) {
	node.log.Info("peer exchange: starting…")

loop:
	for {
		if background.Sleep(shutdown, parameter.PeerExchangeInterval) {
			break loop
		}

		p := packet.NewPeerExchange(node.peerDB.PeerID(), node.server.Port(), node.networkID)
		p.Peers = node.buildPeerList()
		node.Broadcast(p)
	}
	node.log.Info("peer exchange: stopped")
}
