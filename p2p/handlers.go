// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"net"

	"github.com/ivantse/turtlecoin-v2/announce"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/packet"
	"github.com/ivantse/turtlecoin-v2/parameter"
	"github.com/ivantse/turtlecoin-v2/serializer"
)

// parse one envelope and dispatch on the packet type
//
// malformed payloads are logged and dropped; they never unwind the
// worker
func (node *Node) handleIncomingMessage(envelope packet.Envelope, isServer bool) {
	p, err := packet.Deserialize(serializer.NewReader(envelope.Payload))
	if nil != err {
		node.log.Tracef("cannot handle message from %s: %s", envelope.PeerAddress, err)
		return
	}

	switch p := p.(type) {
	case *packet.Handshake:
		node.handleHandshake(envelope, p, isServer)
	case *packet.Keepalive:
		node.handleKeepalive(envelope, p, isServer)
	case *packet.PeerExchange:
		node.handlePeerExchange(envelope, p, isServer)
	case *packet.Data:
		node.handleData(envelope, p, isServer)
	}
}

func (node *Node) handleHandshake(envelope packet.Envelope, p *packet.Handshake, isServer bool) {

	// a second handshake on an established connection is a
	// protocol violation
	if isServer {
		if _, done := node.completedHandshakes.Get(envelope.From.String()); done {
			node.log.Tracef("double handshake, protocol violation: %s", envelope.From)
			node.server.Unregister(envelope.From)
			node.completedHandshakes.Delete(envelope.From.String())
			return
		}
	}

	// we do not talk to ourselves
	if envelope.From == node.server.Identity() || p.PeerID == node.peerDB.PeerID() {
		return
	}

	if p.Version < parameter.MinimumVersion {
		node.log.Tracef("peer runs version %d below minimum: %s", p.Version, envelope.From)
		return
	}

	if len(p.Peers) > parameter.MaximumPeersExchanged {
		node.log.Tracef("handshake with %d peers exceeds the maximum: %s", len(p.Peers), envelope.From)
		return
	}

	node.addSourcePeer(envelope, p.PeerID, p.PeerPort, p.NetworkID)
	node.addExchangedPeers(p.PeerID, p.Peers)

	if isServer {
		reply := packet.NewEnvelope(envelope.From, node.buildHandshake())
		node.reply(reply)
		node.completedHandshakes.SetDefault(envelope.From.String(), struct{}{})
	}
}

func (node *Node) handleKeepalive(envelope packet.Envelope, p *packet.Keepalive, isServer bool) {
	if !isServer {
		_ = node.peerDB.Touch(p.PeerID)
		return
	}

	if _, done := node.completedHandshakes.Get(envelope.From.String()); !done {
		node.log.Tracef("keepalive before handshake, protocol violation: %s", envelope.From)
		node.server.Unregister(envelope.From)
		return
	}

	if envelope.From == node.server.Identity() || p.PeerID == node.peerDB.PeerID() {
		return
	}

	if p.Version < parameter.MinimumVersion {
		node.log.Tracef("peer runs version %d below minimum: %s", p.Version, envelope.From)
		return
	}

	node.reply(packet.NewEnvelope(envelope.From, packet.NewKeepalive(node.peerDB.PeerID())))
	_ = node.peerDB.Touch(p.PeerID)
}

func (node *Node) handlePeerExchange(envelope packet.Envelope, p *packet.PeerExchange, isServer bool) {
	if isServer {
		if _, done := node.completedHandshakes.Get(envelope.From.String()); !done {
			node.log.Tracef("peer exchange before handshake, protocol violation: %s", envelope.From)
			node.server.Unregister(envelope.From)
			return
		}
	}

	if envelope.From == node.server.Identity() || p.PeerID == node.peerDB.PeerID() {
		return
	}

	if p.Version < parameter.MinimumVersion {
		node.log.Tracef("peer runs version %d below minimum: %s", p.Version, envelope.From)
		return
	}

	if len(p.Peers) > parameter.MaximumPeersExchanged {
		node.log.Tracef("peer exchange with %d peers exceeds the maximum: %s", len(p.Peers), envelope.From)
		return
	}

	node.addSourcePeer(envelope, p.PeerID, p.PeerPort, p.NetworkID)
	node.addExchangedPeers(p.PeerID, p.Peers)

	if isServer {
		reply := packet.NewPeerExchange(node.peerDB.PeerID(), node.server.Port(), node.networkID)
		reply.Peers = node.buildPeerList()
		node.reply(packet.NewEnvelope(envelope.From, reply))
	}
}

func (node *Node) handleData(envelope packet.Envelope, p *packet.Data, isServer bool) {

	// seed nodes exist only to spread peers
	if node.seedMode {
		return
	}

	// not our network
	if p.NetworkID != node.networkID {
		return
	}

	if isServer {
		if _, done := node.completedHandshakes.Get(envelope.From.String()); !done {
			node.log.Tracef("data before handshake, protocol violation: %s", envelope.From)
			node.server.Unregister(envelope.From)
			return
		}
	}

	if envelope.From == node.server.Identity() {
		return
	}

	if p.Version < parameter.MinimumVersion {
		node.log.Tracef("peer runs version %d below minimum: %s", p.Version, envelope.From)
		return
	}

	node.messages.Push(Message{
		From:     envelope.From,
		Packet:   p,
		IsServer: isServer,
	})
}

// record the packet source as a live peer
func (node *Node) addSourcePeer(envelope packet.Envelope, peerID crypto.Hash, peerPort uint16, networkID crypto.Hash) {
	address := net.ParseIP(envelope.PeerAddress)
	if nil == address {
		return
	}
	peer := announce.NewPeer(address, peerID, peerPort, networkID)
	_ = node.peerDB.Add(peer)
}

// merge the peers a packet carried, never trusting an entry for the
// sender itself
func (node *Node) addExchangedPeers(source crypto.Hash, peers []announce.Peer) {
	for _, peer := range peers {
		if peer.PeerID == source {
			continue
		}
		_ = node.peerDB.Add(peer)
	}
}
