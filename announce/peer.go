// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package announce

import (
	"net"

	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/serializer"
)

// Peer - one known node on the overlay
//
// the address is always the 16 byte form, so IPv4 peers carry the
// v4-in-v6 embedded representation
type Peer struct {
	Address   net.IP
	PeerID    crypto.Hash
	Port      uint16
	NetworkID crypto.Hash
	LastSeen  uint64
}

// NewPeer - build a peer entry seen now
func NewPeer(address net.IP, peerID crypto.Hash, port uint16, networkID crypto.Hash) Peer {
	return Peer{
		Address:   address.To16(),
		PeerID:    peerID,
		Port:      port,
		NetworkID: networkID,
		LastSeen:  nowSeconds(),
	}
}

// Serialize - canonical form
func (p *Peer) Serialize(writer *serializer.Writer) {
	address := p.Address.To16()
	if nil == address {
		address = make(net.IP, net.IPv6len)
	}
	writer.Key(address)
	writer.Key(p.PeerID[:])
	writer.Varint(uint64(p.Port))
	writer.Key(p.NetworkID[:])
	writer.Varint(p.LastSeen)
}

// Pack - canonical bytes
func (p *Peer) Pack() []byte {
	writer := serializer.NewWriter()
	p.Serialize(writer)
	return writer.Bytes()
}

// DeserializePeer - parse the canonical form
func DeserializePeer(reader *serializer.Reader) Peer {
	p := Peer{}
	p.Address = net.IP(reader.Key(net.IPv6len))
	copy(p.PeerID[:], reader.Key(crypto.HashLength))
	p.Port = uint16(reader.Varint())
	copy(p.NetworkID[:], reader.Key(crypto.HashLength))
	p.LastSeen = reader.Varint()
	return p
}
