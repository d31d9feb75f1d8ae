// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package packet - the typed envelope format of the overlay
//
// every payload starts with a varint type tag followed by a varint
// protocol version; unknown tags are protocol violations
package packet

import (
	"github.com/ivantse/turtlecoin-v2/announce"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/parameter"
	"github.com/ivantse/turtlecoin-v2/serializer"
)

// TagType - type code for network packets
type TagType uint64

// enumerate the packet types
const (
	HandshakeTag    TagType = 1000
	KeepaliveTag    TagType = 1100
	PeerExchangeTag TagType = 1200
	DataTag         TagType = 2000
)

// Packet - any overlay packet
type Packet interface {
	Tag() TagType
	Serialize(writer *serializer.Writer)
}

// Pack - canonical payload bytes of a packet
func Pack(p Packet) []byte {
	writer := serializer.NewWriter()
	p.Serialize(writer)
	return writer.Bytes()
}

// Deserialize - parse a payload, dispatching on the leading type tag
func Deserialize(reader *serializer.Reader) (Packet, error) {
	switch tag := TagType(reader.PeekVarint()); tag {
	case HandshakeTag:
		return deserializeHandshake(reader)
	case KeepaliveTag:
		return deserializeKeepalive(reader)
	case PeerExchangeTag:
		return deserializePeerExchange(reader)
	case DataTag:
		return deserializeData(reader)
	default:
		if nil != reader.Error() {
			return nil, reader.Error()
		}
		return nil, fault.ErrInvalidPacket
	}
}

// Envelope - one routable message
//
// from/to are socket identities; the subject survives request and
// reply correlation; the peer address is transport metadata filled in
// by the receiving socket
type Envelope struct {
	From        crypto.Hash
	To          crypto.Hash
	Subject     crypto.Hash
	PeerAddress string
	Payload     []byte
}

// NewEnvelope - wrap a packet for a specific destination
//
// an empty destination broadcasts
func NewEnvelope(to crypto.Hash, p Packet) Envelope {
	return Envelope{
		To:      to,
		Payload: Pack(p),
	}
}

// peer list shared by handshake and peer exchange
type peerList struct {
	PeerID    crypto.Hash
	PeerPort  uint16
	NetworkID crypto.Hash
	Peers     []announce.Peer
}

func (l *peerList) serializeList(writer *serializer.Writer) {
	writer.Key(l.PeerID[:])
	writer.Varint(uint64(l.PeerPort))
	writer.Key(l.NetworkID[:])

	writer.Varint(uint64(len(l.Peers)))
	for i := range l.Peers {
		l.Peers[i].Serialize(writer)
	}
}

func (l *peerList) deserializeList(reader *serializer.Reader) {
	copy(l.PeerID[:], reader.Key(crypto.HashLength))
	l.PeerPort = uint16(reader.Varint())
	copy(l.NetworkID[:], reader.Key(crypto.HashLength))

	count := reader.Varint()
	if nil != reader.Error() || count > uint64(reader.Remaining()) {
		return
	}
	if 0 != count {
		l.Peers = make([]announce.Peer, 0, count)
	}
	for i := uint64(0); i < count; i += 1 {
		l.Peers = append(l.Peers, announce.DeserializePeer(reader))
	}
}

// Handshake - connection opener carrying an initial peer sample
type Handshake struct {
	Version uint64
	peerList
}

// NewHandshake - handshake for this node
func NewHandshake(peerID crypto.Hash, peerPort uint16, networkID crypto.Hash) *Handshake {
	return &Handshake{
		Version: parameter.Version,
		peerList: peerList{
			PeerID:    peerID,
			PeerPort:  peerPort,
			NetworkID: networkID,
		},
	}
}

// Tag - the packet type code
func (p *Handshake) Tag() TagType { return HandshakeTag }

// Serialize - canonical form
func (p *Handshake) Serialize(writer *serializer.Writer) {
	writer.Varint(uint64(HandshakeTag))
	writer.Varint(p.Version)
	p.serializeList(writer)
}

func deserializeHandshake(reader *serializer.Reader) (*Handshake, error) {
	p := &Handshake{}
	reader.Varint() // tag, already checked
	p.Version = reader.Varint()
	p.deserializeList(reader)
	if err := reader.Error(); nil != err {
		return nil, err
	}
	return p, nil
}

// Keepalive - liveness probe
type Keepalive struct {
	Version uint64
	PeerID  crypto.Hash
}

// NewKeepalive - keepalive for this node
func NewKeepalive(peerID crypto.Hash) *Keepalive {
	return &Keepalive{
		Version: parameter.Version,
		PeerID:  peerID,
	}
}

// Tag - the packet type code
func (p *Keepalive) Tag() TagType { return KeepaliveTag }

// Serialize - canonical form
func (p *Keepalive) Serialize(writer *serializer.Writer) {
	writer.Varint(uint64(KeepaliveTag))
	writer.Varint(p.Version)
	writer.Key(p.PeerID[:])
}

func deserializeKeepalive(reader *serializer.Reader) (*Keepalive, error) {
	p := &Keepalive{}
	reader.Varint()
	p.Version = reader.Varint()
	copy(p.PeerID[:], reader.Key(crypto.HashLength))
	if err := reader.Error(); nil != err {
		return nil, err
	}
	return p, nil
}

// PeerExchange - periodic swap of known peers
type PeerExchange struct {
	Version uint64
	peerList
}

// NewPeerExchange - peer exchange for this node
func NewPeerExchange(peerID crypto.Hash, peerPort uint16, networkID crypto.Hash) *PeerExchange {
	return &PeerExchange{
		Version: parameter.Version,
		peerList: peerList{
			PeerID:    peerID,
			PeerPort:  peerPort,
			NetworkID: networkID,
		},
	}
}

// Tag - the packet type code
func (p *PeerExchange) Tag() TagType { return PeerExchangeTag }

// Serialize - canonical form
func (p *PeerExchange) Serialize(writer *serializer.Writer) {
	writer.Varint(uint64(PeerExchangeTag))
	writer.Varint(p.Version)
	p.serializeList(writer)
}

func deserializePeerExchange(reader *serializer.Reader) (*PeerExchange, error) {
	p := &PeerExchange{}
	reader.Varint()
	p.Version = reader.Varint()
	p.deserializeList(reader)
	if err := reader.Error(); nil != err {
		return nil, err
	}
	return p, nil
}

// Data - opaque domain payload (blocks, transactions, queries)
type Data struct {
	Version   uint64
	NetworkID crypto.Hash
	Payload   []byte
}

// NewData - data packet for this network
func NewData(networkID crypto.Hash, payload []byte) *Data {
	return &Data{
		Version:   parameter.Version,
		NetworkID: networkID,
		Payload:   payload,
	}
}

// Tag - the packet type code
func (p *Data) Tag() TagType { return DataTag }

// Serialize - canonical form
func (p *Data) Serialize(writer *serializer.Writer) {
	writer.Varint(uint64(DataTag))
	writer.Varint(p.Version)
	writer.Key(p.NetworkID[:])
	writer.Block(p.Payload)
}

func deserializeData(reader *serializer.Reader) (*Data, error) {
	p := &Data{}
	reader.Varint()
	p.Version = reader.Varint()
	copy(p.NetworkID[:], reader.Key(crypto.HashLength))
	p.Payload = reader.Block()
	if err := reader.Error(); nil != err {
		return nil, err
	}
	return p, nil
}
