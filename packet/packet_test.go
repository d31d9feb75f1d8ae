// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivantse/turtlecoin-v2/announce"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/packet"
	"github.com/ivantse/turtlecoin-v2/parameter"
	"github.com/ivantse/turtlecoin-v2/serializer"
)

func TestHandshakeRoundTrip(t *testing.T) {
	p := packet.NewHandshake(crypto.Hash{0x01}, 12897, parameter.NetworkID)
	p.Peers = []announce.Peer{
		announce.NewPeer(net.ParseIP("10.1.2.3"), crypto.Hash{0x02}, 12897, parameter.NetworkID),
		announce.NewPeer(net.ParseIP("::1"), crypto.Hash{0x03}, 12898, parameter.NetworkID),
	}

	payload := packet.Pack(p)

	restored, err := packet.Deserialize(serializer.NewReader(payload))
	require.NoError(t, err)

	handshake, ok := restored.(*packet.Handshake)
	require.True(t, ok, "wrong type: %T", restored)
	assert.Equal(t, p, handshake)
	assert.Equal(t, packet.HandshakeTag, handshake.Tag())
	assert.Equal(t, parameter.Version, handshake.Version)
}

func TestKeepaliveRoundTrip(t *testing.T) {
	p := packet.NewKeepalive(crypto.Hash{0x42})

	restored, err := packet.Deserialize(serializer.NewReader(packet.Pack(p)))
	require.NoError(t, err)
	assert.Equal(t, p, restored)
}

func TestPeerExchangeRoundTrip(t *testing.T) {
	p := packet.NewPeerExchange(crypto.Hash{0x05}, 12897, parameter.NetworkID)
	p.Peers = []announce.Peer{
		announce.NewPeer(net.ParseIP("192.168.1.1"), crypto.Hash{0x06}, 12897, parameter.NetworkID),
	}

	restored, err := packet.Deserialize(serializer.NewReader(packet.Pack(p)))
	require.NoError(t, err)
	assert.Equal(t, p, restored)
}

func TestDataRoundTrip(t *testing.T) {
	p := packet.NewData(parameter.NetworkID, []byte("a block payload"))

	restored, err := packet.Deserialize(serializer.NewReader(packet.Pack(p)))
	require.NoError(t, err)

	data, ok := restored.(*packet.Data)
	require.True(t, ok)
	assert.Equal(t, p, data)
	assert.Equal(t, []byte("a block payload"), data.Payload)
}

func TestUnknownTagRejected(t *testing.T) {
	w := serializer.NewWriter()
	w.Varint(1500)
	w.Varint(1)

	_, err := packet.Deserialize(serializer.NewReader(w.Bytes()))
	assert.Error(t, err)
}

func TestTruncatedPacketRejected(t *testing.T) {
	p := packet.NewHandshake(crypto.Hash{0x01}, 12897, parameter.NetworkID)
	payload := packet.Pack(p)

	_, err := packet.Deserialize(serializer.NewReader(payload[:len(payload)-10]))
	assert.Error(t, err)
}

// the wire layout is tag, version, then the body
func TestWireLayout(t *testing.T) {
	p := packet.NewKeepalive(crypto.Hash{0x11})
	payload := packet.Pack(p)

	r := serializer.NewReader(payload)
	assert.Equal(t, uint64(1100), r.Varint())
	assert.Equal(t, parameter.Version, r.Varint())
	assert.Equal(t, 32, r.Remaining())
}
