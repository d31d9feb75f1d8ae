// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zmqutil - authenticated encrypted sockets for the overlay
//
// one router socket serves all inbound peers; one dealer socket per
// outbound peer. every socket speaks CURVE: the server presents the
// configured secret key, clients derive the matching public key and
// use a fresh ephemeral keypair per connection
package zmqutil

import (
	"fmt"
	"sync"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/ivantse/turtlecoin-v2/background"
	"github.com/ivantse/turtlecoin-v2/container"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/packet"
	"github.com/ivantse/turtlecoin-v2/parameter"
	"github.com/ivantse/turtlecoin-v2/util"
)

// Server - the router side of the overlay
type Server struct {
	log      *logger.L
	bindPort uint16
	identity crypto.Hash

	// no two threads touch the socket at once
	socketMutex sync.Mutex
	socket      *zmq.Socket

	connections *container.Map[crypto.Hash, string]
	incoming    *container.Queue[packet.Envelope]
	outgoing    *container.Queue[packet.Envelope]

	processes *background.T
	running   bool
}

// NewServer - allocate the router socket
func NewServer(bindPort uint16) (*Server, error) {
	err := StartAuthentication()
	if nil != err {
		return nil, err
	}

	socket, err := zmq.NewSocket(zmq.ROUTER)
	if nil != err {
		return nil, err
	}

	server := &Server{
		log:         logger.New("zmq-server"),
		bindPort:    bindPort,
		identity:    crypto.RandomHash(),
		socket:      socket,
		connections: container.NewMap[crypto.Hash, string](),
		incoming:    container.NewQueue[packet.Envelope](),
		outgoing:    container.NewQueue[packet.Envelope](),
	}

	socket.SetCurveServer(1)
	socket.SetCurveSecretkey(parameter.ServerSecretKey)
	socket.SetIdentity(string(server.identity[:]))
	socket.SetImmediate(true)
	socket.SetRouterMandatory(1)
	socket.SetIpv6(true)
	socket.SetLinger(0)

	return server, nil
}

// Identity - the socket routing identity
func (server *Server) Identity() crypto.Hash {
	return server.identity
}

// Port - the configured bind port
func (server *Server) Port() uint16 {
	return server.bindPort
}

// Bind - bind the router and start the socket workers
func (server *Server) Bind() error {
	server.log.Debugf("binding on *:%d", server.bindPort)

	server.socketMutex.Lock()
	err := server.socket.Bind(fmt.Sprintf("tcp://*:%d", server.bindPort))
	server.socketMutex.Unlock()
	if nil != err {
		server.log.Errorf("bind error: %s", err)
		return fault.ErrBind
	}

	if !server.running {
		server.running = true
		server.processes = background.Start(background.Processes{
			server.incomingLoop,
			server.outgoingLoop,
		}, nil)
	}

	server.log.Infof("bound on *:%d", server.bindPort)
	return nil
}

// Messages - the queue of received envelopes
func (server *Server) Messages() *container.Queue[packet.Envelope] {
	return server.incoming
}

// Send - queue an envelope for delivery
//
// an envelope without a destination broadcasts to every registered
// connection
func (server *Server) Send(envelope packet.Envelope) {
	if 0 == len(envelope.Payload) || !server.running {
		return
	}
	server.outgoing.Push(envelope)
}

// Connections - number of registered inbound peers
func (server *Server) Connections() int {
	return server.connections.Size()
}

// Connected - addresses of the registered inbound peers
func (server *Server) Connected() []string {
	var results []string
	server.connections.Each(func(_ crypto.Hash, address string) {
		results = append(results, address)
	})
	return results
}

// Unregister - drop a peer identity from the connection registry
func (server *Server) Unregister(from crypto.Hash) {
	server.connections.Erase(from)
}

// Stop - stop the workers and close the socket
func (server *Server) Stop() {
	server.log.Debug("shutting down")

	server.running = false
	server.processes.Stop()

	server.socketMutex.Lock()
	server.socket.Close()
	server.socket = nil
	server.socketMutex.Unlock()

	server.log.Debug("shutdown complete")
}

// drain the socket onto the incoming queue
func (server *Server) incomingLoop(args interface{}, shutdown <-chan struct{}) {
loop:
	for {
		for server.receiveOne() {
		}
		if background.Sleep(shutdown, parameter.ThreadPollingInterval) {
			break loop
		}
	}
}

// one non-blocking receive; frames are [identity, payload]
func (server *Server) receiveOne() bool {
	server.socketMutex.Lock()
	defer server.socketMutex.Unlock()

	if nil == server.socket {
		return false
	}

	identityFrame, metadata, err := server.socket.RecvBytesWithMetadata(zmq.DONTWAIT, "Peer-Address")
	if nil != err {
		return false
	}

	from, ok := crypto.HashFromBytes(identityFrame)
	if !ok {
		return false
	}

	more, err := server.socket.GetRcvmore()
	if nil != err || !more {
		return false
	}

	payload, err := server.socket.RecvBytes(0)
	if nil != err || 0 == len(payload) {
		return false
	}

	envelope := packet.Envelope{
		From:    from,
		To:      server.identity,
		Payload: payload,
	}

	if address, ok := metadata["Peer-Address"]; ok {
		if ip, err := util.EmbeddedV4(address); nil == err {
			envelope.PeerAddress = ip.String()
		}
	}

	if !server.connections.Contains(from) {
		server.log.Tracef("registering connection for: %s", from)
		server.connections.Insert(from, envelope.PeerAddress)
	}

	server.incoming.Push(envelope)
	return true
}

// drain the outgoing queue onto the socket
func (server *Server) outgoingLoop(args interface{}, shutdown <-chan struct{}) {
loop:
	for {
		for {
			envelope, ok := server.outgoing.Pop()
			if !ok {
				break
			}
			server.transmit(envelope)
		}
		if background.Sleep(shutdown, parameter.ThreadPollingInterval) {
			break loop
		}
	}
}

func (server *Server) transmit(envelope packet.Envelope) {
	if envelope.To.IsEmpty() {
		// broadcast
		server.connections.Each(func(to crypto.Hash, _ string) {
			directed := envelope
			directed.To = to
			server.transmitTo(directed)
		})
		return
	}
	server.transmitTo(envelope)
}

// a send failure unregisters the peer identity
func (server *Server) transmitTo(envelope packet.Envelope) {
	server.socketMutex.Lock()
	defer server.socketMutex.Unlock()

	if nil == server.socket {
		return
	}

	_, err := server.socket.SendBytes(envelope.To[:], zmq.SNDMORE)
	if nil == err {
		_, err = server.socket.SendBytes(envelope.Payload, zmq.DONTWAIT)
	}
	if nil != err {
		server.log.Tracef("send to %s failed: %s", envelope.To, err)
		server.connections.Erase(envelope.To)
	}
}
