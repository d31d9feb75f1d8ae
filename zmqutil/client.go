// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"fmt"
	"strings"
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

// Client - one outbound dealer connection
type Client struct {
	log      *logger.L
	identity crypto.Hash

	socketMutex sync.Mutex
	socket      *zmq.Socket
	monitor     *zmq.Socket

	incoming *container.Queue[packet.Envelope]
	outgoing *container.Queue[packet.Envelope]

	address   string
	connected bool
	stateLock sync.RWMutex

	processes *background.T
	running   bool
}

// NewClient - allocate a dealer socket keyed for the configured
// server
func NewClient() (*Client, error) {
	err := StartAuthentication()
	if nil != err {
		return nil, err
	}

	socket, err := zmq.NewSocket(zmq.DEALER)
	if nil != err {
		return nil, err
	}

	client := &Client{
		log:      logger.New("zmq-client"),
		identity: crypto.RandomHash(),
		socket:   socket,
		incoming: container.NewQueue[packet.Envelope](),
		outgoing: container.NewQueue[packet.Envelope](),
	}

	serverKey, err := ServerPublicKey(parameter.ServerSecretKey)
	if nil != err {
		socket.Close()
		return nil, err
	}
	publicKey, secretKey, err := CurveKeypair()
	if nil != err {
		socket.Close()
		return nil, err
	}

	socket.SetCurveServerkey(serverKey)
	socket.SetCurvePublickey(publicKey)
	socket.SetCurveSecretkey(secretKey)

	socket.SetIdentity(string(client.identity[:]))
	socket.SetImmediate(false)
	socket.SetIpv6(true)
	socket.SetLinger(0)
	socket.SetProbeRouter(1)

	return client, nil
}

// Identity - the socket routing identity
func (client *Client) Identity() crypto.Hash {
	return client.identity
}

// Address - the connected endpoint, empty when never connected
func (client *Client) Address() string {
	client.stateLock.RLock()
	defer client.stateLock.RUnlock()
	return client.address
}

// IsConnected - true after a successful connect that has not since
// failed a send
func (client *Client) IsConnected() bool {
	client.stateLock.RLock()
	defer client.stateLock.RUnlock()
	return client.connected
}

// Connect - establish the connection, bounded by the connection
// timeout, and start the socket workers
func (client *Client) Connect(host string, port uint16) error {
	address := fmt.Sprintf("tcp://%s:%d", host, port)
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		address = fmt.Sprintf("tcp://[%s]:%d", host, port)
	}

	client.log.Debugf("connecting to %s", address)

	client.socketMutex.Lock()
	defer client.socketMutex.Unlock()

	if nil == client.socket {
		return fault.ErrNotConnected
	}

	monitorName := fmt.Sprintf("inproc://client-monitor-%s", client.identity)
	monitor, err := NewMonitor(client.socket, monitorName, zmq.EVENT_CONNECTED)
	if nil != err {
		return fault.ErrConnect
	}
	client.monitor = monitor
	monitor.SetRcvtimeo(parameter.DefaultConnectionTimeout)

	err = client.socket.Connect(address)
	if nil != err {
		client.log.Debugf("connect error: %s", err)
		return fault.ErrConnect
	}

	// wait for the transport level connect event
	_, err = monitor.RecvMessageBytes(0)
	if nil != err {
		client.log.Debugf("connect timeout for %s", address)
		return fault.ErrConnectTimeout
	}

	client.stateLock.Lock()
	client.address = address
	client.connected = true
	client.stateLock.Unlock()

	if !client.running {
		client.running = true
		client.processes = background.Start(background.Processes{
			client.incomingLoop,
			client.outgoingLoop,
		}, nil)
	}

	client.log.Debugf("connected to %s", address)
	return nil
}

// Messages - the queue of received envelopes
func (client *Client) Messages() *container.Queue[packet.Envelope] {
	return client.incoming
}

// Send - queue an envelope for delivery
func (client *Client) Send(envelope packet.Envelope) {
	if 0 == len(envelope.Payload) {
		return
	}
	client.outgoing.Push(envelope)
}

// Close - stop the workers and close the socket
func (client *Client) Close() {
	client.log.Debug("shutting down")

	client.processes.Stop()

	client.socketMutex.Lock()
	if nil != client.monitor {
		client.monitor.Close()
		client.monitor = nil
	}
	if nil != client.socket {
		client.socket.Close()
		client.socket = nil
	}
	client.socketMutex.Unlock()

	client.stateLock.Lock()
	client.connected = false
	client.stateLock.Unlock()

	client.log.Debug("shutdown complete")
}

// drain the socket onto the incoming queue
func (client *Client) incomingLoop(args interface{}, shutdown <-chan struct{}) {
loop:
	for {
		for client.receiveOne() {
		}
		if background.Sleep(shutdown, parameter.ThreadPollingInterval) {
			break loop
		}
	}
}

// one non-blocking receive; dealer frames are [payload]
func (client *Client) receiveOne() bool {
	client.socketMutex.Lock()
	defer client.socketMutex.Unlock()

	if nil == client.socket {
		return false
	}

	payload, metadata, err := client.socket.RecvBytesWithMetadata(zmq.DONTWAIT, "Identity", "Peer-Address")
	if nil != err || 0 == len(payload) {
		return false
	}

	envelope := packet.Envelope{
		To:      client.identity,
		Payload: payload,
	}

	if identity, ok := metadata["Identity"]; ok {
		if from, ok := crypto.HashFromBytes([]byte(identity)); ok {
			envelope.From = from
		}
	}
	if address, ok := metadata["Peer-Address"]; ok {
		if ip, err := util.EmbeddedV4(address); nil == err {
			envelope.PeerAddress = ip.String()
		}
	}

	client.incoming.Push(envelope)
	return true
}

// drain the outgoing queue onto the socket
func (client *Client) outgoingLoop(args interface{}, shutdown <-chan struct{}) {
loop:
	for {
		for {
			envelope, ok := client.outgoing.Pop()
			if !ok {
				break
			}
			client.transmit(envelope)
		}
		if background.Sleep(shutdown, parameter.ThreadPollingInterval) {
			break loop
		}
	}
}

func (client *Client) transmit(envelope packet.Envelope) {
	client.socketMutex.Lock()
	defer client.socketMutex.Unlock()

	if nil == client.socket {
		return
	}

	_, err := client.socket.SendBytes(envelope.Payload, zmq.DONTWAIT)
	if nil != err {
		client.log.Tracef("send failed: %s", err)

		client.stateLock.Lock()
		client.connected = false
		client.stateLock.Unlock()
	}
}
