// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/ivantse/turtlecoin-v2/fault"
)

// Connection - an IP and port pair
//
// the IP is always held in its 16 byte form so that IPv4 addresses
// are the v4-in-v6 embedded representation (::ffff:a.b.c.d)
type Connection struct {
	ip   net.IP
	port uint16
}

// NewConnection - convert an "IP:port" or "[IPv6]:port" to a connection
func NewConnection(hostPort string) (*Connection, error) {
	host, port, err := net.SplitHostPort(hostPort)
	if nil != err {
		return nil, fault.ErrInvalidIPAddress
	}

	ip := net.ParseIP(strings.Trim(host, " "))
	if nil == ip {
		return nil, fault.ErrInvalidIPAddress
	}

	numericPort, err := strconv.Atoi(strings.Trim(port, " "))
	if nil != err {
		return nil, err
	}
	if numericPort < 1 || numericPort > 65535 {
		return nil, fault.ErrInvalidPortNumber
	}

	c := &Connection{
		ip:   ip.To16(),
		port: uint16(numericPort),
	}
	return c, nil
}

// NewConnectionFromIPandPort - construct from an already parsed IP
func NewConnectionFromIPandPort(ip net.IP, port uint16) *Connection {
	return &Connection{
		ip:   ip.To16(),
		port: port,
	}
}

// CanonicalIPandPort - get string form with the given prefix, e.g "tcp://"
//
// second return is true if the address is IPv6
//
// examples:
//
//	IPv4:  127.0.0.1:1234
//	IPv6:  [::1]:1234
func (conn *Connection) CanonicalIPandPort(prefix string) (string, bool) {
	port := strconv.Itoa(int(conn.port))
	if nil != conn.ip.To4() {
		return prefix + conn.ip.String() + ":" + port, false
	}
	return prefix + "[" + conn.ip.String() + "]:" + port, true
}

// IP - the 16 byte address
func (conn *Connection) IP() net.IP {
	return conn.ip
}

// Port - the port number
func (conn *Connection) Port() uint16 {
	return conn.port
}

// PackedIP - the raw 16 byte v4-in-v6 representation for the wire
func (conn *Connection) PackedIP() []byte {
	buffer := make([]byte, net.IPv6len)
	copy(buffer, conn.ip.To16())
	return buffer
}

func (conn Connection) String() string {
	s, _ := conn.CanonicalIPandPort("")
	return s
}

// CanonicalIPandPort - make a bare "IP:port" string canonical
func CanonicalIPandPort(hostPort string) (string, error) {
	conn, err := NewConnection(hostPort)
	if nil != err {
		return "", err
	}
	s, _ := conn.CanonicalIPandPort("")
	return s, nil
}

// EmbeddedV4 - normalize any textual IP to its 16 byte form
//
// IPv4 addresses become the v4-in-v6 embedded representation
func EmbeddedV4(host string) (net.IP, error) {
	ip := net.ParseIP(strings.Trim(host, " "))
	if nil == ip {
		return nil, fault.ErrInvalidIPAddress
	}
	return ip.To16(), nil
}
