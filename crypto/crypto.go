// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package crypto - fixed length cryptographic value types
//
// the heavy primitives (curve arithmetic, CLSAG, Bulletproofs+) are
// provided by an external Engine implementation; this package holds
// the canonical value types, SHA3 hashing and the Argon2id proof of
// work used by every other package
package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
)

// byte sizes of the fixed length values
const (
	HashLength      = 32
	KeyLength       = 32
	SignatureLength = 64
)

// Hash - SHA3-256 digest, ordered lexicographically
type Hash [HashLength]byte

// Scalar - curve scalar
type Scalar [KeyLength]byte

// SecretKey - curve secret key
type SecretKey [KeyLength]byte

// Point - compressed curve point, also used for public keys
type Point [KeyLength]byte

// KeyImage - linkable point derived from a spent output's key
type KeyImage [KeyLength]byte

// Commitment - Pedersen commitment
type Commitment [KeyLength]byte

// Signature - plain Ed25519 style signature
type Signature [SignatureLength]byte

// IsEmpty - true if the value has never been set
func (h Hash) IsEmpty() bool      { return h == Hash{} }
func (s Scalar) IsEmpty() bool    { return s == Scalar{} }
func (k SecretKey) IsEmpty() bool { return k == SecretKey{} }
func (p Point) IsEmpty() bool     { return p == Point{} }
func (k KeyImage) IsEmpty() bool  { return k == KeyImage{} }
func (c Commitment) IsEmpty() bool {
	return c == Commitment{}
}
func (s Signature) IsEmpty() bool { return s == Signature{} }

// IsIdentity - true if the point is the group identity
//
// the identity encodes as y = 1 in compressed form
func (p Point) IsIdentity() bool {
	if 0x01 != p[0] {
		return false
	}
	for _, b := range p[1:] {
		if 0 != b {
			return false
		}
	}
	return true
}

// Cmp - lexicographic ordering
func (h Hash) Cmp(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// LeadingZeros - count of zero bits from the most significant bit
func (h Hash) LeadingZeros() int {
	zeros := 0
	for _, b := range h {
		if 0 == b {
			zeros += 8
			continue
		}
		for mask := byte(0x80); mask != 0; mask >>= 1 {
			if 0 != b&mask {
				return zeros
			}
			zeros += 1
		}
	}
	return zeros
}

func (h Hash) String() string       { return hex.EncodeToString(h[:]) }
func (p Point) String() string      { return hex.EncodeToString(p[:]) }
func (k KeyImage) String() string   { return hex.EncodeToString(k[:]) }
func (c Commitment) String() string { return hex.EncodeToString(c[:]) }

// HashFromBytes - convert and validate a byte slice to a hash
func HashFromBytes(buffer []byte) (Hash, bool) {
	var h Hash
	if HashLength != len(buffer) {
		return h, false
	}
	copy(h[:], buffer)
	return h, true
}

// PointFromBytes - convert and validate a byte slice to a point
func PointFromBytes(buffer []byte) (Point, bool) {
	var p Point
	if KeyLength != len(buffer) {
		return p, false
	}
	copy(p[:], buffer)
	return p, true
}

// RandomHash - 32 bytes from the system entropy source
func RandomHash() Hash {
	var h Hash
	_, err := rand.Read(h[:])
	if nil != err {
		// out of entropy is unrecoverable
		panic("crypto.RandomHash: " + err.Error())
	}
	return h
}
