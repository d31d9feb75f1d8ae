// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"github.com/ivantse/turtlecoin-v2/serializer"
)

// RingSignature - a CLSAG signature over a ring of public keys
//
// one scalar per ring member plus the aggregate challenge and the
// auxiliary commitment image; verification is performed by the Engine
type RingSignature struct {
	Scalars         []Scalar
	Challenge       Scalar
	CommitmentImage KeyImage
}

// Serialize - canonical form
func (s *RingSignature) Serialize(writer *serializer.Writer) {
	writer.Varint(uint64(len(s.Scalars)))
	for _, scalar := range s.Scalars {
		writer.Key(scalar[:])
	}
	writer.Key(s.Challenge[:])
	writer.Key(s.CommitmentImage[:])
}

// DeserializeRingSignature - parse the canonical form
func DeserializeRingSignature(reader *serializer.Reader) RingSignature {
	s := RingSignature{}

	count := reader.Varint()
	if nil != reader.Error() {
		return s
	}
	if count > uint64(reader.Remaining()/KeyLength) {
		// cannot possibly hold that many scalars
		reader.Key(reader.Remaining() + 1) // force the error latch
		return s
	}

	if 0 != count {
		s.Scalars = make([]Scalar, 0, count)
	}
	for i := uint64(0); i < count; i += 1 {
		var scalar Scalar
		copy(scalar[:], reader.Key(KeyLength))
		s.Scalars = append(s.Scalars, scalar)
	}
	copy(s.Challenge[:], reader.Key(KeyLength))
	copy(s.CommitmentImage[:], reader.Key(KeyLength))
	return s
}

// CheckConstruction - structural validity for the configured ring size
func (s *RingSignature) CheckConstruction(ringSize int) bool {
	if len(s.Scalars) != ringSize {
		return false
	}
	if s.Challenge.IsEmpty() {
		return false
	}
	return true
}
