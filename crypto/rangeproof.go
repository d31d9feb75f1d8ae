// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"github.com/ivantse/turtlecoin-v2/serializer"
)

// RangeProof - a Bulletproofs+ proof bounding each committed amount
// to [0, 2^64)
//
// verification is performed by the Engine; this type only carries the
// proof elements and their canonical serialization
type RangeProof struct {
	A  Point
	A1 Point
	B  Point
	R1 Scalar
	S1 Scalar
	D1 Scalar
	L  []Point
	R  []Point
}

// Serialize - canonical form
func (p *RangeProof) Serialize(writer *serializer.Writer) {
	writer.Key(p.A[:])
	writer.Key(p.A1[:])
	writer.Key(p.B[:])
	writer.Key(p.R1[:])
	writer.Key(p.S1[:])
	writer.Key(p.D1[:])

	writer.Varint(uint64(len(p.L)))
	for _, point := range p.L {
		writer.Key(point[:])
	}

	writer.Varint(uint64(len(p.R)))
	for _, point := range p.R {
		writer.Key(point[:])
	}
}

// DeserializeRangeProof - parse the canonical form
func DeserializeRangeProof(reader *serializer.Reader) RangeProof {
	p := RangeProof{}

	copy(p.A[:], reader.Key(KeyLength))
	copy(p.A1[:], reader.Key(KeyLength))
	copy(p.B[:], reader.Key(KeyLength))
	copy(p.R1[:], reader.Key(KeyLength))
	copy(p.S1[:], reader.Key(KeyLength))
	copy(p.D1[:], reader.Key(KeyLength))

	p.L = deserializePointVector(reader)
	p.R = deserializePointVector(reader)
	return p
}

func deserializePointVector(reader *serializer.Reader) []Point {
	count := reader.Varint()
	if nil != reader.Error() {
		return nil
	}
	if count > uint64(reader.Remaining()/KeyLength) {
		reader.Key(reader.Remaining() + 1) // force the error latch
		return nil
	}
	if 0 == count {
		return nil
	}
	points := make([]Point, 0, count)
	for i := uint64(0); i < count; i += 1 {
		var point Point
		copy(point[:], reader.Key(KeyLength))
		points = append(points, point)
	}
	return points
}

// Hash - SHA3 of the canonical serialization
func (p *RangeProof) Hash() Hash {
	writer := serializer.NewWriter()
	p.Serialize(writer)
	return NewHash(writer.Bytes())
}

// CheckConstruction - structural validity
//
// the inner product rounds must be present and balanced
func (p *RangeProof) CheckConstruction() bool {
	if p.A.IsEmpty() || p.A1.IsEmpty() || p.B.IsEmpty() {
		return false
	}
	if len(p.L) == 0 || len(p.L) != len(p.R) {
		return false
	}
	return true
}
