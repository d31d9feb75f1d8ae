// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

import (
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/serializer"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

// Candidate - a node proposed for block production
type Candidate struct {
	RecordVersion      uint64
	CandidatePublicKey crypto.Point
	StakerViewKey      crypto.Point
	StakerSpendKey     crypto.Point
	StakedAmount       uint64
}

// Serialize - canonical form
func (c *Candidate) Serialize(writer *serializer.Writer) {
	writer.Varint(c.RecordVersion)
	writer.Key(c.CandidatePublicKey[:])
	writer.Key(c.StakerViewKey[:])
	writer.Key(c.StakerSpendKey[:])
	writer.Varint(c.StakedAmount)
}

// Pack - canonical bytes
func (c *Candidate) Pack() []byte {
	writer := serializer.NewWriter()
	c.Serialize(writer)
	return writer.Bytes()
}

// DeserializeCandidate - parse the canonical form
func DeserializeCandidate(reader *serializer.Reader) (Candidate, error) {
	c := Candidate{}
	c.RecordVersion = reader.Varint()
	copy(c.CandidatePublicKey[:], reader.Key(crypto.KeyLength))
	copy(c.StakerViewKey[:], reader.Key(crypto.KeyLength))
	copy(c.StakerSpendKey[:], reader.Key(crypto.KeyLength))
	c.StakedAmount = reader.Varint()
	return c, reader.Error()
}

// StakerID - SHA3 of view key ∥ spend key
func (c *Candidate) StakerID() crypto.Hash {
	return crypto.NewHash(c.StakerViewKey[:], c.StakerSpendKey[:])
}

// Stake - one vote of stake placed on a candidate
type Stake struct {
	RecordVersion      uint64
	CandidatePublicKey crypto.Point
	PublicViewKey      crypto.Point
	PublicSpendKey     crypto.Point
	Amount             uint64
}

// Serialize - canonical form
func (s *Stake) Serialize(writer *serializer.Writer) {
	writer.Varint(s.RecordVersion)
	writer.Key(s.CandidatePublicKey[:])
	writer.Key(s.PublicViewKey[:])
	writer.Key(s.PublicSpendKey[:])
	writer.Varint(s.Amount)
}

// Pack - canonical bytes
func (s *Stake) Pack() []byte {
	writer := serializer.NewWriter()
	s.Serialize(writer)
	return writer.Bytes()
}

// DeserializeStake - parse the canonical form
func DeserializeStake(reader *serializer.Reader) (Stake, error) {
	s := Stake{}
	s.RecordVersion = reader.Varint()
	copy(s.CandidatePublicKey[:], reader.Key(crypto.KeyLength))
	copy(s.PublicViewKey[:], reader.Key(crypto.KeyLength))
	copy(s.PublicSpendKey[:], reader.Key(crypto.KeyLength))
	s.Amount = reader.Varint()
	return s, reader.Error()
}

// Hash - SHA3 of the canonical form; orders duplicate stake records
func (s *Stake) Hash() crypto.Hash {
	return crypto.NewHash(s.Pack())
}

// StakerID - SHA3 of view key ∥ spend key
func (s *Stake) StakerID() crypto.Hash {
	return crypto.NewHash(s.PublicViewKey[:], s.PublicSpendKey[:])
}

// NewStake - a stake record at the current schema version
func NewStake(candidate crypto.Point, view crypto.Point, spend crypto.Point, amount uint64) Stake {
	return Stake{
		RecordVersion:      transactionrecord.StakeRecordVersion,
		CandidatePublicKey: candidate,
		PublicViewKey:      view,
		PublicSpendKey:     spend,
		Amount:             amount,
	}
}
