// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/serializer"
)

// every variant shares the same header → prefix → body → data →
// suffix framing; the mixins below carry one section each and the
// concrete types compose them

// Header - type tag and record version
type Header struct {
	Version uint64
}

func (h *Header) serializeHeader(writer *serializer.Writer, tag TagType) {
	writer.Varint(uint64(tag))
	writer.Varint(h.Version)
}

// consumes the tag, returns it for the caller to verify
func (h *Header) deserializeHeader(reader *serializer.Reader) TagType {
	tag := TagType(reader.Varint())
	h.Version = reader.Varint()
	return tag
}

// Prefix - header plus unlock height and transaction public key
type Prefix struct {
	Header
	UnlockBlock uint64
	PublicKey   crypto.Point
}

func (p *Prefix) serializePrefix(writer *serializer.Writer, tag TagType) {
	p.serializeHeader(writer, tag)
	writer.Varint(p.UnlockBlock)
	writer.Key(p.PublicKey[:])
}

func (p *Prefix) deserializePrefix(reader *serializer.Reader) TagType {
	tag := p.deserializeHeader(reader)
	p.UnlockBlock = reader.Varint()
	copy(p.PublicKey[:], reader.Key(crypto.KeyLength))
	return tag
}

// UserBody - the spend section common to all user transactions
type UserBody struct {
	Nonce     uint64
	Fee       uint64
	KeyImages []crypto.KeyImage
	Outputs   []TransactionOutput
}

func (b *UserBody) serializeBody(writer *serializer.Writer) {
	writer.Varint(b.Nonce)
	writer.Varint(b.Fee)

	writer.Varint(uint64(len(b.KeyImages)))
	for _, keyImage := range b.KeyImages {
		writer.Key(keyImage[:])
	}

	writer.Varint(uint64(len(b.Outputs)))
	for i := range b.Outputs {
		b.Outputs[i].Serialize(writer)
	}
}

func (b *UserBody) deserializeBody(reader *serializer.Reader) {
	b.Nonce = reader.Varint()
	b.Fee = reader.Varint()

	count := reader.Varint()
	if nil != reader.Error() || count > uint64(reader.Remaining()/crypto.KeyLength) {
		return
	}
	if 0 != count {
		b.KeyImages = make([]crypto.KeyImage, 0, count)
	}
	for i := uint64(0); i < count; i += 1 {
		var keyImage crypto.KeyImage
		copy(keyImage[:], reader.Key(crypto.KeyLength))
		b.KeyImages = append(b.KeyImages, keyImage)
	}

	count = reader.Varint()
	if nil != reader.Error() || count > uint64(reader.Remaining()) {
		return
	}
	if 0 != count {
		b.Outputs = make([]TransactionOutput, 0, count)
	}
	for i := uint64(0); i < count; i += 1 {
		b.Outputs = append(b.Outputs, DeserializeTransactionOutput(reader))
	}
}

// NormalData - variant data of a normal transaction
type NormalData struct {
	Extra []byte
}

func (d *NormalData) serializeData(writer *serializer.Writer) {
	writer.Block(d.Extra)
}

func (d *NormalData) deserializeData(reader *serializer.Reader) {
	d.Extra = reader.Block()
}

// StakeData - variant data of a stake transaction
type StakeData struct {
	StakeAmount          uint64
	CandidatePublicKey   crypto.Point
	StakerPublicViewKey  crypto.Point
	StakerPublicSpendKey crypto.Point
}

func (d *StakeData) serializeData(writer *serializer.Writer) {
	writer.Varint(d.StakeAmount)
	writer.Key(d.CandidatePublicKey[:])
	writer.Key(d.StakerPublicViewKey[:])
	writer.Key(d.StakerPublicSpendKey[:])
}

func (d *StakeData) deserializeData(reader *serializer.Reader) {
	d.StakeAmount = reader.Varint()
	copy(d.CandidatePublicKey[:], reader.Key(crypto.KeyLength))
	copy(d.StakerPublicViewKey[:], reader.Key(crypto.KeyLength))
	copy(d.StakerPublicSpendKey[:], reader.Key(crypto.KeyLength))
}

// StakerID - SHA3 of view key ∥ spend key
func (d *StakeData) StakerID() crypto.Hash {
	return crypto.NewHash(d.StakerPublicViewKey[:], d.StakerPublicSpendKey[:])
}

// RecallStakeData - variant data of a recall stake transaction
type RecallStakeData struct {
	StakeAmount        uint64
	CandidatePublicKey crypto.Point
	StakerID           crypto.Hash
	ViewSignature      crypto.Signature
	SpendSignature     crypto.Signature
}

func (d *RecallStakeData) serializeData(writer *serializer.Writer) {
	writer.Varint(d.StakeAmount)
	writer.Key(d.CandidatePublicKey[:])
	writer.Key(d.StakerID[:])
	writer.Key(d.ViewSignature[:])
	writer.Key(d.SpendSignature[:])
}

func (d *RecallStakeData) deserializeData(reader *serializer.Reader) {
	d.StakeAmount = reader.Varint()
	copy(d.CandidatePublicKey[:], reader.Key(crypto.KeyLength))
	copy(d.StakerID[:], reader.Key(crypto.HashLength))
	copy(d.ViewSignature[:], reader.Key(crypto.SignatureLength))
	copy(d.SpendSignature[:], reader.Key(crypto.SignatureLength))
}

// UncommittedSuffix - plaintext signatures and range proof
type UncommittedSuffix struct {
	PseudoCommitments []crypto.Commitment
	RingParticipants  []crypto.Hash
	Signatures        []crypto.RingSignature
	RangeProof        crypto.RangeProof
}

// the signature section without the range proof; hashed to bind both
// transaction forms to one identity
func (s *UncommittedSuffix) serializeSignatures(writer *serializer.Writer) {
	writer.Varint(uint64(len(s.PseudoCommitments)))
	for _, commitment := range s.PseudoCommitments {
		writer.Key(commitment[:])
	}

	writer.Varint(uint64(len(s.RingParticipants)))
	for _, participant := range s.RingParticipants {
		writer.Key(participant[:])
	}

	writer.Varint(uint64(len(s.Signatures)))
	for i := range s.Signatures {
		s.Signatures[i].Serialize(writer)
	}
}

func (s *UncommittedSuffix) serializeSuffix(writer *serializer.Writer) {
	s.serializeSignatures(writer)
	s.RangeProof.Serialize(writer)
}

func (s *UncommittedSuffix) deserializeSuffix(reader *serializer.Reader) {
	count := reader.Varint()
	if nil != reader.Error() || count > uint64(reader.Remaining()/crypto.KeyLength) {
		return
	}
	if 0 != count {
		s.PseudoCommitments = make([]crypto.Commitment, 0, count)
	}
	for i := uint64(0); i < count; i += 1 {
		var commitment crypto.Commitment
		copy(commitment[:], reader.Key(crypto.KeyLength))
		s.PseudoCommitments = append(s.PseudoCommitments, commitment)
	}

	count = reader.Varint()
	if nil != reader.Error() || count > uint64(reader.Remaining()/crypto.HashLength) {
		return
	}
	if 0 != count {
		s.RingParticipants = make([]crypto.Hash, 0, count)
	}
	for i := uint64(0); i < count; i += 1 {
		var participant crypto.Hash
		copy(participant[:], reader.Key(crypto.HashLength))
		s.RingParticipants = append(s.RingParticipants, participant)
	}

	count = reader.Varint()
	if nil != reader.Error() || count > uint64(reader.Remaining()) {
		return
	}
	if 0 != count {
		s.Signatures = make([]crypto.RingSignature, 0, count)
	}
	for i := uint64(0); i < count; i += 1 {
		s.Signatures = append(s.Signatures, crypto.DeserializeRingSignature(reader))
	}

	s.RangeProof = crypto.DeserializeRangeProof(reader)
}

// SignatureHash - SHA3 over the signature section
func (s *UncommittedSuffix) SignatureHash() crypto.Hash {
	writer := serializer.NewWriter()
	s.serializeSignatures(writer)
	return crypto.NewHash(writer.Bytes())
}

// RangeProofHash - SHA3 over the canonical range proof
func (s *UncommittedSuffix) RangeProofHash() crypto.Hash {
	return s.RangeProof.Hash()
}

// CommittedSuffix - only the hashes of the pruned proof material
type CommittedSuffix struct {
	SignatureHash  crypto.Hash
	RangeProofHash crypto.Hash
}

func (s *CommittedSuffix) serializeSuffix(writer *serializer.Writer) {
	writer.Key(s.SignatureHash[:])
	writer.Key(s.RangeProofHash[:])
}

func (s *CommittedSuffix) deserializeSuffix(reader *serializer.Reader) {
	copy(s.SignatureHash[:], reader.Key(crypto.HashLength))
	copy(s.RangeProofHash[:], reader.Key(crypto.HashLength))
}

// shared identity of the two forms of one transaction:
//
//	tx_hash = SHA3( digest ∥ signature_hash ∥ range_proof_hash )
func transactionHash(digest crypto.Hash, signatureHash crypto.Hash, rangeProofHash crypto.Hash) crypto.Hash {
	return crypto.NewHash(digest[:], signatureHash[:], rangeProofHash[:])
}

// anti-spam seed over the digest serialization and range proof hash:
//
//	pow_seed = SHA3( digest_bytes ∥ range_proof_hash )
func powHash(digestBytes []byte, rangeProofHash crypto.Hash) crypto.Hash {
	seed := crypto.NewHash(digestBytes, rangeProofHash[:])
	return crypto.PowHash(seed)
}
