// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

// Engine - the curve arithmetic this node depends on but does not
// implement
//
// an implementation wraps the external primitive library; tests use
// hand written stubs
type Engine interface {

	// CheckSubgroup - true if the point is a valid member of the
	// prime order subgroup
	CheckSubgroup(point Point) bool

	// SecretKeyToPublicKey - derive the public key; false if the
	// secret key is out of range
	SecretKeyToPublicKey(secret SecretKey) (Point, bool)

	// GenerateKeyDerivation - shared secret between a public view
	// key and a transaction secret key
	GenerateKeyDerivation(publicView Point, secret SecretKey) (Point, bool)

	// DerivationToScalar - scalar for the output at the given index
	DerivationToScalar(derivation Point, index uint64) Scalar

	// DerivePublicKey - one time public ephemeral for an output
	DerivePublicKey(derivationScalar Scalar, publicSpend Point) (Point, bool)

	// GenerateCommitmentBlindingFactor - deterministic blinding
	// factor from the derivation scalar
	GenerateCommitmentBlindingFactor(derivationScalar Scalar) Scalar

	// GenerateAmountMask - deterministic amount mask from the
	// derivation scalar
	GenerateAmountMask(derivationScalar Scalar) uint64

	// ToggleMaskedAmount - mask or unmask an amount
	ToggleMaskedAmount(mask uint64, amount uint64) uint64

	// GeneratePedersenCommitment - Commit(blinding, amount)
	GeneratePedersenCommitment(blinding Scalar, amount uint64) Commitment

	// CheckCommitmentsParity - pseudo − outputs − fee·G = 0
	CheckCommitmentsParity(pseudo []Commitment, outputs []Commitment, fee uint64) bool

	// CheckRingSignature - verify one CLSAG over the ring
	CheckRingSignature(digest Hash, keyImage KeyImage, publicKeys []Point, signature *RingSignature, commitments []Commitment) bool

	// VerifyRangeProof - verify the Bulletproofs+ proof over the
	// output commitments
	VerifyRangeProof(proof *RangeProof, commitments []Commitment) bool

	// VerifySignature - verify a plain signature by the given key
	VerifySignature(digest Hash, publicKey Point, signature Signature) bool
}
