// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"math"

	"github.com/ivantse/turtlecoin-v2/crypto"
)

// search the nonce space until the proof of work hash carries enough
// leading zeros, bounded by the nonce wrapping at the 64 bit limit
func mine(body *UserBody, powHash func() crypto.Hash, zeros int) bool {
	hash := powHash()
	if hash.LeadingZeros() >= zeros {
		return true
	}

	body.Nonce = 0
	for hash.LeadingZeros() < zeros && body.Nonce != math.MaxUint64 {
		body.Nonce += 1
		hash = powHash()
	}
	return hash.LeadingZeros() >= zeros
}
