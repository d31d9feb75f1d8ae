// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"golang.org/x/crypto/sha3"
)

// NewHash - SHA3-256 over the concatenation of the arguments
func NewHash(data ...[]byte) Hash {
	h := sha3.New256()
	for _, d := range data {
		h.Write(d)
	}

	var digest Hash
	copy(digest[:], h.Sum(nil))
	return digest
}

// HashHashes - SHA3-256 over a sequence of hashes in the given order
func HashHashes(hashes []Hash) Hash {
	h := sha3.New256()
	for _, item := range hashes {
		h.Write(item[:])
	}

	var digest Hash
	copy(digest[:], h.Sum(nil))
	return digest
}
