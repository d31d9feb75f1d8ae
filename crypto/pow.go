// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	argon2 "github.com/bitmark-inc/go-argon2"
)

// anti-spam hashing parameters
const (
	powIterations  = 2048
	powMemory      = 1024 // KiB
	powParallelism = 1
	powVersion     = argon2.Version13
)

// PowHash - Argon2id over a seed hash
//
// a variable so that tests can substitute an instant hasher, the way
// mining pipelines ship an internal test hasher
var PowHash = powHashArgon2id

// the seed doubles as the salt so that the work is bound entirely to
// the transaction content
func powHashArgon2id(seed Hash) Hash {

	context := &argon2.Context{
		Iterations:  powIterations,
		Memory:      powMemory,
		Parallelism: powParallelism,
		HashLen:     HashLength,
		Mode:        argon2.ModeArgon2id,
		Version:     powVersion,
	}

	hash, err := argon2.Hash(context, seed[:], seed[:])
	if nil != err {
		// parameters are compiled in, so a failure is a build defect
		panic("crypto.PowHash: " + err.Error())
	}

	var digest Hash
	copy(digest[:], hash)
	return digest
}
