// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package genesis

import (
	"github.com/mr-tron/base58"

	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/util"
)

// bytes of SHA3 appended to the address body
const addressChecksumLength = 4

// DecodeAddress - unpack a wallet address to its key pair
//
// layout: varint(prefix) ∥ spend key ∥ view key ∥ checksum where the
// checksum is the first four bytes of SHA3 over everything before it
func DecodeAddress(address string) (crypto.Point, crypto.Point, error) {
	var spend, view crypto.Point

	raw, err := base58.Decode(address)
	if nil != err {
		return spend, view, fault.ErrBase58Decode
	}

	prefix, prefixLength := util.FromVarint64(raw)
	if 0 == prefixLength || PublicAddressPrefix != prefix {
		return spend, view, fault.ErrAddressPrefix
	}

	expectedLength := prefixLength + 2*crypto.KeyLength + addressChecksumLength
	if len(raw) != expectedLength {
		return spend, view, fault.ErrAddressDecode
	}

	body := raw[:len(raw)-addressChecksumLength]
	checksum := raw[len(raw)-addressChecksumLength:]

	digest := crypto.NewHash(body)
	for i := 0; i < addressChecksumLength; i += 1 {
		if digest[i] != checksum[i] {
			return spend, view, fault.ErrAddressDecode
		}
	}

	copy(spend[:], raw[prefixLength:prefixLength+crypto.KeyLength])
	copy(view[:], raw[prefixLength+crypto.KeyLength:prefixLength+2*crypto.KeyLength])
	return spend, view, nil
}

// EncodeAddress - pack a key pair into a wallet address
func EncodeAddress(spend crypto.Point, view crypto.Point) string {
	body := util.ToVarint64(PublicAddressPrefix)
	body = append(body, spend[:]...)
	body = append(body, view[:]...)

	digest := crypto.NewHash(body)
	body = append(body, digest[:addressChecksumLength]...)

	return base58.Encode(body)
}
