// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package genesis - compiled in genesis parameters
//
// every node verifies the one genesis transaction against these
// values, so they are part of the protocol
package genesis

import (
	"encoding/hex"

	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

// block creation timestamp, seconds since the UNIX epoch
const Timestamp uint64 = 1633492800

// total premine in atomic units
const Amount uint64 = 125506560

// OutputAmount - amount of each genesis output
//
// the premine is split over ring-size · 2 outputs so that full mixing
// is possible from the first spend
const OutputAmount = Amount / (transactionrecord.RingSize * 2)

// PublicAddressPrefix - leading varint of every wallet address
const PublicAddressPrefix uint64 = 0x6bb3b1d

// DestinationWallet - the address the premine pays to
//
// a variable so that test networks can point the premine elsewhere
var DestinationWallet = "TRTL268SaKHPD4cWQLh6UTjcLdkQiGu3zbZnshsfC8ikT3q2Y4jGJRoKTUQe5wBo3rNfNSSby7zQqXTWDEZczxTYXKfGcuLW6gM"

// TxPrivateKey - the revealed genesis transaction key
var TxPrivateKey = mustSecretKey("069a225e30af016280a14136ae94af095c269243e56d429496ba70c4f3d9440a")

func mustSecretKey(s string) crypto.SecretKey {
	data, err := hex.DecodeString(s)
	if nil != err || crypto.KeyLength != len(data) {
		panic("genesis: invalid compiled in secret key")
	}
	var key crypto.SecretKey
	copy(key[:], data)
	return key
}
