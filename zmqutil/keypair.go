// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	zmq "github.com/pebbe/zmq4"

	"github.com/ivantse/turtlecoin-v2/fault"
)

// CurveKeypair - a fresh client keypair in Z85 text form
func CurveKeypair() (string, string, error) {
	publicKey, secretKey, err := zmq.NewCurveKeypair()
	if nil != err {
		return "", "", err
	}
	return publicKey, secretKey, nil
}

// ServerPublicKey - derive the public key matching a configured
// server secret key
//
// clients need this to complete the CURVE handshake
func ServerPublicKey(secretKey string) (string, error) {
	publicKey, err := zmq.AuthCurvePublic(secretKey)
	if nil != err {
		return "", fault.ErrConnect
	}
	return publicKey, nil
}
