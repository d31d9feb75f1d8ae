// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

// program version
const (
	Major = "2"
	Minor = "0"
	Patch = "0"
	Build = "1"
)

// Version - the combined version string
func Version() string {
	return Major + "." + Minor + "." + Patch + "." + Build
}
