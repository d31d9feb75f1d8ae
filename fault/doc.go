// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// a flat set of error values grouped into classes so that callers can
// pattern match on either the specific error or its class
package fault
