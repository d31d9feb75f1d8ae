// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package container - thread safe containers
//
// shared readers / exclusive writer semantics throughout; the queue
// additionally supports blocking waits through a condition variable so
// worker loops can sleep until work or shutdown arrives
package container
