// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - handle a collection of worker loops
package background

import (
	"time"
)

// Process - type signature for a worker loop
//
// the loop must return promptly once the shutdown channel closes
type Process func(args interface{}, shutdown <-chan struct{})

// Processes - list of processes to start
type Processes []Process

// T - handle for a running set of workers
type T struct {
	shutdown chan struct{}
	finished []chan struct{}
}

// Start - run each process in its own goroutine sharing one shutdown
// signal
func Start(processes Processes, args interface{}) *T {

	register := &T{
		shutdown: make(chan struct{}),
		finished: make([]chan struct{}, len(processes)),
	}

	for i, p := range processes {
		finished := make(chan struct{})
		register.finished[i] = finished
		go func(p Process) {
			p(args, register.shutdown)
			close(finished)
		}(p)
	}
	return register
}

// Stop - signal shutdown and wait for every worker to finish
func (t *T) Stop() {
	if nil == t {
		return
	}

	close(t.shutdown)

	for _, finished := range t.finished {
		<-finished
	}
}

// Sleep - wait out one polling interval or a shutdown
//
// true if shutdown was signalled
func Sleep(shutdown <-chan struct{}, interval time.Duration) bool {
	select {
	case <-shutdown:
		return true
	case <-time.After(interval):
		return false
	}
}
