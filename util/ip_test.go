// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/ivantse/turtlecoin-v2/util"
)

func TestCanonicalIPandPort(t *testing.T) {

	tests := []struct {
		input    string
		expected string
		v6       bool
		fails    bool
	}{
		{"127.0.0.1:1234", "127.0.0.1:1234", false, false},
		{" 127.0.0.1 : 1234 ", "127.0.0.1:1234", false, false},
		{"[::1]:1234", "[::1]:1234", true, false},
		{"[::ffff:127.0.0.1]:1234", "127.0.0.1:1234", false, false},
		{"256.1.1.1:1234", "", false, true},
		{"127.0.0.1:0", "", false, true},
		{"127.0.0.1:65536", "", false, true},
		{"127.0.0.1", "", false, true},
	}

	for i, item := range tests {
		conn, err := util.NewConnection(item.input)
		if item.fails {
			if nil == err {
				t.Errorf("%d: %q unexpectedly parsed", i, item.input)
			}
			continue
		}
		if nil != err {
			t.Fatalf("%d: %q error: %s", i, item.input, err)
		}
		actual, v6 := conn.CanonicalIPandPort("")
		if actual != item.expected || v6 != item.v6 {
			t.Errorf("%d: %q  expected: (%q, %v)  actual: (%q, %v)",
				i, item.input, item.expected, item.v6, actual, v6)
		}
	}
}

// a v4 address must pack to the 16 byte embedded form
func TestPackedIP(t *testing.T) {
	conn, err := util.NewConnection("10.20.30.40:12897")
	if nil != err {
		t.Fatalf("connection error: %s", err)
	}
	packed := conn.PackedIP()
	if 16 != len(packed) {
		t.Fatalf("packed length: %d", len(packed))
	}
	expected := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 10, 20, 30, 40}
	for i, b := range expected {
		if packed[i] != b {
			t.Fatalf("packed: %x  expected: %x", packed, expected)
		}
	}
}
