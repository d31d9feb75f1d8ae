// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"bytes"
	"testing"

	"github.com/ivantse/turtlecoin-v2/util"
)

// test Varint64 conversion
func TestToVarint64(t *testing.T) {

	tests := []struct {
		value    uint64
		expected []byte
	}{
		{0x00, []byte{0x00}},
		{0x01, []byte{0x01}},
		{0x7f, []byte{0x7f}},
		{0x80, []byte{0x80, 0x01}},
		{0xff, []byte{0xff, 0x01}},
		{0x3fff, []byte{0xff, 0x7f}},
		{0x4000, []byte{0x80, 0x80, 0x01}},
		{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}

	for i, item := range tests {
		result := util.ToVarint64(item.value)
		if !bytes.Equal(result, item.expected) {
			t.Errorf("%d: varint64: %x  expected: %x  actual: %x", i, item.value, item.expected, result)
		}
	}
}

func TestFromVarint64(t *testing.T) {

	tests := []struct {
		buffer []byte
		value  uint64
		count  int
	}{
		{[]byte{0x00}, 0x00, 1},
		{[]byte{0x7f}, 0x7f, 1},
		{[]byte{0x80, 0x01}, 0x80, 2},
		{[]byte{0xff, 0x7f}, 0x3fff, 2},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, 0xffffffffffffffff, 10},

		// truncated
		{[]byte{0x80}, 0, 0},
		{[]byte{}, 0, 0},
	}

	for i, item := range tests {
		value, count := util.FromVarint64(item.buffer)
		if value != item.value || count != item.count {
			t.Errorf("%d: from varint64: %x  expected: (%x, %d)  actual: (%x, %d)",
				i, item.buffer, item.value, item.count, value, count)
		}
	}
}

// round trip a selection of values
func TestVarint64RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 0xffff, 0x123456789abcdef0, 0xffffffffffffffff}
	for _, v := range values {
		buffer := util.ToVarint64(v)
		result, count := util.FromVarint64(buffer)
		if result != v || count != len(buffer) {
			t.Errorf("round trip: %x -> %x -> (%x, %d)", v, buffer, result, count)
		}
	}
}

func TestClippedVarint64(t *testing.T) {
	buffer := util.ToVarint64(300)

	value, count := util.ClippedVarint64(buffer, 1, 1000)
	if value != 300 || count != len(buffer) {
		t.Errorf("clipped: expected: (300, %d)  actual: (%d, %d)", len(buffer), value, count)
	}

	value, count = util.ClippedVarint64(buffer, 1, 100)
	if value != 0 || count != 0 {
		t.Errorf("clipped out of range: expected: (0, 0)  actual: (%d, %d)", value, count)
	}
}
