// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package serializer - canonical byte stream framing
//
// every persisted or wired value is produced by this writer and
// consumed by this reader:
//
//	integers:     unsigned LEB128 varints
//	fixed keys:   raw bytes of their fixed length
//	byte blocks:  varint(length) then bytes
//	vectors:      varint(count) then elements
//	booleans:     single byte 0x00 / 0x01
package serializer

import (
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/util"
)

// Writer - append only canonical serializer
type Writer struct {
	buffer []byte
}

// NewWriter - create an empty writer
func NewWriter() *Writer {
	return &Writer{
		buffer: make([]byte, 0, 256),
	}
}

// Varint - append an unsigned varint
func (w *Writer) Varint(value uint64) {
	w.buffer = append(w.buffer, util.ToVarint64(value)...)
}

// Key - append fixed length raw bytes
func (w *Writer) Key(data []byte) {
	w.buffer = append(w.buffer, data...)
}

// Block - append a length prefixed byte block
func (w *Writer) Block(data []byte) {
	w.Varint(uint64(len(data)))
	w.buffer = append(w.buffer, data...)
}

// Bool - append a boolean as a single byte
func (w *Writer) Bool(value bool) {
	b := byte(0x00)
	if value {
		b = 0x01
	}
	w.buffer = append(w.buffer, b)
}

// Bytes - the accumulated canonical form
func (w *Writer) Bytes() []byte {
	return w.buffer
}

// Len - number of bytes accumulated so far
func (w *Writer) Len() int {
	return len(w.buffer)
}

// Reader - canonical deserializer
//
// the first framing failure latches an error and all subsequent reads
// return zero values, so record constructors can run a straight line of
// reads and check Error once at the end
type Reader struct {
	buffer []byte
	offset int
	err    error
}

// NewReader - wrap a byte slice for reading
func NewReader(data []byte) *Reader {
	return &Reader{
		buffer: data,
	}
}

func (r *Reader) fail() {
	if nil == r.err {
		r.err = fault.ErrInvalidPacket
	}
}

// Varint - consume an unsigned varint
func (r *Reader) Varint() uint64 {
	if nil != r.err {
		return 0
	}
	value, count := util.FromVarint64(r.buffer[r.offset:])
	if 0 == count {
		r.fail()
		return 0
	}
	r.offset += count
	return value
}

// PeekVarint - read an unsigned varint without consuming it
//
// used to dispatch on a leading type tag
func (r *Reader) PeekVarint() uint64 {
	if nil != r.err {
		return 0
	}
	value, count := util.FromVarint64(r.buffer[r.offset:])
	if 0 == count {
		r.fail()
		return 0
	}
	return value
}

// Key - consume a fixed number of raw bytes
//
// the returned slice is a copy
func (r *Reader) Key(size int) []byte {
	if nil != r.err {
		return nil
	}
	if size < 0 || r.offset+size > len(r.buffer) {
		r.fail()
		return nil
	}
	data := make([]byte, size)
	copy(data, r.buffer[r.offset:r.offset+size])
	r.offset += size
	return data
}

// Block - consume a length prefixed byte block
func (r *Reader) Block() []byte {
	length := r.Varint()
	if nil != r.err {
		return nil
	}
	if length > uint64(len(r.buffer)-r.offset) {
		r.fail()
		return nil
	}
	return r.Key(int(length))
}

// Bool - consume a single byte boolean
func (r *Reader) Bool() bool {
	if nil != r.err {
		return false
	}
	if r.offset >= len(r.buffer) {
		r.fail()
		return false
	}
	b := r.buffer[r.offset]
	r.offset += 1
	if b > 0x01 {
		r.fail()
		return false
	}
	return 0x01 == b
}

// Remaining - number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.buffer) - r.offset
}

// Error - the latched framing error, nil if all reads succeeded
func (r *Reader) Error() error {
	return r.err
}
