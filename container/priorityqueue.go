// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package container

import (
	"container/heap"
	"sync"
)

// PriorityQueue - highest priority first
type PriorityQueue[T any] struct {
	sync.RWMutex
	inner innerHeap[T]
}

type prioritised[T any] struct {
	priority uint64
	sequence uint64
	item     T
}

type innerHeap[T any] struct {
	entries  []prioritised[T]
	sequence uint64
}

func (h innerHeap[T]) Len() int { return len(h.entries) }

// equal priorities keep insertion order
func (h innerHeap[T]) Less(i, j int) bool {
	if h.entries[i].priority != h.entries[j].priority {
		return h.entries[i].priority > h.entries[j].priority
	}
	return h.entries[i].sequence < h.entries[j].sequence
}

func (h innerHeap[T]) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *innerHeap[T]) Push(x any) {
	h.entries = append(h.entries, x.(prioritised[T]))
}

func (h *innerHeap[T]) Pop() any {
	last := len(h.entries) - 1
	entry := h.entries[last]
	h.entries[last] = prioritised[T]{}
	h.entries = h.entries[:last]
	return entry
}

// NewPriorityQueue - create an empty queue
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{}
}

// Push - insert with a priority
func (q *PriorityQueue[T]) Push(item T, priority uint64) {
	q.Lock()
	q.inner.sequence += 1
	heap.Push(&q.inner, prioritised[T]{
		priority: priority,
		sequence: q.inner.sequence,
		item:     item,
	})
	q.Unlock()
}

// Pop - remove the highest priority item, false when empty
func (q *PriorityQueue[T]) Pop() (T, bool) {
	q.Lock()
	defer q.Unlock()

	var zero T
	if 0 == q.inner.Len() {
		return zero, false
	}
	entry := heap.Pop(&q.inner).(prioritised[T])
	return entry.item, true
}

// Size - number of items
func (q *PriorityQueue[T]) Size() int {
	q.RLock()
	n := q.inner.Len()
	q.RUnlock()
	return n
}
