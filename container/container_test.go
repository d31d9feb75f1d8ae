// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package container_test

import (
	"sync"
	"testing"
	"time"

	"github.com/ivantse/turtlecoin-v2/container"
)

func TestMap(t *testing.T) {
	m := container.NewMap[string, int]()
	m.Insert("a", 1)
	m.Insert("b", 2)
	m.Insert("a", 3)

	if 2 != m.Size() {
		t.Fatalf("size: %d  expected: 2", m.Size())
	}
	if v, ok := m.At("a"); !ok || 3 != v {
		t.Fatalf("at(a): (%d, %v)  expected: (3, true)", v, ok)
	}
	m.Erase("a")
	if m.Contains("a") {
		t.Fatal("erased key still present")
	}
}

func TestSet(t *testing.T) {
	s := container.NewSet[int]()
	if !s.Insert(1) {
		t.Fatal("fresh insert reported as duplicate")
	}
	if s.Insert(1) {
		t.Fatal("duplicate insert reported as fresh")
	}
	if !s.Contains(1) || s.Contains(2) {
		t.Fatal("membership incorrect")
	}
}

func TestQueueOrder(t *testing.T) {
	q := container.NewQueue[int]()
	for i := 0; i < 10; i += 1 {
		q.Push(i)
	}
	for i := 0; i < 10; i += 1 {
		item, ok := q.Pop()
		if !ok || item != i {
			t.Fatalf("pop %d: (%d, %v)", i, item, ok)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop from empty queue succeeded")
	}
}

func TestQueuePopWait(t *testing.T) {
	q := container.NewQueue[string]()

	if _, ok := q.PopWait(20 * time.Millisecond); ok {
		t.Fatal("wait on empty queue returned an item")
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Push("ping")
	}()

	item, ok := q.PopWait(500 * time.Millisecond)
	if !ok || "ping" != item {
		t.Fatalf("pop wait: (%q, %v)", item, ok)
	}
}

func TestQueueConcurrent(t *testing.T) {
	q := container.NewQueue[int]()

	const producers = 4
	const perProducer = 250

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p += 1 {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i += 1 {
				q.Push(i)
			}
		}()
	}
	wg.Wait()

	if producers*perProducer != q.Size() {
		t.Fatalf("size: %d  expected: %d", q.Size(), producers*perProducer)
	}
}

func TestDeque(t *testing.T) {
	d := container.NewDeque[int]()
	d.PushBack(2)
	d.PushFront(1)
	d.PushBack(3)

	if front, ok := d.Front(); !ok || 1 != front {
		t.Fatalf("front: (%d, %v)", front, ok)
	}
	if item, ok := d.PopBack(); !ok || 3 != item {
		t.Fatalf("pop back: (%d, %v)", item, ok)
	}
	if item, ok := d.PopFront(); !ok || 1 != item {
		t.Fatalf("pop front: (%d, %v)", item, ok)
	}
	if 1 != d.Size() {
		t.Fatalf("size: %d", d.Size())
	}
}

func TestPriorityQueue(t *testing.T) {
	q := container.NewPriorityQueue[string]()
	q.Push("low", 1)
	q.Push("high", 10)
	q.Push("mid", 5)
	q.Push("high2", 10)

	expected := []string{"high", "high2", "mid", "low"}
	for _, want := range expected {
		item, ok := q.Pop()
		if !ok || item != want {
			t.Fatalf("pop: (%q, %v)  expected: %q", item, ok, want)
		}
	}
}
