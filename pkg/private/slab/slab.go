// Copyright 2026 ILA Router Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package slab provides a bounded table of dense, reusable slots. Reads of a
// slot are lock-free and may run concurrently with writers. Writers are
// serialized internally.
package slab

import (
	"errors"
	"sync"
	"sync/atomic"
)

const (
	chunkBits = 10
	chunkSize = 1 << chunkBits
)

// ErrFull is returned when all slots are in use.
var ErrFull = errors.New("no free slot")

type chunk[T any] [chunkSize]atomic.Pointer[T]

// Slab is a table of at most Cap() slots. A slot is published with a
// single atomic store, so readers never observe a partially written value.
type Slab[T any] struct {
	mtx    sync.Mutex
	chunks []atomic.Pointer[chunk[T]]
	free   []uint32
	next   uint32
	limit  uint32
	used   atomic.Int64
}

// New creates a slab with room for limit slots.
func New[T any](limit int) *Slab[T] {
	if limit <= 0 {
		limit = chunkSize
	}
	n := (limit + chunkSize - 1) >> chunkBits
	return &Slab[T]{
		chunks: make([]atomic.Pointer[chunk[T]], n),
		limit:  uint32(limit),
	}
}

// Cap returns the maximum number of slots.
func (s *Slab[T]) Cap() int {
	return int(s.limit)
}

// Len returns the number of occupied slots.
func (s *Slab[T]) Len() int {
	return int(s.used.Load())
}

// Alloc stores v in a free slot and returns its index. Freed slots are
// reused most recently freed first.
func (s *Slab[T]) Alloc(v *T) (uint32, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var i uint32
	switch {
	case len(s.free) > 0:
		i = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	case s.next < s.limit:
		i = s.next
		s.next++
	default:
		return 0, ErrFull
	}
	c := s.chunks[i>>chunkBits].Load()
	if c == nil {
		c = new(chunk[T])
		s.chunks[i>>chunkBits].Store(c)
	}
	c[i&(chunkSize-1)].Store(v)
	s.used.Add(1)
	return i, nil
}

// Free clears slot i and returns its previous value.
func (s *Slab[T]) Free(i uint32) (*T, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if i >= s.next {
		return nil, false
	}
	c := s.chunks[i>>chunkBits].Load()
	v := c[i&(chunkSize-1)].Swap(nil)
	if v == nil {
		return nil, false
	}
	s.free = append(s.free, i)
	s.used.Add(-1)
	return v, true
}

// Get returns the value in slot i, or nil if the slot is free.
func (s *Slab[T]) Get(i uint32) *T {
	if i >= s.limit {
		return nil
	}
	c := s.chunks[i>>chunkBits].Load()
	if c == nil {
		return nil
	}
	return c[i&(chunkSize-1)].Load()
}

// Range calls f for every occupied slot in index order until f returns
// false. Slots changed concurrently may or may not be visited.
func (s *Slab[T]) Range(f func(i uint32, v *T) bool) {
	for ci := range s.chunks {
		c := s.chunks[ci].Load()
		if c == nil {
			continue
		}
		for j := range c {
			if v := c[j].Load(); v != nil {
				if !f(uint32(ci<<chunkBits|j), v) {
					return
				}
			}
		}
	}
}
