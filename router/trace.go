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

package router

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// TraceRecord is one line of a packet trace.
type TraceRecord struct {
	// Packet numbers the traced packets in the order they were armed.
	Packet uint64    `json:"packet"`
	Time   time.Time `json:"time"`
	Node   string    `json:"node"`
	Msg    string    `json:"msg"`
}

func (r TraceRecord) String() string {
	return fmt.Sprintf("%06d %s: %s", r.Packet, r.Node, r.Msg)
}

// Tracer collects trace records of a limited number of input packets. Records are kept in a
// bounded buffer; the oldest are overwritten once it is full.
type Tracer struct {
	armed   atomic.Int64
	counter atomic.Uint64

	mtx     sync.Mutex
	records []TraceRecord
	next    int
	full    bool
}

// NewTracer returns a tracer keeping up to limit records.
func NewTracer(limit int) *Tracer {
	if limit <= 0 {
		limit = defaultTraceLimit
	}
	return &Tracer{records: make([]TraceRecord, limit)}
}

// Add arms tracing for the next n input packets.
func (t *Tracer) Add(n int) {
	if n > 0 {
		t.armed.Add(int64(n))
	}
}

// Pending returns the number of packets still to be traced.
func (t *Tracer) Pending() int {
	return int(t.armed.Load())
}

// arm consumes one armed slot. It returns the trace number of the packet or 0 if the packet is
// not traced.
func (t *Tracer) arm() uint64 {
	for {
		n := t.armed.Load()
		if n <= 0 {
			return 0
		}
		if t.armed.CompareAndSwap(n, n-1) {
			theMetrics.TracedPacketsTotal.Inc()
			return t.counter.Add(1)
		}
	}
}

func (t *Tracer) record(pkt uint64, n node, format string, args ...any) {
	r := TraceRecord{
		Packet: pkt,
		Time:   time.Now(),
		Node:   n.String(),
		Msg:    fmt.Sprintf(format, args...),
	}
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.records[t.next] = r
	t.next++
	if t.next == len(t.records) {
		t.next = 0
		t.full = true
	}
}

// Records returns the collected records, oldest first.
func (t *Tracer) Records() []TraceRecord {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if !t.full {
		return append([]TraceRecord(nil), t.records[:t.next]...)
	}
	r := make([]TraceRecord, 0, len(t.records))
	r = append(r, t.records[t.next:]...)
	return append(r, t.records[:t.next]...)
}

// Clear drops all records and disarms tracing.
func (t *Tracer) Clear() {
	t.armed.Store(0)
	t.mtx.Lock()
	defer t.mtx.Unlock()
	clear(t.records)
	t.next = 0
	t.full = false
}
