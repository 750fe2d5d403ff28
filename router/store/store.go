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

// Package store holds the ILA translation entries and the identifier index.
//
// Entries are immutable once published. An update is a removal followed by
// an addition, which yields a new generation number so that stale references
// held by redirect adjacencies can be told apart from the new entry reusing
// the slot. Lookups never block; mutations are serialized.
package store

import (
	"errors"
	"math"
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/pkg/private/slab"
	"github.com/ilarouter/ila/router/fib"
)

const (
	// DefaultBuckets is the default number of index buckets.
	DefaultBuckets = 64 << 10
	// MaxBuckets bounds the number of index buckets so that the bucket mask
	// fits 32 bits.
	MaxBuckets = 1 << 30
	// DefaultMemorySize is the default memory budget of the store in bytes.
	DefaultMemorySize = 32 << 20
	// entryCost approximates the memory used by one entry, its slot and its
	// index record.
	entryCost = 64
)

// EntryID is the dense index of an entry.
type EntryID uint32

// NoEntry is the sentinel for "no entry".
const NoEntry EntryID = math.MaxUint32

var (
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrUnknownIdentifier   = errors.New("unknown identifier")
	ErrUnsupportedMode     = errors.New("unsupported checksum mode")
	ErrTableFull           = errors.New("entry table full")
	// ErrInvalidIdentifier is returned for neutral-map entries whose
	// identifier already carries the flag bit.
	ErrInvalidIdentifier = errors.New("identifier has flag bit set")
)

// Entry is one identifier mapping.
type Entry struct {
	Identifier ila.Half
	Locator    ila.Half
	SIRPrefix  ila.Half
	Mode       ila.ChecksumMode
	// Modifier is only meaningful in ila.ModeNeutralMap.
	Modifier ila.Modifier
	// LocalAdj is the adjacency locally terminated traffic is forwarded
	// with after translation, or fib.AdjNil.
	LocalAdj fib.AdjIndex
	// Gen distinguishes entries that occupied the same slot.
	Gen uint32
}

// Local reports whether the entry is terminated on this node.
func (e *Entry) Local() bool {
	return e.LocalAdj != fib.AdjNil
}

// ToSIR rewrites a locator form address of this entry to SIR form.
func (e *Entry) ToSIR(a *ila.Address) {
	a.SetPrefix(e.SIRPrefix)
	if e.Mode == ila.ModeNeutralMap {
		e.Modifier.ToSIR(a)
	}
}

// ToLocator rewrites a SIR form address of this entry to locator form.
func (e *Entry) ToLocator(a *ila.Address) {
	a.SetPrefix(e.Locator)
	if e.Mode == ila.ModeNeutralMap {
		e.Modifier.ToLocator(a)
	}
}

// SIRAddress returns the address applications use to reach the entry.
func (e *Entry) SIRAddress() ila.Address {
	return ila.AddressFrom(e.SIRPrefix, e.Identifier)
}

// LocatorAddress returns the address the network uses to reach the entry.
// It is also the destination of the entry's host route.
func (e *Entry) LocatorAddress() ila.Address {
	a := e.SIRAddress()
	e.ToLocator(&a)
	return a
}

// Config configures the store.
type Config struct {
	// Buckets is the number of index buckets. It is rounded up to a power
	// of two and capped at MaxBuckets. Zero means DefaultBuckets.
	Buckets int
	// MemorySize bounds the number of entries. Zero means DefaultMemorySize.
	MemorySize int
}

// InitDefaults sets zero values to their defaults.
func (c *Config) InitDefaults() {
	if c.Buckets <= 0 {
		c.Buckets = DefaultBuckets
	}
	c.Buckets = min(c.Buckets, MaxBuckets)
	if c.MemorySize <= 0 {
		c.MemorySize = DefaultMemorySize
	}
}

// MaxEntries returns the number of entries the configuration admits.
func (c Config) MaxEntries() int {
	c.InitDefaults()
	return max(c.MemorySize/entryCost, 1)
}

type record struct {
	id    ila.Half
	entry EntryID
}

// bucket is never modified after it has been published.
type bucket struct {
	records []record
}

// Store is the entry table. Use New to create one.
type Store struct {
	mtx     sync.Mutex
	entries *slab.Slab[Entry]
	buckets []atomic.Pointer[bucket]
	mask    uint32
	gen     uint32
}

// New creates an empty store.
func New(cfg Config) *Store {
	cfg.InitDefaults()
	n := 1 << bits.Len(uint(cfg.Buckets-1))
	return &Store{
		entries: slab.New[Entry](cfg.MaxEntries()),
		buckets: make([]atomic.Pointer[bucket], n),
		mask:    uint32(n - 1),
	}
}

// NumBuckets returns the number of index buckets.
func (s *Store) NumBuckets() int {
	return len(s.buckets)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return s.entries.Len()
}

// Add creates an entry and publishes it in the index. localAdj is fib.AdjNil
// for entries that are not terminated locally.
func (s *Store) Add(
	id, locator, sirPrefix ila.Half,
	mode ila.ChecksumMode,
	localAdj fib.AdjIndex,
) (EntryID, error) {
	switch mode {
	case ila.ModeNoAction, ila.ModeNeutralMap:
	default:
		return NoEntry, serrors.JoinNoStack(ErrUnsupportedMode, nil, "mode", mode)
	}
	if mode == ila.ModeNeutralMap && id.Flagged() {
		return NoEntry, serrors.JoinNoStack(ErrInvalidIdentifier, nil, "identifier", id)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.lookup(id); ok {
		return NoEntry, serrors.JoinNoStack(ErrDuplicateIdentifier, nil, "identifier", id)
	}
	e := &Entry{
		Identifier: id,
		Locator:    locator,
		SIRPrefix:  sirPrefix,
		Mode:       mode,
		LocalAdj:   localAdj,
		Gen:        s.gen + 1,
	}
	if mode == ila.ModeNeutralMap {
		e.Modifier = ila.NewModifier(locator, sirPrefix)
	}
	idx, err := s.entries.Alloc(e)
	if err != nil {
		return NoEntry, serrors.JoinNoStack(ErrTableFull, err, "max_entries", s.entries.Cap())
	}
	s.gen++
	eid := EntryID(idx)

	b := s.bucketOf(id)
	var old []record
	if cur := b.Load(); cur != nil {
		old = cur.records
	}
	records := make([]record, len(old), len(old)+1)
	copy(records, old)
	b.Store(&bucket{records: append(records, record{id: id, entry: eid})})
	return eid, nil
}

// Remove deletes the entry with the given identifier and returns the index
// it occupied.
func (s *Store) Remove(id ila.Half) (EntryID, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	b := s.bucketOf(id)
	cur := b.Load()
	if cur == nil {
		return NoEntry, serrors.JoinNoStack(ErrUnknownIdentifier, nil, "identifier", id)
	}
	eid := NoEntry
	records := make([]record, 0, len(cur.records))
	for _, r := range cur.records {
		if r.id == id {
			eid = r.entry
			continue
		}
		records = append(records, r)
	}
	if eid == NoEntry {
		return NoEntry, serrors.JoinNoStack(ErrUnknownIdentifier, nil, "identifier", id)
	}
	if len(records) == 0 {
		b.Store(nil)
	} else {
		b.Store(&bucket{records: records})
	}
	s.entries.Free(uint32(eid))
	return eid, nil
}

// Lookup returns the index of the entry with the given identifier.
func (s *Store) Lookup(id ila.Half) (EntryID, bool) {
	return s.lookup(id)
}

func (s *Store) lookup(id ila.Half) (EntryID, bool) {
	b := s.bucketOf(id).Load()
	if b == nil {
		return NoEntry, false
	}
	for _, r := range b.records {
		if r.id == id {
			return r.entry, true
		}
	}
	return NoEntry, false
}

// Get returns the entry at idx. The returned entry must not be modified.
func (s *Store) Get(idx EntryID) (*Entry, bool) {
	e := s.entries.Get(uint32(idx))
	return e, e != nil
}

// IndexedEntry is an entry together with its index.
type IndexedEntry struct {
	ID EntryID
	Entry
}

// Entries returns a snapshot of all entries in index order.
func (s *Store) Entries() []IndexedEntry {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	r := make([]IndexedEntry, 0, s.entries.Len())
	s.entries.Range(func(i uint32, e *Entry) bool {
		r = append(r, IndexedEntry{ID: EntryID(i), Entry: *e})
		return true
	})
	return r
}

func (s *Store) bucketOf(id ila.Half) *atomic.Pointer[bucket] {
	return &s.buckets[HashIdentifier(id)&s.mask]
}
