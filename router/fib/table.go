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

// Package fib is a minimal IPv6 forwarding table. It holds adjacencies and
// the routes pointing at them. Lookups are lock-free and safe to run on the
// packet processing path while the control plane modifies the table.
//
// Adjacencies come in two flavours. Pinned adjacencies are configured by the
// operator and live as long as the table. Route-owned adjacencies are created
// for a single purpose, such as an ILA redirect, and are freed when the last
// host route referencing them is removed.
package fib

import (
	"errors"
	"net/netip"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/pkg/log"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/pkg/private/slab"
)

const defaultMaxAdjacencies = 1 << 20

var (
	ErrRouteExists        = errors.New("route already exists")
	ErrNoRoute            = errors.New("no such route")
	ErrUnknownAdjacency   = errors.New("unknown adjacency")
	ErrAdjacencyInUse     = errors.New("adjacency in use")
	ErrPinnedAdjacency    = errors.New("adjacency is pinned")
	ErrTooManyAdjacencies = errors.New("adjacency table full")
	ErrObserver           = errors.New("route observer failed")
)

// RouteID identifies an installed host route.
type RouteID uint32

// Observer is notified of host route changes. An error returned from
// HostRouteAdded aborts the installation of the route.
type Observer interface {
	HostRouteAdded(dst ila.Address, idx AdjIndex, adj Adjacency) error
	HostRouteRemoved(dst ila.Address, idx AdjIndex, adj Adjacency) error
}

type adjSlot struct {
	adj    Adjacency
	pinned bool
}

type hostRoute struct {
	id  RouteID
	adj AdjIndex
}

type prefixRoute struct {
	prefix netip.Prefix
	adj    AdjIndex
}

// Table is the forwarding table. The zero value is not usable, use New.
type Table struct {
	mtx       sync.Mutex
	adjs      *slab.Slab[adjSlot]
	refs      map[AdjIndex]int
	routes    map[ila.Address]hostRoute
	nextRoute RouteID
	observers []Observer

	// hosts mirrors routes for lock-free lookups.
	hosts sync.Map
	// prefixes is sorted by decreasing prefix length.
	prefixes atomic.Pointer[[]prefixRoute]
}

// Config configures a Table.
type Config struct {
	// MaxAdjacencies bounds the adjacency table. Zero means the default.
	MaxAdjacencies int
}

// New creates a table containing only the drop adjacency.
func New(cfg Config) *Table {
	if cfg.MaxAdjacencies <= 0 {
		cfg.MaxAdjacencies = defaultMaxAdjacencies
	}
	t := &Table{
		adjs:   slab.New[adjSlot](cfg.MaxAdjacencies),
		refs:   make(map[AdjIndex]int),
		routes: make(map[ila.Address]hostRoute),
	}
	if _, err := t.adjs.Alloc(&adjSlot{adj: DropAdjacency{}, pinned: true}); err != nil {
		panic(err)
	}
	t.prefixes.Store(&[]prefixRoute{})
	return t
}

// AddObserver registers o. It must be called before routes are installed.
func (t *Table) AddObserver(o Observer) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.observers = append(t.observers, o)
}

// AddAdjacency adds a pinned adjacency.
func (t *Table) AddAdjacency(adj Adjacency) (AdjIndex, error) {
	return t.allocAdjacency(adj, true)
}

// NewAdjacency adds a route-owned adjacency. The adjacency is freed when the
// last host route pointing to it is removed. If no route is ever installed
// the caller must release it with ReleaseAdjacency.
func (t *Table) NewAdjacency(adj Adjacency) (AdjIndex, error) {
	return t.allocAdjacency(adj, false)
}

func (t *Table) allocAdjacency(adj Adjacency, pinned bool) (AdjIndex, error) {
	if adj == nil {
		return AdjNil, serrors.New("nil adjacency")
	}
	i, err := t.adjs.Alloc(&adjSlot{adj: adj, pinned: pinned})
	if err != nil {
		return AdjNil, serrors.JoinNoStack(ErrTooManyAdjacencies, err)
	}
	return AdjIndex(i), nil
}

// ReleaseAdjacency frees a route-owned adjacency that no route references.
func (t *Table) ReleaseAdjacency(idx AdjIndex) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	s := t.adjs.Get(uint32(idx))
	switch {
	case s == nil:
		return serrors.JoinNoStack(ErrUnknownAdjacency, nil, "adj", idx)
	case s.pinned:
		return serrors.JoinNoStack(ErrPinnedAdjacency, nil, "adj", idx)
	case t.refs[idx] != 0:
		return serrors.JoinNoStack(ErrAdjacencyInUse, nil, "adj", idx, "routes", t.refs[idx])
	}
	t.adjs.Free(uint32(idx))
	return nil
}

// Adjacency returns the adjacency at idx. It is safe for concurrent use
// with all writers.
func (t *Table) Adjacency(idx AdjIndex) (Adjacency, bool) {
	s := t.adjs.Get(uint32(idx))
	if s == nil {
		return nil, false
	}
	return s.adj, true
}

// InstallHostRoute installs a /128 route for dst pointing at adj.
func (t *Table) InstallHostRoute(dst ila.Address, idx AdjIndex) (RouteID, error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if _, ok := t.routes[dst]; ok {
		return 0, serrors.JoinNoStack(ErrRouteExists, nil, "dst", dst)
	}
	s := t.adjs.Get(uint32(idx))
	if s == nil {
		return 0, serrors.JoinNoStack(ErrUnknownAdjacency, nil, "adj", idx)
	}
	for k, o := range t.observers {
		if err := o.HostRouteAdded(dst, idx, s.adj); err != nil {
			notifyRemoved(t.observers[:k], dst, idx, s.adj)
			return 0, serrors.JoinNoStack(ErrObserver, err, "dst", dst)
		}
	}
	t.nextRoute++
	r := hostRoute{id: t.nextRoute, adj: idx}
	t.routes[dst] = r
	t.refs[idx]++
	t.hosts.Store(dst, idx)
	return r.id, nil
}

// RemoveHostRoute removes the /128 route for dst. A route-owned adjacency
// that is no longer referenced is freed.
func (t *Table) RemoveHostRoute(dst ila.Address) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	r, ok := t.routes[dst]
	if !ok {
		return serrors.JoinNoStack(ErrNoRoute, nil, "dst", dst)
	}
	t.hosts.Delete(dst)
	delete(t.routes, dst)
	s := t.adjs.Get(uint32(r.adj))
	notifyRemoved(t.observers, dst, r.adj, s.adj)
	t.refs[r.adj]--
	if t.refs[r.adj] == 0 {
		delete(t.refs, r.adj)
		if !s.pinned {
			t.adjs.Free(uint32(r.adj))
		}
	}
	return nil
}

// notifyRemoved tells observers about a removed route. Their errors do not
// stop the removal.
func notifyRemoved(observers []Observer, dst ila.Address, idx AdjIndex, adj Adjacency) {
	for _, o := range observers {
		if err := o.HostRouteRemoved(dst, idx, adj); err != nil {
			log.Error("Route observer failed to remove route", "dst", dst, "err", err)
		}
	}
}

// HostRoute returns the adjacency of the host route for dst.
func (t *Table) HostRoute(dst ila.Address) (AdjIndex, bool) {
	v, ok := t.hosts.Load(dst)
	if !ok {
		return AdjNil, false
	}
	return v.(AdjIndex), true
}

// AddRoute adds or replaces a prefix route. Prefix routes point at pinned
// adjacencies.
func (t *Table) AddRoute(prefix netip.Prefix, idx AdjIndex) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if !prefix.Addr().Is6() {
		return serrors.New("prefix is not IPv6", "prefix", prefix)
	}
	s := t.adjs.Get(uint32(idx))
	if s == nil {
		return serrors.JoinNoStack(ErrUnknownAdjacency, nil, "adj", idx)
	}
	if !s.pinned {
		return serrors.New("prefix routes require a pinned adjacency", "adj", idx)
	}
	prefix = prefix.Masked()
	old := *t.prefixes.Load()
	routes := make([]prefixRoute, 0, len(old)+1)
	for _, r := range old {
		if r.prefix != prefix {
			routes = append(routes, r)
		}
	}
	routes = append(routes, prefixRoute{prefix: prefix, adj: idx})
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].prefix.Bits() > routes[j].prefix.Bits()
	})
	t.prefixes.Store(&routes)
	return nil
}

// Lookup returns the adjacency dst resolves to: its host route if there is
// one, else the longest matching prefix route, else AdjDrop.
func (t *Table) Lookup(dst *ila.Address) AdjIndex {
	if v, ok := t.hosts.Load(*dst); ok {
		return v.(AdjIndex)
	}
	ip := netip.AddrFrom16(*dst)
	for _, r := range *t.prefixes.Load() {
		if r.prefix.Contains(ip) {
			return r.adj
		}
	}
	return AdjDrop
}

// AdjacencyInfo describes an adjacency for display.
type AdjacencyInfo struct {
	Index     AdjIndex
	Adjacency Adjacency
	Pinned    bool
	Routes    int
}

// Adjacencies lists all adjacencies in index order.
func (t *Table) Adjacencies() []AdjacencyInfo {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	var r []AdjacencyInfo
	t.adjs.Range(func(i uint32, s *adjSlot) bool {
		r = append(r, AdjacencyInfo{
			Index:     AdjIndex(i),
			Adjacency: s.adj,
			Pinned:    s.pinned,
			Routes:    t.refs[AdjIndex(i)],
		})
		return true
	})
	return r
}

// NumHostRoutes returns the number of installed host routes.
func (t *Table) NumHostRoutes() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.routes)
}
