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

// Package control is the configuration API of the ILA router. It owns the
// transactions that keep the entry store, the forwarding table and the
// interface feature chains consistent with each other.
package control

import (
	"errors"
	"sync"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/pkg/log"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/router/control/internal/metrics"
	"github.com/ilarouter/ila/router/feature"
	"github.com/ilarouter/ila/router/fib"
	"github.com/ilarouter/ila/router/store"
)

var (
	// ErrRouteInstallFailed is returned when an entry could not be bound to
	// its host route. The entry is not left in the store.
	ErrRouteInstallFailed = errors.New("route install failed")
	ErrUnknownInterface   = errors.New("unknown interface")
	ErrUnknownEntry       = errors.New("unknown entry")
	// ErrInvalidAdjacency is returned for a local adjacency that cannot
	// terminate translated traffic.
	ErrInvalidAdjacency = errors.New("invalid local adjacency")
)

// Dataplane is the interface that this controller expects from the
// Dataplane.
type Dataplane interface {
	AddInterface(ifID uint16, name, device string) error
	InterfaceID(name string) (uint16, bool)
	SIR2ILAStep() feature.StepID
}

// EntryArgs are the arguments of an entry add or delete. LocalAdj is
// fib.AdjNil for entries that are not terminated on this node.
type EntryArgs struct {
	Identifier ila.Half
	Locator    ila.Half
	SIRPrefix  ila.Half
	Mode       ila.ChecksumMode
	LocalAdj   fib.AdjIndex
	IsDelete   bool
}

// Addresses are the two forms of the address of an entry.
type Addresses struct {
	SIR     ila.Address
	Locator ila.Address
	// Modifier is the checksum adjustment applied to the identifier. It is
	// zero unless the entry is in neutral-map mode.
	Modifier ila.Modifier
}

// Manager serializes all configuration changes.
type Manager struct {
	mtx     sync.Mutex
	dp      Dataplane
	entries *store.Store
	table   *fib.Table
	chains  *feature.Chains
}

// NewManager creates a manager for the given data plane and tables. The same
// tables must have been handed to the data plane.
func NewManager(
	dp Dataplane,
	entries *store.Store,
	table *fib.Table,
	chains *feature.Chains,
) *Manager {
	return &Manager{
		dp:      dp,
		entries: entries,
		table:   table,
		chains:  chains,
	}
}

// AddDelEntry adds or deletes an entry depending on args.IsDelete. For
// deletes only the identifier is used.
func (m *Manager) AddDelEntry(args EntryArgs) (store.EntryID, error) {
	if args.IsDelete {
		return m.DelEntry(args.Identifier)
	}
	return m.AddEntry(args)
}

// AddEntry adds an entry. An entry with a local adjacency gets a redirect
// adjacency and a host route for its locator form address. If the route
// cannot be installed the entry is removed again.
func (m *Manager) AddEntry(args EntryArgs) (store.EntryID, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	eid, err := m.addEntry(args)
	m.observeEntryOp(metrics.OpAdd, err)
	if err != nil {
		return store.NoEntry, err
	}
	log.Debug("Entry added", "entry", eid, "identifier", args.Identifier,
		"locator", args.Locator, "sir_prefix", args.SIRPrefix, "mode", args.Mode,
		"adj", args.LocalAdj)
	return eid, nil
}

func (m *Manager) addEntry(args EntryArgs) (store.EntryID, error) {
	if args.LocalAdj != fib.AdjNil {
		adj, ok := m.table.Adjacency(args.LocalAdj)
		if !ok {
			return store.NoEntry, serrors.JoinNoStack(fib.ErrUnknownAdjacency, nil,
				"adj", args.LocalAdj)
		}
		if adj.Next() == fib.LookupILA {
			return store.NoEntry, serrors.JoinNoStack(ErrInvalidAdjacency, nil,
				"adj", args.LocalAdj, "kind", adj.Next())
		}
	}
	eid, err := m.entries.Add(args.Identifier, args.Locator, args.SIRPrefix,
		args.Mode, args.LocalAdj)
	if err != nil {
		return store.NoEntry, err
	}
	if args.LocalAdj == fib.AdjNil {
		return eid, nil
	}
	if err := m.bind(eid); err != nil {
		if _, rerr := m.entries.Remove(args.Identifier); rerr != nil {
			log.Error("Rolling back entry failed", "identifier", args.Identifier, "err", rerr)
		}
		return store.NoEntry, serrors.JoinNoStack(ErrRouteInstallFailed, err,
			"identifier", args.Identifier)
	}
	metrics.Control.BoundRoutes().Inc()
	return eid, nil
}

// bind installs the host route of a local entry.
func (m *Manager) bind(eid store.EntryID) error {
	e, ok := m.entries.Get(eid)
	if !ok {
		return serrors.JoinNoStack(ErrUnknownEntry, nil, "entry", eid)
	}
	adj, err := m.table.NewAdjacency(fib.ILARedirect{Entry: uint32(eid), Gen: e.Gen})
	if err != nil {
		return err
	}
	if _, err := m.table.InstallHostRoute(e.LocatorAddress(), adj); err != nil {
		if rerr := m.table.ReleaseAdjacency(adj); rerr != nil {
			log.Error("Releasing redirect adjacency failed", "adj", adj, "err", rerr)
		}
		return err
	}
	return nil
}

// DelEntry deletes the entry with the given identifier together with its
// host route.
func (m *Manager) DelEntry(id ila.Half) (store.EntryID, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	eid, err := m.delEntry(id)
	m.observeEntryOp(metrics.OpDel, err)
	if err != nil {
		return store.NoEntry, err
	}
	log.Debug("Entry deleted", "entry", eid, "identifier", id)
	return eid, nil
}

func (m *Manager) delEntry(id ila.Half) (store.EntryID, error) {
	eid, ok := m.entries.Lookup(id)
	if !ok {
		return store.NoEntry, serrors.JoinNoStack(store.ErrUnknownIdentifier, nil,
			"identifier", id)
	}
	e, ok := m.entries.Get(eid)
	if !ok {
		return store.NoEntry, serrors.JoinNoStack(store.ErrUnknownIdentifier, nil,
			"identifier", id)
	}
	if e.Local() {
		err := m.table.RemoveHostRoute(e.LocatorAddress())
		switch {
		case err == nil:
			metrics.Control.BoundRoutes().Dec()
		case errors.Is(err, fib.ErrNoRoute):
			log.Info("Host route of local entry already gone", "identifier", id)
		default:
			return store.NoEntry, err
		}
	}
	return m.entries.Remove(id)
}

func (m *Manager) observeEntryOp(op string, err error) {
	metrics.Control.EntryOps(metrics.EntryLabels{Op: op, Result: entryResult(err)}).Inc()
	metrics.Control.Entries().Set(float64(m.entries.Len()))
}

func entryResult(err error) string {
	switch {
	case err == nil:
		return metrics.Success
	case errors.Is(err, store.ErrDuplicateIdentifier):
		return metrics.ErrDuplicate
	case errors.Is(err, store.ErrUnknownIdentifier):
		return metrics.ErrNotFound
	case errors.Is(err, store.ErrUnsupportedMode), errors.Is(err, store.ErrInvalidIdentifier),
		errors.Is(err, fib.ErrUnknownAdjacency), errors.Is(err, ErrInvalidAdjacency):
		return metrics.ErrInvalidReq
	case errors.Is(err, ErrRouteInstallFailed):
		return metrics.ErrRoute
	default:
		return metrics.ErrInternal
	}
}

// EnableInterface inserts SIR to locator translation into the ingress chain
// of the named interface. Enabling an enabled interface is a no-op.
func (m *Manager) EnableInterface(name string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	ifID, err := m.interfaceID(name)
	if err != nil {
		return err
	}
	step := m.dp.SIR2ILAStep()
	if m.chains.Has(ifID, step) {
		return nil
	}
	if _, err := m.chains.AddStep(ifID, step); err != nil {
		return serrors.Wrap("enabling translation", err, "intf", name)
	}
	metrics.Control.ILAEnabled(metrics.IntfLabels{Intf: name}).Set(1)
	log.Info("SIR to locator translation enabled", "intf", name)
	return nil
}

// DisableInterface removes SIR to locator translation from the ingress chain
// of the named interface. Disabling a disabled interface is a no-op.
func (m *Manager) DisableInterface(name string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	ifID, err := m.interfaceID(name)
	if err != nil {
		return err
	}
	step := m.dp.SIR2ILAStep()
	if !m.chains.Has(ifID, step) {
		return nil
	}
	if err := m.chains.RemoveStep(ifID, step); err != nil {
		return serrors.Wrap("disabling translation", err, "intf", name)
	}
	metrics.Control.ILAEnabled(metrics.IntfLabels{Intf: name}).Set(0)
	log.Info("SIR to locator translation disabled", "intf", name)
	return nil
}

// InterfaceEnabled reports whether translation is enabled on the named
// interface.
func (m *Manager) InterfaceEnabled(name string) (bool, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	ifID, err := m.interfaceID(name)
	if err != nil {
		return false, err
	}
	return m.chains.Has(ifID, m.dp.SIR2ILAStep()), nil
}

func (m *Manager) interfaceID(name string) (uint16, error) {
	ifID, ok := m.dp.InterfaceID(name)
	if !ok {
		return 0, serrors.JoinNoStack(ErrUnknownInterface, nil, "intf", name)
	}
	return ifID, nil
}

// Entries lists all entries in index order.
func (m *Manager) Entries() []store.IndexedEntry {
	return m.entries.Entries()
}

// Addresses returns the SIR form and the locator form address of an entry.
func (m *Manager) Addresses(eid store.EntryID) (Addresses, error) {
	e, ok := m.entries.Get(eid)
	if !ok {
		return Addresses{}, serrors.JoinNoStack(ErrUnknownEntry, nil, "entry", eid)
	}
	a := Addresses{
		SIR:     e.SIRAddress(),
		Locator: e.LocatorAddress(),
	}
	if e.Mode == ila.ModeNeutralMap {
		a.Modifier = e.Modifier
	}
	return a, nil
}

// Adjacencies lists the adjacencies of the forwarding table.
func (m *Manager) Adjacencies() []fib.AdjacencyInfo {
	return m.table.Adjacencies()
}
