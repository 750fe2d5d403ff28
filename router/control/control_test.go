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

package control_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/router/control"
	"github.com/ilarouter/ila/router/control/mock_control"
	"github.com/ilarouter/ila/router/feature"
	"github.com/ilarouter/ila/router/fib"
	"github.com/ilarouter/ila/router/fib/mock_fib"
	"github.com/ilarouter/ila/router/store"
)

var (
	testID      = ila.MustParseHalf("0011:2233:4455:6677")
	testLocator = ila.MustParseHalf("aaaa:0000:0000:0001")
	testSIR     = ila.MustParseHalf("bbbb:0000:0000:0002")
)

type testEnv struct {
	m       *control.Manager
	dp      *mock_control.MockDataplane
	entries *store.Store
	table   *fib.Table
	chains  *feature.Chains
	step    feature.StepID
	// localAdj is a pinned local adjacency on interface 1.
	localAdj fib.AdjIndex
}

func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)
	env := &testEnv{
		dp:      mock_control.NewMockDataplane(ctrl),
		entries: store.New(store.Config{Buckets: 16, MemorySize: 1 << 16}),
		table:   fib.New(fib.Config{MaxAdjacencies: 64}),
		chains:  feature.New(),
	}
	var err error
	env.step, err = env.chains.Register("ila-sir2ila", feature.Lookup)
	require.NoError(t, err)
	env.localAdj, err = env.table.AddAdjacency(fib.LocalAdjacency{Interface: 1})
	require.NoError(t, err)
	env.dp.EXPECT().SIR2ILAStep().Return(env.step).AnyTimes()
	env.m = control.NewManager(env.dp, env.entries, env.table, env.chains)
	return env
}

func entryArgs(mode ila.ChecksumMode, adj fib.AdjIndex) control.EntryArgs {
	return control.EntryArgs{
		Identifier: testID,
		Locator:    testLocator,
		SIRPrefix:  testSIR,
		Mode:       mode,
		LocalAdj:   adj,
	}
}

func TestAddDelEntry(t *testing.T) {
	env := newTestEnv(t)

	eid, err := env.m.AddDelEntry(entryArgs(ila.ModeNoAction, fib.AdjNil))
	require.NoError(t, err)
	got, ok := env.entries.Lookup(testID)
	require.True(t, ok)
	assert.Equal(t, eid, got)
	assert.Zero(t, env.table.NumHostRoutes())

	_, err = env.m.AddDelEntry(entryArgs(ila.ModeNeutralMap, fib.AdjNil))
	assert.ErrorIs(t, err, store.ErrDuplicateIdentifier)
	require.Len(t, env.m.Entries(), 1)
	assert.Equal(t, ila.ModeNoAction, env.m.Entries()[0].Mode)

	args := control.EntryArgs{Identifier: testID, IsDelete: true}
	deleted, err := env.m.AddDelEntry(args)
	require.NoError(t, err)
	assert.Equal(t, eid, deleted)
	assert.Empty(t, env.m.Entries())

	_, err = env.m.AddDelEntry(args)
	assert.ErrorIs(t, err, store.ErrUnknownIdentifier)
}

func TestAddEntryUnsupportedMode(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.m.AddEntry(entryArgs(ila.ModeAdjustTransport, env.localAdj))
	assert.ErrorIs(t, err, store.ErrUnsupportedMode)
	assert.Zero(t, env.entries.Len())
	assert.Zero(t, env.table.NumHostRoutes())
}

func TestAddEntryFlaggedIdentifier(t *testing.T) {
	env := newTestEnv(t)
	args := entryArgs(ila.ModeNeutralMap, env.localAdj)
	args.Identifier = ila.MustParseHalf("1011:2233:4455:6677")
	_, err := env.m.AddEntry(args)
	assert.ErrorIs(t, err, store.ErrInvalidIdentifier)
	assert.Zero(t, env.entries.Len())
	assert.Zero(t, env.table.NumHostRoutes())
}

func TestAddLocalEntryBindsRoute(t *testing.T) {
	env := newTestEnv(t)
	numAdjs := len(env.table.Adjacencies())

	eid, err := env.m.AddEntry(entryArgs(ila.ModeNeutralMap, env.localAdj))
	require.NoError(t, err)
	e, ok := env.entries.Get(eid)
	require.True(t, ok)

	dst := e.LocatorAddress()
	assert.Equal(t, ila.AddressFrom(testLocator, ila.MustParseHalf("1011:2233:4455:6789")), dst)
	idx, ok := env.table.HostRoute(dst)
	require.True(t, ok)
	adj, ok := env.table.Adjacency(idx)
	require.True(t, ok)
	assert.Equal(t, fib.ILARedirect{Entry: uint32(eid), Gen: e.Gen}, adj)
	assert.Equal(t, 1, env.table.NumHostRoutes())
	assert.Len(t, env.table.Adjacencies(), numAdjs+1)

	_, err = env.m.DelEntry(testID)
	require.NoError(t, err)
	_, ok = env.table.HostRoute(dst)
	assert.False(t, ok)
	assert.Zero(t, env.table.NumHostRoutes())
	assert.Len(t, env.table.Adjacencies(), numAdjs)
}

func TestAddEntryRouteInstallFailed(t *testing.T) {
	env := newTestEnv(t)
	numAdjs := len(env.table.Adjacencies())
	obs := mock_fib.NewMockObserver(gomock.NewController(t))
	obs.EXPECT().HostRouteAdded(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("netlink failed"))
	env.table.AddObserver(obs)

	_, err := env.m.AddEntry(entryArgs(ila.ModeNoAction, env.localAdj))
	assert.ErrorIs(t, err, control.ErrRouteInstallFailed)
	assert.ErrorIs(t, err, fib.ErrObserver)
	_, ok := env.entries.Lookup(testID)
	assert.False(t, ok)
	assert.Zero(t, env.table.NumHostRoutes())
	assert.Len(t, env.table.Adjacencies(), numAdjs)
}

func TestAddEntryInvalidAdjacency(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.m.AddEntry(entryArgs(ila.ModeNoAction, fib.AdjIndex(42)))
	assert.ErrorIs(t, err, fib.ErrUnknownAdjacency)

	redirect, err := env.table.NewAdjacency(fib.ILARedirect{})
	require.NoError(t, err)
	_, err = env.m.AddEntry(entryArgs(ila.ModeNoAction, redirect))
	assert.ErrorIs(t, err, control.ErrInvalidAdjacency)
	assert.Zero(t, env.entries.Len())
}

func TestDelEntryRouteGone(t *testing.T) {
	env := newTestEnv(t)
	eid, err := env.m.AddEntry(entryArgs(ila.ModeNoAction, env.localAdj))
	require.NoError(t, err)
	e, _ := env.entries.Get(eid)
	require.NoError(t, env.table.RemoveHostRoute(e.LocatorAddress()))

	_, err = env.m.DelEntry(testID)
	assert.NoError(t, err)
	assert.Zero(t, env.entries.Len())
}

func TestSlotReuseBumpsGeneration(t *testing.T) {
	env := newTestEnv(t)
	eid, err := env.m.AddEntry(entryArgs(ila.ModeNoAction, env.localAdj))
	require.NoError(t, err)
	first, _ := env.entries.Get(eid)
	gen := first.Gen
	_, err = env.m.DelEntry(testID)
	require.NoError(t, err)

	eid2, err := env.m.AddEntry(entryArgs(ila.ModeNoAction, env.localAdj))
	require.NoError(t, err)
	assert.Equal(t, eid, eid2)
	second, _ := env.entries.Get(eid2)
	assert.NotEqual(t, gen, second.Gen)
	idx, ok := env.table.HostRoute(second.LocatorAddress())
	require.True(t, ok)
	adj, _ := env.table.Adjacency(idx)
	assert.Equal(t, fib.ILARedirect{Entry: uint32(eid2), Gen: second.Gen}, adj)
}

func TestEnableDisableInterface(t *testing.T) {
	env := newTestEnv(t)
	env.dp.EXPECT().InterfaceID("host0").Return(uint16(1), true).AnyTimes()
	env.dp.EXPECT().InterfaceID("bogus").Return(uint16(0), false).AnyTimes()

	require.NoError(t, env.m.EnableInterface("host0"))
	require.NoError(t, env.m.EnableInterface("host0"))
	assert.True(t, env.chains.Has(1, env.step))
	assert.Equal(t, []string{"ila-sir2ila", feature.Lookup}, env.chains.Names(1))
	enabled, err := env.m.InterfaceEnabled("host0")
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, env.m.DisableInterface("host0"))
	require.NoError(t, env.m.DisableInterface("host0"))
	assert.False(t, env.chains.Has(1, env.step))
	assert.Equal(t, []string{feature.Lookup}, env.chains.Names(1))

	assert.ErrorIs(t, env.m.EnableInterface("bogus"), control.ErrUnknownInterface)
	assert.ErrorIs(t, env.m.DisableInterface("bogus"), control.ErrUnknownInterface)
	_, err = env.m.InterfaceEnabled("bogus")
	assert.ErrorIs(t, err, control.ErrUnknownInterface)
}

func TestAddresses(t *testing.T) {
	testCases := map[string]struct {
		mode         ila.ChecksumMode
		wantLocator  ila.Address
		wantModifier ila.Modifier
	}{
		"no action": {
			mode:        ila.ModeNoAction,
			wantLocator: ila.AddressFrom(testLocator, testID),
		},
		"neutral map": {
			mode:         ila.ModeNeutralMap,
			wantLocator:  ila.AddressFrom(testLocator, ila.MustParseHalf("1011:2233:4455:6789")),
			wantModifier: 0x0112,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			eid, err := env.m.AddEntry(entryArgs(tc.mode, fib.AdjNil))
			require.NoError(t, err)

			a, err := env.m.Addresses(eid)
			require.NoError(t, err)
			assert.Equal(t, ila.AddressFrom(testSIR, testID), a.SIR)
			assert.Equal(t, tc.wantLocator, a.Locator)
			assert.Equal(t, tc.wantModifier, a.Modifier)
		})
	}
}

func TestAddressesUnknownEntry(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.m.Addresses(store.EntryID(7))
	assert.ErrorIs(t, err, control.ErrUnknownEntry)
}
