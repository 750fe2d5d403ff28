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

package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilarouter/ila/ilactl/client"
	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/router/control"
	"github.com/ilarouter/ila/router/fib"
	"github.com/ilarouter/ila/router/mgmtapi"
	"github.com/ilarouter/ila/router/mgmtapi/mock_mgmtapi"
	"github.com/ilarouter/ila/router/store"
)

var (
	testID      = ila.MustParseHalf("0011:2233:4455:6677")
	testLocator = ila.MustParseHalf("aaaa:0000:0000:0001")
	testSIR     = ila.MustParseHalf("bbbb:0000:0000:0002")
)

func newTestClient(t *testing.T) (*client.Client, *mock_mgmtapi.MockManager,
	*mock_mgmtapi.MockTracer) {

	ctrl := gomock.NewController(t)
	m := mock_mgmtapi.NewMockManager(ctrl)
	tr := mock_mgmtapi.NewMockTracer(ctrl)
	h := mgmtapi.HandlerFromMuxWithBaseURL(&mgmtapi.Server{Manager: m, Tracer: tr},
		chi.NewRouter(), "/api/v1")
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := client.New(srv.URL+"/api/v1/", srv.Client())
	require.NoError(t, err)
	return c, m, tr
}

func TestNew(t *testing.T) {
	_, err := client.New(client.DefaultBaseURL, nil)
	assert.NoError(t, err)
	_, err = client.New("unix:///run/ila.sock", nil)
	assert.Error(t, err)
	_, err = client.New("http://[::1", nil)
	assert.Error(t, err)
}

func TestEntries(t *testing.T) {
	c, m, _ := newTestClient(t)
	m.EXPECT().Entries().Return([]store.IndexedEntry{
		{ID: 2, Entry: store.Entry{
			Identifier: testID,
			Locator:    testLocator,
			SIRPrefix:  testSIR,
			Mode:       ila.ModeNeutralMap,
			LocalAdj:   5,
		}},
	})
	entries, err := c.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(2), entries[0].Index)
	assert.Equal(t, testID, entries[0].Identifier)
	assert.Equal(t, ila.ModeNeutralMap, entries[0].CsumMode)
	require.NotNil(t, entries[0].AdjacencyIndex)
	assert.Equal(t, uint32(5), *entries[0].AdjacencyIndex)
}

func TestAddEntry(t *testing.T) {
	c, m, _ := newTestClient(t)
	m.EXPECT().AddDelEntry(control.EntryArgs{
		Identifier: testID,
		Locator:    testLocator,
		SIRPrefix:  testSIR,
		LocalAdj:   fib.AdjNil,
	}).Return(store.EntryID(7), nil)

	e, err := c.AddEntry(context.Background(), mgmtapi.EntryRequest{
		Identifier: testID,
		Locator:    testLocator,
		SIRPrefix:  testSIR,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(7), e.Index)
	assert.Nil(t, e.AdjacencyIndex)
}

func TestAddEntryProblem(t *testing.T) {
	c, m, _ := newTestClient(t)
	m.EXPECT().AddDelEntry(gomock.Any()).Return(store.NoEntry, store.ErrDuplicateIdentifier)

	_, err := c.AddEntry(context.Background(), mgmtapi.EntryRequest{Identifier: testID})
	var p *client.ProblemError
	require.ErrorAs(t, err, &p)
	assert.Equal(t, http.StatusConflict, p.Status)
	assert.Equal(t, "unable to add entry", p.Title)
	assert.Contains(t, err.Error(), "status 409")
}

func TestDeleteEntry(t *testing.T) {
	c, m, _ := newTestClient(t)
	m.EXPECT().AddDelEntry(control.EntryArgs{Identifier: testID, IsDelete: true}).
		Return(store.EntryID(1), nil)
	assert.NoError(t, c.DeleteEntry(context.Background(), testID))

	m.EXPECT().AddDelEntry(gomock.Any()).Return(store.NoEntry, store.ErrUnknownIdentifier)
	err := c.DeleteEntry(context.Background(), testID)
	var p *client.ProblemError
	require.ErrorAs(t, err, &p)
	assert.Equal(t, http.StatusNotFound, p.Status)
}

func TestEntryAddresses(t *testing.T) {
	c, m, _ := newTestClient(t)
	sir := ila.AddressFrom(testSIR, testID)
	loc := ila.AddressFrom(testLocator, testID)
	m.EXPECT().Addresses(store.EntryID(3)).Return(control.Addresses{
		SIR:      sir,
		Locator:  loc,
		Modifier: ila.NewModifier(testLocator, testSIR),
	}, nil)

	a, err := c.EntryAddresses(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), a.Index)
	assert.Equal(t, sir.String(), a.SIR)
	assert.Equal(t, loc.String(), a.Locator)
	assert.Equal(t, "0x0112", a.ChecksumModifier)
}

func TestInterfaceILA(t *testing.T) {
	c, m, _ := newTestClient(t)
	ctx := context.Background()

	m.EXPECT().EnableInterface("eth0").Return(nil)
	require.NoError(t, c.SetInterfaceILA(ctx, "eth0", true))
	m.EXPECT().DisableInterface("eth0").Return(nil)
	require.NoError(t, c.SetInterfaceILA(ctx, "eth0", false))

	m.EXPECT().InterfaceEnabled("eth0").Return(true, nil)
	st, err := c.InterfaceILA(ctx, "eth0")
	require.NoError(t, err)
	assert.Equal(t, mgmtapi.InterfaceState{Name: "eth0", ILAEnabled: true}, st)

	m.EXPECT().EnableInterface("eth9").Return(control.ErrUnknownInterface)
	err = c.SetInterfaceILA(ctx, "eth9", true)
	var p *client.ProblemError
	require.ErrorAs(t, err, &p)
	assert.Equal(t, http.StatusNotFound, p.Status)
}

func TestTrace(t *testing.T) {
	c, _, tr := newTestClient(t)
	ctx := context.Background()

	tr.EXPECT().Add(4)
	require.NoError(t, c.AddTrace(ctx, 4))

	tr.EXPECT().Records().Return(nil)
	tr.EXPECT().Pending().Return(4)
	rep, err := c.Trace(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Pending)
	assert.Empty(t, rep.Records)

	tr.EXPECT().Clear()
	require.NoError(t, c.ClearTrace(ctx))

	err = c.AddTrace(ctx, 0)
	var p *client.ProblemError
	require.ErrorAs(t, err, &p)
	assert.Equal(t, http.StatusBadRequest, p.Status)
}

func TestRequestFailedWithoutProblem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	}))
	defer srv.Close()
	c, err := client.New(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = c.Adjacencies(context.Background())
	assert.ErrorIs(t, err, client.ErrRequestFailed)
	assert.Contains(t, err.Error(), "gateway down")
}
