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

package kernel_test

import (
	"errors"
	"net"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/router/fib"
	"github.com/ilarouter/ila/router/fib/kernel"
	"github.com/ilarouter/ila/router/fib/kernel/mock_kernel"
)

func newMirror(t *testing.T, ctrl *gomock.Controller) (*kernel.Mirror, *mock_kernel.MockHandle) {
	h := mock_kernel.NewMockHandle(ctrl)
	h.EXPECT().LinkByName("ila0").Return(
		&netlink.Tuntap{LinkAttrs: netlink.LinkAttrs{Name: "ila0", Index: 7}}, nil)
	m, err := kernel.New(h, "ila0")
	require.NoError(t, err)
	return m, h
}

func TestMirror(t *testing.T) {
	dst := ila.AddressFrom(0xAAAA000000000001, 0x1011223344556789)
	matchRoute := func(r *netlink.Route) bool {
		ones, bits := r.Dst.Mask.Size()
		return r.LinkIndex == 7 && ones == 128 && bits == 128 &&
			r.Dst.IP.Equal(net.IP(dst[:]))
	}

	t.Run("redirect routes are mirrored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m, h := newMirror(t, ctrl)
		h.EXPECT().RouteReplace(gomock.Any()).DoAndReturn(func(r *netlink.Route) error {
			assert.True(t, matchRoute(r))
			return nil
		})
		h.EXPECT().RouteDel(gomock.Any()).DoAndReturn(func(r *netlink.Route) error {
			assert.True(t, matchRoute(r))
			return nil
		})
		require.NoError(t, m.HostRouteAdded(dst, 1, fib.ILARedirect{}))
		require.NoError(t, m.HostRouteRemoved(dst, 1, fib.ILARedirect{}))
	})
	t.Run("other adjacencies are ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m, _ := newMirror(t, ctrl)
		assert.NoError(t, m.HostRouteAdded(dst, 1, fib.LocalAdjacency{}))
		assert.NoError(t, m.HostRouteRemoved(dst, 1, fib.RewriteAdjacency{}))
	})
	t.Run("netlink errors are returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m, h := newMirror(t, ctrl)
		h.EXPECT().RouteReplace(gomock.Any()).Return(errors.New("EPERM"))
		assert.Error(t, m.HostRouteAdded(dst, 1, fib.ILARedirect{}))
	})
}

func TestNewUnknownDevice(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mock_kernel.NewMockHandle(ctrl)
	h.EXPECT().LinkByName("nope").Return(nil, errors.New("Link not found"))
	_, err := kernel.New(h, "nope")
	assert.Error(t, err)
}
