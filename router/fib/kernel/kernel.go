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

// Package kernel mirrors ILA host routes into the host kernel's routing
// table, so that locator addressed traffic arriving at the host is steered
// into the device the ILA router reads from.
package kernel

import (
	"net"

	"github.com/vishvananda/netlink"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/pkg/log"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/router/fib"
)

// routeProtocol marks the routes owned by the mirror. The value is taken
// from the range that is not assigned in rtnetlink.
const routeProtocol netlink.RouteProtocol = 0x49

// Handle is the subset of a netlink handle used by the mirror.
type Handle interface {
	LinkByName(name string) (netlink.Link, error)
	RouteReplace(route *netlink.Route) error
	RouteDel(route *netlink.Route) error
}

// Mirror is a fib.Observer installing a kernel route for every ILA
// redirect host route.
type Mirror struct {
	handle    Handle
	linkIndex int
	device    string
}

// New creates a mirror that points routes at device.
func New(h Handle, device string) (*Mirror, error) {
	link, err := h.LinkByName(device)
	if err != nil {
		return nil, serrors.Wrap("looking up device", err, "device", device)
	}
	return &Mirror{
		handle:    h,
		linkIndex: link.Attrs().Index,
		device:    device,
	}, nil
}

// Open creates a mirror on a new netlink handle in the current network
// namespace.
func Open(device string) (*Mirror, error) {
	h, err := netlink.NewHandle()
	if err != nil {
		return nil, serrors.Wrap("opening netlink handle", err)
	}
	return New(h, device)
}

func (m *Mirror) route(dst ila.Address) *netlink.Route {
	return &netlink.Route{
		LinkIndex: m.linkIndex,
		Dst: &net.IPNet{
			IP:   net.IP(dst[:]),
			Mask: net.CIDRMask(128, 128),
		},
		Protocol: routeProtocol,
	}
}

// HostRouteAdded implements fib.Observer.
func (m *Mirror) HostRouteAdded(dst ila.Address, _ fib.AdjIndex, adj fib.Adjacency) error {
	if adj.Next() != fib.LookupILA {
		return nil
	}
	if err := m.handle.RouteReplace(m.route(dst)); err != nil {
		return serrors.Wrap("installing kernel route", err, "dst", dst, "device", m.device)
	}
	log.Debug("Kernel route installed", "dst", dst, "device", m.device)
	return nil
}

// HostRouteRemoved implements fib.Observer.
func (m *Mirror) HostRouteRemoved(dst ila.Address, _ fib.AdjIndex, adj fib.Adjacency) error {
	if adj.Next() != fib.LookupILA {
		return nil
	}
	if err := m.handle.RouteDel(m.route(dst)); err != nil {
		return serrors.Wrap("removing kernel route", err, "dst", dst, "device", m.device)
	}
	return nil
}
