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

// Package tun implements the "tun" underlay: every link is a layer 3 TUN device carrying raw
// IPv6 packets. The host kernel steers locator form traffic into the devices with host routes
// (see router/fib/kernel).
package tun

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/ilarouter/ila/pkg/log"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/router"
)

var errDuplicateLink = errors.New("duplicate link")

// DeviceOpener opens the packet device of a link. Every Read must return exactly one packet
// and every Write must send exactly one.
type DeviceOpener interface {
	Open(device string) (io.ReadWriteCloser, error)
}

// provider implements router.UnderlayProvider by making and returning TUN links.
type provider struct {
	mu        sync.Mutex
	batchSize int
	opener    DeviceOpener
	links     map[uint16]*link
}

func init() {
	// Register ourselves as an underlay provider. The registration consists of a factory, not
	// a provider object, because multiple router instances each must have their own underlay
	// provider.
	router.AddUnderlay("tun", providerFactory{})
}

// Implement router.ProviderFactory
type providerFactory struct{}

// New instantiates a new instance of the provider for exclusive use by the caller.
func (providerFactory) New(batchSize int) router.UnderlayProvider {
	return &provider{
		batchSize: batchSize,
		opener:    waterOpener{},
		links:     make(map[uint16]*link),
	}
}

// SetDeviceOpener installs the given opener. opener must be an implementation of DeviceOpener
// or panic will ensue. Only for use in unit tests.
func SetDeviceOpener(u router.UnderlayProvider, opener any) {
	u.(*provider).opener = opener.(DeviceOpener)
}

func (u *provider) NumConnections() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.links)
}

// The queues to be used by the receiver task are supplied at this point because they must be
// sized according to the number of connections that will be started.
func (u *provider) Start(ctx context.Context, pool router.PacketPool,
	procQs []chan *router.Packet) {

	u.mu.Lock()
	if len(procQs) == 0 {
		// Pointless to run without any processor of incoming traffic
		u.mu.Unlock()
		return
	}
	linkSnapshot := slices.Collect(maps.Values(u.links))
	u.mu.Unlock()

	for _, l := range linkSnapshot {
		l.start(u.batchSize, pool, procQs)
	}
}

func (u *provider) Stop() {
	u.mu.Lock()
	linkSnapshot := slices.Collect(maps.Values(u.links))
	u.mu.Unlock()

	for _, l := range linkSnapshot {
		l.stop()
	}
}

func (u *provider) NewLink(
	name string,
	device string,
	ifID uint16,
	qSize int,
	metrics *router.InterfaceMetrics,
) (router.Link, error) {

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, exists := u.links[ifID]; exists {
		return nil, serrors.JoinNoStack(errDuplicateLink, nil, "ifID", ifID, "device", device)
	}
	dev, err := u.opener.Open(device)
	if err != nil {
		return nil, serrors.Wrap("opening device", err, "device", device)
	}
	l := newLink(name, device, ifID, dev, qSize, metrics)
	u.links[ifID] = l
	log.Debug("Created TUN link", "interface", name, "device", device, "ifID", ifID)
	return l, nil
}
