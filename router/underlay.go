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

// This module defines the interfaces between the router and the underlay implementations.

package router

import (
	"context"
	"sort"
	"sync"
)

// Link is the router's view of a network interface. Packets handed to Send
// belong to the link until it returns them to the packet pool.
type Link interface {
	IfID() uint16
	Name() string
	// Send queues the packet for transmission. It returns false if the
	// packet could not be queued, in which case the caller keeps ownership.
	Send(p *Packet) bool
}

// UnderlayProvider provides links over some underlay implementation.
type UnderlayProvider interface {
	// NumConnections returns the current number of configured links.
	NumConnections() int

	// Start puts the provider in the running state. In that state, the provider delivers
	// incoming packets to the processor queues and transmits packets sent to its links. Only
	// links in existence at the time of calling Start are started.
	Start(ctx context.Context, pool PacketPool, procQs []chan *Packet)

	// Stop puts the provider in the stopped state. The provider no longer delivers incoming
	// packets and all its goroutines have exited when Stop returns.
	Stop()

	// NewLink returns a link attached to the given underlay device. Incoming packets are
	// marked with ifID as their ingress.
	NewLink(name, device string, ifID uint16, qSize int, metrics *InterfaceMetrics) (Link, error)
}

// ProviderFactory creates independent instances of an underlay provider.
type ProviderFactory interface {
	New(batchSize int) UnderlayProvider
}

var (
	underlaysMtx sync.Mutex
	underlays    = map[string]ProviderFactory{}
)

// AddUnderlay registers an underlay implementation under the given name. Implementations
// register themselves from an init function.
func AddUnderlay(name string, factory ProviderFactory) {
	underlaysMtx.Lock()
	defer underlaysMtx.Unlock()
	underlays[name] = factory
}

func newUnderlay(name string, batchSize int) (UnderlayProvider, bool) {
	underlaysMtx.Lock()
	defer underlaysMtx.Unlock()
	f, ok := underlays[name]
	if !ok {
		return nil, false
	}
	return f.New(batchSize), true
}

// Underlays returns the names of the registered underlays.
func Underlays() []string {
	underlaysMtx.Lock()
	defer underlaysMtx.Unlock()
	r := make([]string, 0, len(underlays))
	for name := range underlays {
		r = append(r, name)
	}
	sort.Strings(r)
	return r
}
