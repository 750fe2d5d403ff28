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

package router_test

import (
	"context"
	"net"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/router"
	"github.com/ilarouter/ila/router/feature"
	"github.com/ilarouter/ila/router/fib"
	"github.com/ilarouter/ila/router/store"
)

const (
	testLocator = ila.Half(0xAAAA000000000001)
	testSIR     = ila.Half(0xBBBB000000000002)
	testID      = ila.Half(0x0011223344556677)

	hostIf   = uint16(1)
	uplinkIf = uint16(2)
)

// fakeLink records the packets sent to it.
type fakeLink struct {
	ifID uint16
	name string
	sent chan []byte

	mtx  sync.Mutex
	pool *router.PacketPool
}

func (l *fakeLink) IfID() uint16 { return l.ifID }
func (l *fakeLink) Name() string { return l.name }

func (l *fakeLink) Send(p *router.Packet) bool {
	select {
	case l.sent <- append([]byte(nil), p.RawPacket...):
	default:
		return false
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.pool != nil {
		l.pool.Put(p)
	}
	return true
}

// fakeProvider hands the processor queues to the test instead of reading from devices.
type fakeProvider struct {
	mtx     sync.Mutex
	links   []*fakeLink
	pool    router.PacketPool
	procQs  []chan *router.Packet
	started bool
}

func (p *fakeProvider) NumConnections() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.links)
}

func (p *fakeProvider) Start(ctx context.Context, pool router.PacketPool,
	procQs []chan *router.Packet) {

	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.pool = pool
	p.procQs = procQs
	p.started = true
	for _, l := range p.links {
		l.mtx.Lock()
		l.pool = &p.pool
		l.mtx.Unlock()
	}
}

func (p *fakeProvider) Stop() {}

func (p *fakeProvider) NewLink(name, device string, ifID uint16, qSize int,
	metrics *router.InterfaceMetrics) (router.Link, error) {

	p.mtx.Lock()
	defer p.mtx.Unlock()
	l := &fakeLink{ifID: ifID, name: name, sent: make(chan []byte, 64)}
	p.links = append(p.links, l)
	return l, nil
}

func (p *fakeProvider) link(ifID uint16) *fakeLink {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	for _, l := range p.links {
		if l.ifID == ifID {
			return l
		}
	}
	return nil
}

func (p *fakeProvider) queues() (router.PacketPool, []chan *router.Packet, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.pool, p.procQs, p.started
}

type fakeFactory struct {
	provider *fakeProvider
}

func (f fakeFactory) New(batchSize int) router.UnderlayProvider {
	return f.provider
}

type testEnv struct {
	dp       *router.DataPlane
	provider *fakeProvider
	entries  *store.Store
	table    *fib.Table
	chains   *feature.Chains
	host     fib.AdjIndex
	uplink   fib.AdjIndex
}

// newTestEnv creates a data plane with a host interface and an uplink interface, each with a
// pinned adjacency. No route is installed.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		provider: &fakeProvider{},
		entries:  store.New(store.Config{Buckets: 16, MemorySize: 1 << 16}),
		table:    fib.New(fib.Config{}),
		chains:   feature.New(),
	}
	router.AddUnderlay(t.Name(), fakeFactory{provider: e.provider})
	dp, err := router.NewDataPlane(
		router.RunConfig{NumProcessors: 1, BatchSize: 16, Underlay: t.Name()},
		e.entries, e.table, e.chains,
	)
	require.NoError(t, err)
	e.dp = dp
	require.NoError(t, dp.AddInterface(hostIf, "host0", "ila0"))
	require.NoError(t, dp.AddInterface(uplinkIf, "uplink0", "eth0"))

	e.host, err = e.table.AddAdjacency(fib.LocalAdjacency{Interface: hostIf})
	require.NoError(t, err)
	e.uplink, err = e.table.AddAdjacency(fib.RewriteAdjacency{
		Interface: uplinkIf,
		NextHop:   netip.MustParseAddr("fe80::1"),
	})
	require.NoError(t, err)
	return e
}

func (e *testEnv) defaultRoute(t *testing.T) {
	require.NoError(t, e.table.AddRoute(netip.MustParsePrefix("::/0"), e.uplink))
}

func (e *testEnv) enableSIR2ILA(t *testing.T, ifID uint16) {
	_, err := e.chains.AddStep(ifID, e.dp.SIR2ILAStep())
	require.NoError(t, err)
}

// bind adds a redirect host route for the entry, like the control plane does.
func (e *testEnv) bind(t *testing.T, eid store.EntryID, gen uint32) {
	entry, ok := e.entries.Get(eid)
	require.True(t, ok)
	idx, err := e.table.NewAdjacency(fib.ILARedirect{Entry: uint32(eid), Gen: gen})
	require.NoError(t, err)
	_, err = e.table.InstallHostRoute(entry.LocatorAddress(), idx)
	require.NoError(t, err)
}

func (e *testEnv) addEntry(t *testing.T, mode ila.ChecksumMode, localAdj fib.AdjIndex) store.EntryID {
	eid, err := e.entries.Add(testID, testLocator, testSIR, mode, localAdj)
	require.NoError(t, err)
	return eid
}

// udpPacket builds a UDP over IPv6 packet with a valid checksum.
func udpPacket(t *testing.T, dst ila.Address, hopLimit uint8) []byte {
	t.Helper()
	ip := &layers.IPv6{
		Version:    6,
		NextHeader: layers.IPProtocolUDP,
		HopLimit:   hopLimit,
		SrcIP:      net.ParseIP("2001:db8::10"),
		DstIP:      net.IP(dst[:]),
	}
	udp := &layers.UDP{SrcPort: 5353, DstPort: 53}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ip, udp, gopacket.Payload("query")))
	return buf.Bytes()
}

// udpChecksumValid recomputes the UDP checksum of raw and compares it with the one carried.
func udpChecksumValid(t *testing.T, raw []byte) bool {
	t.Helper()
	pkt := gopacket.NewPacket(raw, layers.LayerTypeIPv6, gopacket.Default)
	ip, ok := pkt.Layer(layers.LayerTypeIPv6).(*layers.IPv6)
	require.True(t, ok)
	udp, ok := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	require.True(t, ok)
	carried := udp.Checksum

	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ip, udp, gopacket.Payload(udp.Payload)))
	re := gopacket.NewPacket(buf.Bytes(), layers.LayerTypeIPv6, gopacket.Default)
	return re.Layer(layers.LayerTypeUDP).(*layers.UDP).Checksum == carried
}

func dstOf(raw []byte) ila.Address {
	return ila.Address(raw[24:40])
}

func receive(t *testing.T, l *fakeLink) []byte {
	t.Helper()
	select {
	case raw := <-l.sent:
		return raw
	case <-time.After(time.Second):
		require.FailNow(t, "no packet sent", "link", l.name)
		return nil
	}
}

func TestNewDataPlane(t *testing.T) {
	t.Run("unknown underlay", func(t *testing.T) {
		_, err := router.NewDataPlane(router.RunConfig{Underlay: "nope"},
			store.New(store.Config{}), fib.New(fib.Config{}), feature.New())
		assert.Error(t, err)
	})
	t.Run("shared feature registry", func(t *testing.T) {
		chains := feature.New()
		router.AddUnderlay(t.Name(), fakeFactory{provider: &fakeProvider{}})
		cfg := router.RunConfig{Underlay: t.Name()}
		dp1, err := router.NewDataPlane(cfg, store.New(store.Config{}), fib.New(fib.Config{}),
			chains)
		require.NoError(t, err)
		dp2, err := router.NewDataPlane(cfg, store.New(store.Config{}), fib.New(fib.Config{}),
			chains)
		require.NoError(t, err)
		assert.Equal(t, dp1.SIR2ILAStep(), dp2.SIR2ILAStep())
		assert.Equal(t, router.SIR2ILAStepName, chains.Name(dp1.SIR2ILAStep()))
	})
}

func TestDataPlaneAddInterface(t *testing.T) {
	e := newTestEnv(t)

	assert.Error(t, e.dp.AddInterface(hostIf, "other", "ila9"), "duplicate id")
	assert.Error(t, e.dp.AddInterface(3, "host0", "ila9"), "duplicate name")
	assert.Error(t, e.dp.AddInterface(3, "", "ila9"), "empty name")

	id, ok := e.dp.InterfaceID("uplink0")
	assert.True(t, ok)
	assert.Equal(t, uplinkIf, id)
	_, ok = e.dp.InterfaceID("nope")
	assert.False(t, ok)
	assert.ElementsMatch(t, []router.InterfaceInfo{
		{ID: hostIf, Name: "host0", Device: "ila0"},
		{ID: uplinkIf, Name: "uplink0", Device: "eth0"},
	}, e.dp.Interfaces())

	e.dp.FakeStart()
	assert.Error(t, e.dp.AddInterface(3, "late", "ila3"), "running")
}

func TestProcessPkts(t *testing.T) {
	sirAddr := ila.AddressFrom(testSIR, testID)
	plainLocAddr := ila.AddressFrom(testLocator, testID)
	// The identifier of the locator form carries the checksum adjustment and the flag bit.
	neutralLocAddr := ila.AddressFrom(testLocator, ila.Half(0x1011223344556789))

	testCases := map[string]struct {
		prepare func(t *testing.T, e *testEnv)
		raw     func(t *testing.T) []byte
		ingress uint16

		// egress is the interface the packet must leave from. Zero means it is dropped.
		egress       uint16
		wantDst      ila.Address
		wantHopLimit uint8

		// checksumValid is set if the transport checksum must still match the address.
		checksumValid bool

		dropNode   string
		dropReason string
	}{
		"sir2ila no-action": {
			prepare: func(t *testing.T, e *testEnv) {
				e.defaultRoute(t)
				e.enableSIR2ILA(t, hostIf)
				e.addEntry(t, ila.ModeNoAction, fib.AdjNil)
			},
			raw:          func(t *testing.T) []byte { return udpPacket(t, sirAddr, 64) },
			ingress:      hostIf,
			egress:       uplinkIf,
			wantDst:      plainLocAddr,
			wantHopLimit: 63,
		},
		"sir2ila neutral-map": {
			prepare: func(t *testing.T, e *testEnv) {
				e.defaultRoute(t)
				e.enableSIR2ILA(t, hostIf)
				e.addEntry(t, ila.ModeNeutralMap, fib.AdjNil)
			},
			raw:           func(t *testing.T) []byte { return udpPacket(t, sirAddr, 64) },
			ingress:       hostIf,
			egress:        uplinkIf,
			wantDst:       neutralLocAddr,
			wantHopLimit:  63,
			checksumValid: true,
		},
		"sir2ila miss": {
			prepare: func(t *testing.T, e *testEnv) {
				e.defaultRoute(t)
				e.enableSIR2ILA(t, hostIf)
			},
			raw:           func(t *testing.T) []byte { return udpPacket(t, sirAddr, 64) },
			ingress:       hostIf,
			egress:        uplinkIf,
			wantDst:       sirAddr,
			wantHopLimit:  63,
			checksumValid: true,
		},
		"sir2ila not enabled on ingress": {
			prepare: func(t *testing.T, e *testEnv) {
				e.defaultRoute(t)
				e.enableSIR2ILA(t, uplinkIf)
				e.addEntry(t, ila.ModeNoAction, fib.AdjNil)
			},
			raw:           func(t *testing.T) []byte { return udpPacket(t, sirAddr, 64) },
			ingress:       hostIf,
			egress:        uplinkIf,
			wantDst:       sirAddr,
			wantHopLimit:  63,
			checksumValid: true,
		},
		"ila2sir to local": {
			prepare: func(t *testing.T, e *testEnv) {
				e.defaultRoute(t)
				eid := e.addEntry(t, ila.ModeNeutralMap, e.host)
				entry, _ := e.entries.Get(eid)
				e.bind(t, eid, entry.Gen)
			},
			raw:           func(t *testing.T) []byte { return udpPacket(t, neutralLocAddr, 64) },
			ingress:       uplinkIf,
			egress:        hostIf,
			wantDst:       sirAddr,
			wantHopLimit:  64,
			checksumValid: true,
		},
		"ila2sir to rewrite": {
			prepare: func(t *testing.T, e *testEnv) {
				eid := e.addEntry(t, ila.ModeNoAction, e.uplink)
				entry, _ := e.entries.Get(eid)
				e.bind(t, eid, entry.Gen)
			},
			raw:          func(t *testing.T) []byte { return udpPacket(t, plainLocAddr, 64) },
			ingress:      hostIf,
			egress:       uplinkIf,
			wantDst:      sirAddr,
			wantHopLimit: 63,
		},
		"ila2sir stale redirect": {
			prepare: func(t *testing.T, e *testEnv) {
				eid := e.addEntry(t, ila.ModeNoAction, e.host)
				entry, _ := e.entries.Get(eid)
				e.bind(t, eid, entry.Gen+1)
			},
			raw:        func(t *testing.T) []byte { return udpPacket(t, plainLocAddr, 64) },
			ingress:    uplinkIf,
			dropNode:   "ila-ila2sir",
			dropReason: "stale_redirect",
		},
		"ila2sir unknown entry": {
			prepare: func(t *testing.T, e *testEnv) {
				idx, err := e.table.NewAdjacency(fib.ILARedirect{Entry: 99, Gen: 1})
				require.NoError(t, err)
				_, err = e.table.InstallHostRoute(plainLocAddr, idx)
				require.NoError(t, err)
			},
			raw:        func(t *testing.T) []byte { return udpPacket(t, plainLocAddr, 64) },
			ingress:    uplinkIf,
			dropNode:   "ila-ila2sir",
			dropReason: "resolution_miss",
		},
		"no route": {
			prepare:    func(t *testing.T, e *testEnv) {},
			raw:        func(t *testing.T) []byte { return udpPacket(t, sirAddr, 64) },
			ingress:    hostIf,
			dropNode:   "ip6-lookup",
			dropReason: "no_route",
		},
		"hop limit exceeded": {
			prepare:    func(t *testing.T, e *testEnv) { e.defaultRoute(t) },
			raw:        func(t *testing.T) []byte { return udpPacket(t, sirAddr, 1) },
			ingress:    hostIf,
			dropNode:   "ip6-rewrite",
			dropReason: "hop_limit",
		},
		"not ipv6": {
			prepare: func(t *testing.T, e *testEnv) { e.defaultRoute(t) },
			raw: func(t *testing.T) []byte {
				raw := make([]byte, 60)
				raw[0] = 0x45
				return raw
			},
			ingress:    hostIf,
			dropNode:   "ip6-input",
			dropReason: "invalid_packet",
		},
		"truncated": {
			prepare: func(t *testing.T, e *testEnv) { e.defaultRoute(t) },
			raw: func(t *testing.T) []byte {
				raw := udpPacket(t, sirAddr, 64)
				return raw[:len(raw)-2]
			},
			ingress:    hostIf,
			dropNode:   "ip6-input",
			dropReason: "invalid_packet",
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			e := newTestEnv(t)
			tc.prepare(t, e)
			e.dp.FakeStart()

			var dropsBefore float64
			if tc.dropReason != "" {
				dropsBefore = router.DropCount(tc.dropNode, tc.dropReason)
			}
			e.dp.ProcessPkts(tc.ingress, tc.raw(t))

			if tc.egress == 0 {
				assert.Equal(t, dropsBefore+1, router.DropCount(tc.dropNode, tc.dropReason))
				assert.Equal(t, 64, e.dp.PoolLen(), "dropped packet returns to the pool")
				for _, ifID := range []uint16{hostIf, uplinkIf} {
					assert.Empty(t, e.provider.link(ifID).sent)
				}
				return
			}
			raw := receive(t, e.provider.link(tc.egress))
			assert.Equal(t, tc.wantDst, dstOf(raw))
			assert.Equal(t, tc.wantHopLimit, raw[7])
			assert.Equal(t, tc.checksumValid, udpChecksumValid(t, raw), "transport checksum")
		})
	}
}

func TestProcessPktsVector(t *testing.T) {
	e := newTestEnv(t)
	e.defaultRoute(t)
	e.enableSIR2ILA(t, hostIf)
	e.addEntry(t, ila.ModeNoAction, fib.AdjNil)
	e.dp.FakeStart()

	validBefore := router.ValidCount("ila-sir2ila")
	other := ila.AddressFrom(testSIR, 0x0000000000000042)
	e.dp.ProcessPkts(hostIf,
		udpPacket(t, ila.AddressFrom(testSIR, testID), 64),
		udpPacket(t, other, 64),
		udpPacket(t, ila.AddressFrom(testSIR, testID), 64),
	)
	uplink := e.provider.link(uplinkIf)
	assert.Equal(t, ila.AddressFrom(testLocator, testID), dstOf(receive(t, uplink)))
	assert.Equal(t, other, dstOf(receive(t, uplink)))
	assert.Equal(t, ila.AddressFrom(testLocator, testID), dstOf(receive(t, uplink)))
	assert.Equal(t, validBefore+2, router.ValidCount("ila-sir2ila"))
}

func TestTrace(t *testing.T) {
	e := newTestEnv(t)
	e.defaultRoute(t)
	e.enableSIR2ILA(t, hostIf)
	require.Equal(t, store.EntryID(0), e.addEntry(t, ila.ModeNoAction, fib.AdjNil))
	e.dp.FakeStart()

	sirAddr := ila.AddressFrom(testSIR, testID)
	missAddr := ila.AddressFrom(testSIR, 0x0000000000000042)
	tracer := e.dp.Tracer()
	tracer.Add(2)
	assert.Equal(t, 2, tracer.Pending())
	e.dp.ProcessPkts(hostIf,
		udpPacket(t, sirAddr, 64),
		udpPacket(t, missAddr, 64),
		udpPacket(t, sirAddr, 64),
	)
	assert.Equal(t, 0, tracer.Pending())

	var sir2ila []string
	packets := map[uint64]bool{}
	for _, r := range tracer.Records() {
		packets[r.Packet] = true
		if r.Node == "ila-sir2ila" {
			sir2ila = append(sir2ila, r.Msg)
		}
	}
	assert.Len(t, packets, 2, "only armed packets are traced")
	assert.ElementsMatch(t, []string{
		"SIR -> ILA entry index: 0 initial_dst: " + sirAddr.String(),
		"SIR -> ILA entry index: -1 initial_dst: " + missAddr.String(),
	}, sir2ila)

	tracer.Clear()
	assert.Empty(t, tracer.Records())
}

func TestTracerBounded(t *testing.T) {
	tracer := router.NewTracer(2)
	assert.Empty(t, tracer.Records())
	tracer.Add(-1)
	assert.Equal(t, 0, tracer.Pending())
}

func TestProcessorID(t *testing.T) {
	a := udpPacket(t, ila.AddressFrom(testSIR, testID), 64)
	b := udpPacket(t, ila.AddressFrom(testLocator, testID), 64)
	for n := 1; n < 8; n++ {
		assert.Equal(t, router.ProcessorID(a, n), router.ProcessorID(b, n),
			"same identifier, same processor")
		assert.Less(t, router.ProcessorID(a, n), uint32(n))
	}
	assert.Equal(t, uint32(0), router.ProcessorID(a[:10], 4))
}

func TestDataPlaneRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := newTestEnv(t)
	e.defaultRoute(t)
	e.enableSIR2ILA(t, hostIf)
	e.addEntry(t, ila.ModeNeutralMap, fib.AdjNil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.dp.Run(ctx)
	}()

	var (
		pool   router.PacketPool
		procQs []chan *router.Packet
	)
	require.Eventually(t, func() bool {
		var started bool
		pool, procQs, started = e.provider.queues()
		return started
	}, time.Second, time.Millisecond)

	const count = 10
	for i := 0; i < count; i++ {
		raw := udpPacket(t, ila.AddressFrom(testSIR, testID), 64)
		pkt := pool.Get()
		pkt.RawPacket = pkt.RawPacket[:copy(pkt.RawPacket, raw)]
		pkt.Ingress = hostIf
		procQs[router.ProcessorID(raw, len(procQs))] <- pkt
	}
	uplink := e.provider.link(uplinkIf)
	for i := 0; i < count; i++ {
		raw := receive(t, uplink)
		dst := dstOf(raw)
		assert.Equal(t, testLocator, dst.Prefix())
		assert.True(t, udpChecksumValid(t, raw))
	}

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		require.FailNow(t, "Run did not return")
	}
}
