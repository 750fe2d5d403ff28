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

// Package router implements the ILA translation data plane. Packets read from the underlay
// links are processed in vectors by a fixed set of processor goroutines. Each vector flows once
// through a graph of nodes:
//
//	ip6-input -> [ila-sir2ila] -> ip6-lookup -> [ila-ila2sir] -> ip6-rewrite | ip6-local
//
// with every node able to divert a packet to error-drop. The ila-sir2ila node is only visited on
// interfaces that have it enabled in their feature chain; ila-ila2sir is only reached through
// an ILA redirect adjacency.
package router

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/pkg/log"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/router/feature"
	"github.com/ilarouter/ila/router/fib"
	"github.com/ilarouter/ila/router/store"
)

const (
	// bufSize is large enough for jumbo frames.
	bufSize = 9000

	// ipv6HdrLen is the length of the fixed IPv6 header.
	ipv6HdrLen = 40
	// dstOffset is the offset of the destination address in the IPv6 header.
	dstOffset = 24

	// SIR2ILAStepName is the name of the feature step translating SIR addresses to locators.
	SIR2ILAStepName = "ila-sir2ila"

	// defaultTraceLimit bounds the trace buffer.
	defaultTraceLimit = 1024
)

var (
	alreadySet        = errors.New("already set")
	modifyExisting    = errors.New("modifying a running dataplane is not allowed")
	unknownUnderlay   = errors.New("unknown underlay")
	invalidInterfaceN = errors.New("invalid interface name")

	theMetrics = NewMetrics() // There can be only one.
)

// Packet aggregates buffers and ancillary metadata related to one packet.
// That is everything we need to pass-around while processing a packet. The motivation is to save on
// copy (pass everything via one reference) AND garbage collection (reuse everything).
type Packet struct {
	// The useful part of the raw packet at a point in time (i.e. a slice of the full buffer).
	RawPacket []byte
	// The entire packet buffer. We don't need it as a slice; we know its size.
	buffer *[bufSize]byte
	// The feature chain of the ingress interface, captured at input.
	chain *feature.Chain
	// The current position in chain.
	pos feature.Position
	// The adjacency the packet is forwarded with. Set by lookup and by ila2sir.
	adj fib.AdjIndex
	// The redirect resolved by lookup, consumed by ila2sir.
	redirect fib.ILARedirect
	// The ingress on which this packet arrived. This is set by the receiver.
	Ingress uint16
	// The egress on which this packet must leave. This is set by the processing routine.
	egress uint16
	// The next node of the graph the packet visits.
	next node
	// The reason the packet is dropped and the node that dropped it, if it reaches error-drop.
	drop     dropReason
	dropNode node
	// The trace number of the packet, or 0 if it is not traced.
	trace uint64
}

// init configures the given blank packet (and returns it, for convenience).
func (p *Packet) init(buffer *[bufSize]byte) *Packet {
	p.buffer = buffer
	p.RawPacket = p.buffer[:]
	return p
}

// Reset makes the packet ready to receive a new underlay message.
func (p *Packet) Reset() {
	*p = Packet{
		buffer:    p.buffer,    // keep the buffer
		RawPacket: p.buffer[:], // restore the full packet capacity
	}
	// Everything else is reset to zero value.
}

// dst returns a view of the destination address. The packet must have passed input validation.
func (p *Packet) dst() *ila.Address {
	return (*ila.Address)(p.RawPacket[dstOffset : dstOffset+16])
}

// PacketPool is the pool of all packet buffers. Packets are taken from the pool by the underlay
// receivers, passed around by reference and returned after transmission or drop. The pool is
// sized such that Get never blocks for long.
type PacketPool struct {
	pool chan *Packet
}

// MakePacketPool allocates a pool of size packets.
func MakePacketPool(size int) PacketPool {
	p := PacketPool{pool: make(chan *Packet, size)}
	pktBuffers := make([][bufSize]byte, size)
	pktStructs := make([]Packet, size)
	for i := 0; i < size; i++ {
		p.pool <- pktStructs[i].init(&pktBuffers[i])
	}
	return p
}

// Get returns a reset packet.
func (p PacketPool) Get() *Packet {
	pkt := <-p.pool
	pkt.Reset()
	return pkt
}

// Put returns a packet to the pool.
func (p PacketPool) Put(pkt *Packet) {
	p.pool <- pkt
}

// Len returns the number of idle packets.
func (p PacketPool) Len() int {
	return len(p.pool)
}

// RunConfig holds the parameters of the data plane.
type RunConfig struct {
	NumProcessors int
	BatchSize     int
	// Underlay is the name of the underlay implementation links are created with.
	Underlay string
	// TraceLimit bounds the number of trace records kept.
	TraceLimit int
}

// InterfaceInfo describes a configured interface.
type InterfaceInfo struct {
	ID     uint16
	Name   string
	Device string
}

// dataPlane contains the ILA router's forwarding logic. It reads packets from the links,
// translates and routes them, and sends them out of the egress link.
type dataPlane struct {
	underlay    UnderlayProvider
	interfaces  map[uint16]Link
	ifInfo      map[uint16]InterfaceInfo
	ifNames     map[string]uint16
	entries     *store.Store
	fib         *fib.Table
	chains      *feature.Chains
	sir2ilaStep feature.StepID
	tracer      *Tracer
	mtx         sync.Mutex
	running     atomic.Bool
	Metrics     *Metrics
	nodeMetrics [nodeMax]nodeMetrics

	forwardingMetrics map[uint16]*InterfaceMetrics

	RunConfig RunConfig

	// The pool that stores all the packet buffers. To avoid garbage collection, most of the
	// meta-data that is produced during the processing of a packet is kept in the packet
	// struct that is pooled and recycled along with the corresponding buffer.
	packetPool PacketPool
	procWG     sync.WaitGroup
}

// NewDataPlane returns a data plane that translates with the given tables. It registers the
// SIR to locator step in chains.
func NewDataPlane(
	runConfig RunConfig,
	entries *store.Store,
	table *fib.Table,
	chains *feature.Chains,
) (*dataPlane, error) {
	if runConfig.NumProcessors <= 0 {
		runConfig.NumProcessors = 1
	}
	if runConfig.BatchSize <= 0 {
		runConfig.BatchSize = 256
	}
	if runConfig.TraceLimit <= 0 {
		runConfig.TraceLimit = defaultTraceLimit
	}
	underlay, ok := newUnderlay(runConfig.Underlay, runConfig.BatchSize)
	if !ok {
		return nil, serrors.JoinNoStack(unknownUnderlay, nil,
			"underlay", runConfig.Underlay, "available", Underlays())
	}
	step, ok := chains.Step(SIR2ILAStepName)
	if !ok {
		var err error
		if step, err = chains.Register(SIR2ILAStepName, feature.Lookup); err != nil {
			return nil, serrors.Wrap("registering feature step", err)
		}
	}
	d := &dataPlane{
		underlay:          underlay,
		interfaces:        make(map[uint16]Link),
		ifInfo:            make(map[uint16]InterfaceInfo),
		ifNames:           make(map[string]uint16),
		entries:           entries,
		fib:               table,
		chains:            chains,
		sir2ilaStep:       step,
		tracer:            NewTracer(runConfig.TraceLimit),
		Metrics:           theMetrics,
		forwardingMetrics: make(map[uint16]*InterfaceMetrics),
		RunConfig:         runConfig,
	}
	d.nodeMetrics = newNodeMetrics(d.Metrics)
	return d, nil
}

// setRunning() Configures the running state of the data plane to true. setRunning() is called once
// the dataplane is finished initializing and is ready to process packets.
func (d *dataPlane) setRunning() {
	d.running.Store(true)
}

// setStopping() Configures the running state of the data plane to false.
func (d *dataPlane) setStopping() {
	d.running.Store(false)
}

// isRunning() Indicates the running state of the data plane. If true, the dataplane is initialized
// and ready to process or already processing packets. In this case configuration changes of the
// interfaces are not permitted.
func (d *dataPlane) isRunning() bool {
	return d.running.Load()
}

// AddInterface creates a link on the given underlay device. Incoming packets on the link are
// marked with ifID.
func (d *dataPlane) AddInterface(ifID uint16, name, device string) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.isRunning() {
		return modifyExisting
	}
	if name == "" {
		return serrors.JoinNoStack(invalidInterfaceN, nil, "ifID", ifID)
	}
	if _, ok := d.interfaces[ifID]; ok {
		return serrors.JoinNoStack(alreadySet, nil, "ifID", ifID)
	}
	if _, ok := d.ifNames[name]; ok {
		return serrors.JoinNoStack(alreadySet, nil, "interface", name)
	}
	metrics := newInterfaceMetrics(d.Metrics, name)
	link, err := d.underlay.NewLink(name, device, ifID, d.RunConfig.BatchSize, metrics)
	if err != nil {
		return serrors.Wrap("creating link", err, "interface", name, "device", device)
	}
	d.interfaces[ifID] = link
	d.ifInfo[ifID] = InterfaceInfo{ID: ifID, Name: name, Device: device}
	d.ifNames[name] = ifID
	d.forwardingMetrics[ifID] = metrics
	return nil
}

// InterfaceID returns the id of the named interface.
func (d *dataPlane) InterfaceID(name string) (uint16, bool) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	id, ok := d.ifNames[name]
	return id, ok
}

// Interfaces lists the configured interfaces.
func (d *dataPlane) Interfaces() []InterfaceInfo {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	r := make([]InterfaceInfo, 0, len(d.ifInfo))
	for _, info := range d.ifInfo {
		r = append(r, info)
	}
	return r
}

// SIR2ILAStep returns the feature step of the SIR to locator translation.
func (d *dataPlane) SIR2ILAStep() feature.StepID {
	return d.sir2ilaStep
}

// Tracer returns the packet tracer.
func (d *dataPlane) Tracer() *Tracer {
	return d.tracer
}

// Run starts the underlay and the processors and blocks until ctx is done. All goroutines
// started by Run have exited when it returns.
func (d *dataPlane) Run(ctx context.Context) error {
	d.mtx.Lock()
	if len(d.interfaces) == 0 {
		d.mtx.Unlock()
		// Not strictly an error but we really can't do anything.
		<-ctx.Done()
		return nil
	}
	processorQueueSize := max(
		d.underlay.NumConnections()*d.RunConfig.BatchSize/d.RunConfig.NumProcessors,
		d.RunConfig.BatchSize)
	d.initPacketPool(processorQueueSize)
	procQs := d.initQueues(processorQueueSize)
	d.setRunning()
	d.underlay.Start(ctx, d.packetPool, procQs)

	for i := 0; i < d.RunConfig.NumProcessors; i++ {
		d.procWG.Add(1)
		go func(i int) {
			defer log.HandlePanic()
			defer d.procWG.Done()
			d.runProcessor(ctx, i, procQs[i])
		}(i)
	}
	d.mtx.Unlock()

	<-ctx.Done()
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.setStopping()
	// Processors may still be sending; links must outlive them.
	d.procWG.Wait()
	d.underlay.Stop()
	return nil
}

// initPacketPool calculates the size of the packet pool based on the
// current dataplane settings and allocates all the buffers
func (d *dataPlane) initPacketPool(processorQueueSize int) {
	poolSize := len(d.interfaces)*d.RunConfig.BatchSize +
		d.RunConfig.NumProcessors*(processorQueueSize+d.RunConfig.BatchSize) +
		len(d.interfaces)*(2*d.RunConfig.BatchSize)

	log.Debug("Initialize packet pool of size", "poolSize", poolSize)
	d.packetPool = MakePacketPool(poolSize)
}

// initQueues creates the processor queues.
func (d *dataPlane) initQueues(processorQueueSize int) []chan *Packet {
	procQs := make([]chan *Packet, d.RunConfig.NumProcessors)
	for i := 0; i < d.RunConfig.NumProcessors; i++ {
		procQs[i] = make(chan *Packet, processorQueueSize)
	}
	return procQs
}

func (d *dataPlane) returnPacketToPool(pkt *Packet) {
	d.packetPool.Put(pkt)
}

func (d *dataPlane) runProcessor(ctx context.Context, id int, q <-chan *Packet) {
	log.Debug("Initialize processor with", "id", id)
	processor := newPacketProcessor(d)
	batch := make([]*Packet, d.RunConfig.BatchSize)
	for d.isRunning() {
		n := readUpTo(ctx, q, batch)
		if n == 0 {
			return
		}
		processor.processBatch(batch[:n])
	}
}

// readUpTo blocks until at least one packet is available or ctx is done, then takes whatever
// else is already queued, up to len(pkts).
func readUpTo(ctx context.Context, q <-chan *Packet, pkts []*Packet) int {
	select {
	case <-ctx.Done():
		return 0
	case p := <-q:
		pkts[0] = p
	}
	i := 1
	for ; i < len(pkts); i++ {
		select {
		case p := <-q:
			pkts[i] = p
		default:
			return i
		}
	}
	return i
}

// ProcessorID selects the processor of a raw IPv6 packet. Packets to the same identifier are
// handled by the same processor so that their order is preserved.
func ProcessorID(raw []byte, numProcessors int) uint32 {
	if numProcessors <= 1 || len(raw) < ipv6HdrLen {
		return 0
	}
	dst := (*ila.Address)(raw[dstOffset : dstOffset+16])
	return store.HashIdentifier(dst.Identifier()) % uint32(numProcessors)
}
