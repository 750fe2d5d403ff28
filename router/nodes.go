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

package router

import (
	"encoding/binary"
	"time"

	"github.com/ilarouter/ila/pkg/log"
	"github.com/ilarouter/ila/router/feature"
	"github.com/ilarouter/ila/router/fib"
	"github.com/ilarouter/ila/router/store"
)

// node is a vertex of the processing graph. Every edge of the graph leads to a node with a
// greater value, so that a vector is processed in a single pass over the nodes.
type node uint8

const (
	nodeInput node = iota
	nodeSIR2ILA
	nodeLookup
	nodeILA2SIR
	nodeRewrite
	nodeLocal
	nodeDrop
	nodeMax

	// nodeDone marks packets that left the graph.
	nodeDone = nodeMax
)

func (n node) String() string {
	switch n {
	case nodeInput:
		return "ip6-input"
	case nodeSIR2ILA:
		return SIR2ILAStepName
	case nodeLookup:
		return feature.Lookup
	case nodeILA2SIR:
		return "ila-ila2sir"
	case nodeRewrite:
		return "ip6-rewrite"
	case nodeLocal:
		return "ip6-local"
	case nodeDrop:
		return "error-drop"
	default:
		return "unknown"
	}
}

// dropReason is the per-packet error slot.
type dropReason uint8

const (
	dropInvalidPacket dropReason = iota
	dropResolutionMiss
	dropStaleRedirect
	dropNoRoute
	dropHopLimit
	dropNoLink
	dropBusy
	dropReasonMax
)

func (r dropReason) String() string {
	switch r {
	case dropInvalidPacket:
		return "invalid_packet"
	case dropResolutionMiss:
		return "resolution_miss"
	case dropStaleRedirect:
		return "stale_redirect"
	case dropNoRoute:
		return "no_route"
	case dropHopLimit:
		return "hop_limit"
	case dropNoLink:
		return "no_link"
	case dropBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// packetProcessor runs vectors of packets through the graph. Each processor goroutine owns one.
type packetProcessor struct {
	d *dataPlane
	// frames holds the pending packets of every node.
	frames [nodeMax][]*Packet
	// valid counts the packets a translation node actually translated in the current frame.
	valid int
}

func newPacketProcessor(d *dataPlane) *packetProcessor {
	p := &packetProcessor{d: d}
	for n := range p.frames {
		p.frames[n] = make([]*Packet, 0, d.RunConfig.BatchSize)
	}
	return p
}

// countsValid reports whether the packet counter of n counts translated packets only.
func countsValid(n node) bool {
	return n == nodeSIR2ILA || n == nodeILA2SIR
}

// processBatch runs the packets through the graph. When it returns, every packet has either
// been handed to a link or returned to the pool.
func (p *packetProcessor) processBatch(pkts []*Packet) {
	p.frames[nodeInput] = append(p.frames[nodeInput][:0], pkts...)
	for n := nodeInput; n < nodeMax; n++ {
		frame := p.frames[n]
		if len(frame) == 0 {
			continue
		}
		var start time.Time
		if processingMetricsEnabled {
			start = time.Now()
		}
		p.valid = 0
		for _, pkt := range frame {
			next := p.process(n, pkt)
			if next == nodeDone {
				continue
			}
			if next <= n {
				panic("graph edge " + n.String() + " -> " + next.String() + " goes backwards")
			}
			p.frames[next] = append(p.frames[next], pkt)
		}
		m := &p.d.nodeMetrics[n]
		m.Vectors.Inc()
		if countsValid(n) {
			m.Packets.Add(float64(p.valid))
		} else {
			m.Packets.Add(float64(len(frame)))
		}
		if processingMetricsEnabled {
			p.d.Metrics.observeDuration(n, start)
		}
		clear(frame)
		p.frames[n] = frame[:0]
	}
}

func (p *packetProcessor) process(n node, pkt *Packet) node {
	switch n {
	case nodeInput:
		return p.input(pkt)
	case nodeSIR2ILA:
		return p.sir2ila(pkt)
	case nodeLookup:
		return p.lookup(pkt)
	case nodeILA2SIR:
		return p.ila2sir(pkt)
	case nodeRewrite:
		return p.rewrite(pkt)
	case nodeLocal:
		return p.send(nodeLocal, pkt)
	case nodeDrop:
		return p.drop(pkt)
	default:
		return discard(pkt, n, dropInvalidPacket, "node", n)
	}
}

// Convenience function to log an error and divert the packet to error-drop.
// We do almost nothing with errors, so, we shouldn't invest in creating them.
func discard(pkt *Packet, n node, reason dropReason, ctx ...any) node {
	log.Debug("Discarding packet", append([]any{"node", n, "reason", reason}, ctx...)...)
	pkt.drop = reason
	pkt.dropNode = n
	return nodeDrop
}

func (p *packetProcessor) trace(pkt *Packet, n node, format string, args ...any) {
	p.d.tracer.record(pkt.trace, n, format, args...)
}

func (p *packetProcessor) input(pkt *Packet) node {
	raw := pkt.RawPacket
	if len(raw) < ipv6HdrLen || raw[0]>>4 != 6 {
		return discard(pkt, nodeInput, dropInvalidPacket, "len", len(raw))
	}
	// Anything beyond the payload length is link padding.
	pktLen := ipv6HdrLen + int(binary.BigEndian.Uint16(raw[4:6]))
	if pktLen > len(raw) {
		return discard(pkt, nodeInput, dropInvalidPacket, "len", len(raw), "expected", pktLen)
	}
	pkt.RawPacket = raw[:pktLen]

	if pkt.trace = p.d.tracer.arm(); pkt.trace != 0 {
		p.trace(pkt, nodeInput, "ingress: %d dst: %s", pkt.Ingress, pkt.dst())
	}
	pkt.chain = p.d.chains.Chain(pkt.Ingress)
	pkt.pos = feature.Start
	return p.nextFeature(pkt)
}

// nextFeature moves the packet to the next step of its ingress feature chain. Steps without a
// node in this graph are skipped.
func (p *packetProcessor) nextFeature(pkt *Packet) node {
	for {
		step, pos, ok := pkt.chain.Next(pkt.pos)
		if !ok {
			return nodeLookup
		}
		pkt.pos = pos
		if step == p.d.sir2ilaStep {
			return nodeSIR2ILA
		}
	}
}

// sir2ila rewrites SIR form destinations of known identifiers to locator form. Packets to
// unknown identifiers are left untouched.
func (p *packetProcessor) sir2ila(pkt *Packet) node {
	dst := pkt.dst()
	initial := *dst
	id := dst.Identifier()

	eid, ok := p.d.entries.Lookup(id)
	var e *store.Entry
	if ok {
		// The slot may have been reused since the lookup.
		e, ok = p.d.entries.Get(eid)
		ok = ok && e.Identifier == id
	}
	if ok {
		e.ToLocator(dst)
		p.valid++
	}
	if pkt.trace != 0 {
		index := -1
		if ok {
			index = int(eid)
		}
		p.trace(pkt, nodeSIR2ILA, "SIR -> ILA entry index: %d initial_dst: %s", index, initial)
	}
	return p.nextFeature(pkt)
}

func (p *packetProcessor) lookup(pkt *Packet) node {
	pkt.adj = p.d.fib.Lookup(pkt.dst())
	adj, ok := p.d.fib.Adjacency(pkt.adj)
	if !ok {
		return discard(pkt, nodeLookup, dropNoRoute, "adj", pkt.adj)
	}
	if pkt.trace != 0 {
		p.trace(pkt, nodeLookup, "adjacency: %s %s", pkt.adj, adj)
	}
	if adj.Next() == fib.LookupILA {
		r, ok := adj.(fib.ILARedirect)
		if !ok {
			return discard(pkt, nodeLookup, dropResolutionMiss, "adj", pkt.adj)
		}
		pkt.redirect = r
		return nodeILA2SIR
	}
	return p.forward(nodeLookup, pkt, adj)
}

// forward hands the packet to the node serving the adjacency.
func (p *packetProcessor) forward(n node, pkt *Packet, adj fib.Adjacency) node {
	switch adj.Next() {
	case fib.LookupLocal:
		if a, ok := adj.(fib.LocalAdjacency); ok {
			pkt.egress = a.Interface
			return nodeLocal
		}
	case fib.LookupRewrite:
		if a, ok := adj.(fib.RewriteAdjacency); ok {
			pkt.egress = a.Interface
			return nodeRewrite
		}
	}
	return discard(pkt, n, dropNoRoute, "adj", pkt.adj, "next", adj.Next())
}

// ila2sir rewrites locator form destinations of local entries to SIR form and forwards them
// with the entry's local adjacency.
func (p *packetProcessor) ila2sir(pkt *Packet) node {
	r := pkt.redirect
	e, ok := p.d.entries.Get(store.EntryID(r.Entry))
	if !ok {
		return discard(pkt, nodeILA2SIR, dropResolutionMiss, "entry", r.Entry)
	}
	if e.Gen != r.Gen {
		return discard(pkt, nodeILA2SIR, dropStaleRedirect,
			"entry", r.Entry, "gen", r.Gen, "current", e.Gen)
	}
	dst := pkt.dst()
	initial := *dst
	e.ToSIR(dst)
	p.valid++
	if pkt.trace != 0 {
		p.trace(pkt, nodeILA2SIR, "ILA -> SIR entry index: %d initial_dst: %s", r.Entry, initial)
	}

	pkt.adj = e.LocalAdj
	adj, ok := p.d.fib.Adjacency(pkt.adj)
	if !ok {
		return discard(pkt, nodeILA2SIR, dropNoRoute, "adj", pkt.adj)
	}
	return p.forward(nodeILA2SIR, pkt, adj)
}

func (p *packetProcessor) rewrite(pkt *Packet) node {
	if hl := pkt.RawPacket[7]; hl <= 1 {
		return discard(pkt, nodeRewrite, dropHopLimit, "hop_limit", hl)
	}
	pkt.RawPacket[7]--
	return p.send(nodeRewrite, pkt)
}

// send hands the packet to its egress link. The link owns the packet afterwards.
func (p *packetProcessor) send(n node, pkt *Packet) node {
	link, ok := p.d.interfaces[pkt.egress]
	if !ok {
		return discard(pkt, n, dropNoLink, "egress", pkt.egress)
	}
	if pkt.trace != 0 {
		p.trace(pkt, n, "egress: %s dst: %s", link.Name(), pkt.dst())
	}
	if !link.Send(pkt) {
		return discard(pkt, n, dropBusy, "egress", pkt.egress)
	}
	if processingMetricsEnabled {
		p.d.Metrics.incResult("forwarded")
	}
	return nodeDone
}

func (p *packetProcessor) drop(pkt *Packet) node {
	p.d.nodeMetrics[pkt.dropNode].Dropped[pkt.drop].Inc()
	if pkt.trace != 0 {
		p.trace(pkt, nodeDrop, "%s: %s", pkt.dropNode, pkt.drop)
	}
	if processingMetricsEnabled {
		p.d.Metrics.incResult(pkt.drop.String())
	}
	p.d.returnPacketToPool(pkt)
	return nodeDone
}
