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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const BufSize = bufSize

type DataPlane = dataPlane

func GetMetrics() *Metrics {
	return theMetrics
}

// FakeStart does the part of Run the processing tests need: the packet pool. Processors and the
// underlay are left to the invoking test.
func (d *DataPlane) FakeStart() {
	d.packetPool = MakePacketPool(64)
	d.setRunning()
}

// ProcessPkts runs one vector made of copies of raws through the graph.
func (d *DataPlane) ProcessPkts(ingress uint16, raws ...[]byte) {
	pkts := make([]*Packet, 0, len(raws))
	for _, raw := range raws {
		pkt := d.packetPool.Get()
		pkt.RawPacket = pkt.RawPacket[:copy(pkt.RawPacket, raw)]
		pkt.Ingress = ingress
		pkts = append(pkts, pkt)
	}
	newPacketProcessor(d).processBatch(pkts)
}

func (d *DataPlane) PoolLen() int {
	return d.packetPool.Len()
}

// DropCount returns the current value of a drop counter.
func DropCount(node, reason string) float64 {
	return testutil.ToFloat64(theMetrics.DroppedPacketsTotal.With(
		prometheus.Labels{"node": node, "reason": reason}))
}

// ValidCount returns the number of packets translated by a node.
func ValidCount(node string) float64 {
	return testutil.ToFloat64(theMetrics.NodePacketsTotal.With(prometheus.Labels{"node": node}))
}
