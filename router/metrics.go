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
	"math/bits"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics defines the data-plane metrics of the ILA router.
type Metrics struct {
	InputBytesTotal     *prometheus.CounterVec
	OutputBytesTotal    *prometheus.CounterVec
	InputPacketsTotal   *prometheus.CounterVec
	OutputPacketsTotal  *prometheus.CounterVec
	DroppedPacketsTotal *prometheus.CounterVec
	NodePacketsTotal    *prometheus.CounterVec
	NodeVectorsTotal    *prometheus.CounterVec
	TracedPacketsTotal  prometheus.Counter

	// Only populated when built with the router_profile tag.
	ProcessDuration *prometheus.HistogramVec
	ProcessResult   *prometheus.CounterVec
}

// NewMetrics initializes the metrics for the router, and registers them with the default
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		InputBytesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_input_bytes_total",
				Help: "Total number of bytes received",
			},
			[]string{"interface", "sizeclass"},
		),
		OutputBytesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_output_bytes_total",
				Help: "Total number of bytes sent.",
			},
			[]string{"interface", "sizeclass"},
		),
		InputPacketsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_input_pkts_total",
				Help: "Total number of packets received",
			},
			[]string{"interface", "sizeclass"},
		),
		OutputPacketsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_output_pkts_total",
				Help: "Total number of packets sent.",
			},
			[]string{"interface", "sizeclass"},
		),
		DroppedPacketsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_dropped_pkts_total",
				Help: "Total number of packets dropped by the router.",
			},
			[]string{"node", "reason"},
		),
		NodePacketsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_node_pkts_total",
				Help: "Total number of packets handled by each graph node. For the ILA " +
					"translation nodes this counts valid ILA packets.",
			},
			[]string{"node"},
		),
		NodeVectorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_node_vectors_total",
				Help: "Total number of packet vectors processed by each graph node.",
			},
			[]string{"node"},
		),
		TracedPacketsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "router_traced_pkts_total",
				Help: "Total number of packets selected for tracing.",
			},
		),
	}
	if processingMetricsEnabled {
		m.ProcessDuration, m.ProcessResult = initProcessingMetrics()
	}
	return m
}

// nodeMetrics groups the counters of one graph node.
type nodeMetrics struct {
	Packets prometheus.Counter
	Vectors prometheus.Counter
	Dropped [dropReasonMax]prometheus.Counter
}

func newNodeMetrics(metrics *Metrics) [nodeMax]nodeMetrics {
	var r [nodeMax]nodeMetrics
	for n := node(0); n < nodeMax; n++ {
		labels := prometheus.Labels{"node": n.String()}
		r[n].Packets = metrics.NodePacketsTotal.With(labels)
		r[n].Vectors = metrics.NodeVectorsTotal.With(labels)
		for reason := dropReason(0); reason < dropReasonMax; reason++ {
			r[n].Dropped[reason] = metrics.DroppedPacketsTotal.MustCurryWith(labels).
				With(prometheus.Labels{"reason": reason.String()})
		}
	}
	return r
}

// sizeClass is the number of bits needed to represent some given size. This is quicker than
// computing Log2 and serves the same purpose.
type sizeClass uint8

// maxSizeClass is the smallest NOT-supported sizeClass. This must be enough to support the largest
// valid packet size (defined by bufSize). Packets larger than that are put in the last class.
const maxSizeClass sizeClass = 15

// This will fail to compile if bufSize cannot fit in (maxSizeClass - 1) bits.
const _ = uint(1<<(maxSizeClass-1) - 1 - bufSize)

// minSizeClass is the smallest sizeClass that we care about.
// All smaller classes are conflated with this one.
const minSizeClass sizeClass = 6

// ClassOfSize returns the size class of a packet of the given length.
func ClassOfSize(pktSize int) sizeClass {
	cs := sizeClass(bits.Len32(uint32(pktSize)))
	if cs > maxSizeClass-1 {
		return maxSizeClass - 1
	}
	if cs <= minSizeClass {
		return minSizeClass
	}
	return cs
}

// Returns a human-friendly representation of the given size class. Avoid bracket notation to make
// the values possibly easier to use in monitoring queries.
func (sc sizeClass) String() string {
	low := strconv.Itoa((1 << sc) >> 1)
	high := strconv.Itoa((1 << sc) - 1)
	if sc == minSizeClass {
		low = "0"
	}
	if sc == maxSizeClass {
		high = "inf"
	}
	return strings.Join([]string{low, high}, "_")
}

// InterfaceMetrics is the set of metrics of one interface, indexed by size class.
// To access the InputPacketsTotal counter of a packet, one refers to:
//
//	metrics[ClassOfSize(len(p.RawPacket))].InputPacketsTotal
type InterfaceMetrics [maxSizeClass]trafficMetrics

// trafficMetrics groups the metrics instances that share the same interface AND sizeClass
// label values.
type trafficMetrics struct {
	InputBytesTotal             prometheus.Counter
	InputPacketsTotal           prometheus.Counter
	OutputBytesTotal            prometheus.Counter
	OutputPacketsTotal          prometheus.Counter
	DroppedPacketsBusyProcessor prometheus.Counter
	DroppedPacketsBusyForwarder prometheus.Counter
}

// NewInterfaceMetrics returns the metrics of the named interface.
func NewInterfaceMetrics(name string) *InterfaceMetrics {
	return newInterfaceMetrics(theMetrics, name)
}

func newInterfaceMetrics(metrics *Metrics, name string) *InterfaceMetrics {
	ifLabels := prometheus.Labels{"interface": name}
	m := &InterfaceMetrics{}
	for sc := minSizeClass; sc < maxSizeClass; sc++ {
		scLabels := prometheus.Labels{"sizeclass": sc.String()}
		m[sc] = trafficMetrics{
			InputBytesTotal:    metrics.InputBytesTotal.MustCurryWith(ifLabels).With(scLabels),
			InputPacketsTotal:  metrics.InputPacketsTotal.MustCurryWith(ifLabels).With(scLabels),
			OutputBytesTotal:   metrics.OutputBytesTotal.MustCurryWith(ifLabels).With(scLabels),
			OutputPacketsTotal: metrics.OutputPacketsTotal.MustCurryWith(ifLabels).With(scLabels),
			DroppedPacketsBusyProcessor: metrics.DroppedPacketsTotal.With(prometheus.Labels{
				"node": "if:" + name, "reason": "busy_processor",
			}),
			DroppedPacketsBusyForwarder: metrics.DroppedPacketsTotal.With(prometheus.Labels{
				"node": "if:" + name, "reason": "busy_forwarder",
			}),
		}
	}
	return m
}
