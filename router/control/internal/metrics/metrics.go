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

// Package metrics defines and exports the control plane metrics of the ILA router to be scraped
// by prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ilarouter/ila/pkg/private/prom"
)

const Namespace = "ila"

// Result values.
const (
	Success = prom.Success
	// ErrDuplicate is an add of an identifier that already exists.
	ErrDuplicate = "err_duplicate"
	// ErrNotFound is a delete of an identifier that does not exist.
	ErrNotFound = prom.ErrNotFound
	// ErrInvalidReq is a request with invalid arguments.
	ErrInvalidReq = prom.ErrInvalidReq
	// ErrRoute is a failure to bind an entry to its host route.
	ErrRoute = "err_route"
	// ErrInternal is any other failure.
	ErrInternal = prom.ErrInternal
)

// Operation values.
const (
	OpAdd = "add"
	OpDel = "del"
)

// Metrics initialization.
var (
	Control = newControl()
)

// EntryLabels label entry operations.
type EntryLabels struct {
	// Op is the operation, add or del.
	Op string
	// Result is the outcome of the operation.
	Result string
}

// Labels returns the list of labels.
func (l EntryLabels) Labels() []string {
	return []string{prom.LabelOperation, prom.LabelResult}
}

// Values returns the label values in the order defined by Labels.
func (l EntryLabels) Values() []string {
	return []string{l.Op, l.Result}
}

type IntfLabels struct {
	// Intf is the interface name.
	Intf string
}

// Labels returns the list of labels.
func (l IntfLabels) Labels() []string {
	return []string{"intf"}
}

// Values returns the label values in the order defined by Labels.
func (l IntfLabels) Values() []string {
	return []string{l.Intf}
}

type control struct {
	entryOps    *prometheus.CounterVec
	entries     prometheus.Gauge
	boundRoutes prometheus.Gauge
	ilaEnabled  *prometheus.GaugeVec
}

func newControl() control {
	sub := "ctrl"
	return control{
		entryOps: prom.NewCounterVecWithLabels(Namespace, sub,
			"entry_operations_total", "Total number of entry operations.", EntryLabels{}),
		entries: prom.NewGauge(Namespace, sub,
			"entries", "Number of entries in the table."),
		boundRoutes: prom.NewGauge(Namespace, sub,
			"bound_routes", "Number of host routes bound to local entries."),
		ilaEnabled: prom.NewGaugeVecWithLabels(Namespace, sub,
			"interface_sir2ila_enabled", "SIR to locator translation is enabled.",
			IntfLabels{}),
	}
}

// EntryOps returns the counter for the given label set.
func (c *control) EntryOps(l EntryLabels) prometheus.Counter {
	return c.entryOps.WithLabelValues(l.Values()...)
}

// Entries returns the entry gauge.
func (c *control) Entries() prometheus.Gauge {
	return c.entries
}

// BoundRoutes returns the bound route gauge.
func (c *control) BoundRoutes() prometheus.Gauge {
	return c.boundRoutes
}

// ILAEnabled returns the gauge for the given label set.
func (c *control) ILAEnabled(l IntfLabels) prometheus.Gauge {
	return c.ilaEnabled.WithLabelValues(l.Values()...)
}
