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

package prom_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ilarouter/ila/pkg/private/prom"
)

type testLabels struct {
	Op string
}

func (l testLabels) Labels() []string { return []string{prom.LabelOperation} }
func (l testLabels) Values() []string { return []string{l.Op} }

func TestSafeRegister(t *testing.T) {
	first := prom.NewCounterVecWithLabels("test", "prom", "safe_register_total", "help",
		testLabels{})
	second := prom.NewCounterVecWithLabels("test", "prom", "safe_register_total", "help",
		testLabels{})
	assert.Same(t, first, second)

	second.WithLabelValues(testLabels{Op: "add"}.Values()...).Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(first.WithLabelValues("add")))
}

func TestSafeRegisterConflict(t *testing.T) {
	prom.NewGaugeVecWithLabels("test", "prom", "conflict", "help", testLabels{})
	assert.Panics(t, func() {
		c := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "test",
			Subsystem: "prom",
			Name:      "conflict",
			Help:      "other help",
		}, []string{"other"})
		prom.SafeRegister(c)
	})
}
