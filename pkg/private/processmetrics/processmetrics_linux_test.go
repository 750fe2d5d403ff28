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

//go:build linux

package processmetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilarouter/ila/pkg/private/processmetrics"
)

func TestInit(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, processmetrics.Init(reg))

	families, err := reg.Gather()
	require.NoError(t, err)
	got := make(map[string]float64)
	for _, f := range families {
		m := f.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			got[f.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			got[f.GetName()] = m.GetGauge().GetValue()
		}
	}
	assert.Contains(t, got, "ila_process_running_seconds_total")
	assert.Contains(t, got, "ila_process_runnable_seconds_total")
	assert.Greater(t, got["ila_go_maxprocs_threads"], 0.0)
	assert.GreaterOrEqual(t, got["ila_process_metrics_thread_refreshes_total"], 1.0)

	assert.Error(t, processmetrics.Init(reg))
}
