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

package processmetrics

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/procfs"

	"github.com/ilarouter/ila/pkg/private/serrors"
)

const nsPerSecond = 1e9

var (
	runningDesc = prometheus.NewDesc(
		"ila_process_running_seconds_total",
		"CPU time consumed by all threads of the process.",
		nil, nil,
	)
	runnableDesc = prometheus.NewDesc(
		"ila_process_runnable_seconds_total",
		"Time threads of the process were runnable but not scheduled.",
		nil, nil,
	)
	maxProcsDesc = prometheus.NewDesc(
		"ila_go_maxprocs_threads",
		"The current runtime.GOMAXPROCS setting.",
		nil, nil,
	)
	refreshDesc = prometheus.NewDesc(
		"ila_process_metrics_thread_refreshes_total",
		"Number of times the collector reloaded the thread list of the process.",
		nil, nil,
	)
)

type collector struct {
	pid       int
	taskDir   *os.File
	threads   procfs.Procs
	lastCount uint64
	refreshes uint64
	running   uint64
	runnable  uint64
}

// update sums the schedstat of all threads. The thread list is only reloaded
// when the link count of /proc/<pid>/task changes, since the Go runtime
// never terminates threads it created.
func (c *collector) update() error {
	var st syscall.Stat_t
	if err := syscall.Fstat(int(c.taskDir.Fd()), &st); err != nil {
		return err
	}
	//nolint:unconvert // Nlink is uint32 on arm64.
	count := uint64(st.Nlink - 2)
	if count != c.lastCount {
		threads, err := procfs.AllThreads(c.pid)
		if err != nil {
			return err
		}
		c.threads = threads
		c.lastCount = count
		c.refreshes++
	}

	var running, runnable uint64
	var firstErr error
	for _, t := range c.threads {
		s, err := t.Schedstat()
		if err != nil {
			// The thread is gone. The others are still valid.
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		running += s.RunningNanoseconds
		runnable += s.WaitingNanoseconds
	}
	c.running, c.runnable = running, runnable
	return firstErr
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(c, ch)
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	_ = c.update()
	ch <- prometheus.MustNewConstMetric(runningDesc, prometheus.CounterValue,
		float64(c.running)/nsPerSecond)
	ch <- prometheus.MustNewConstMetric(runnableDesc, prometheus.CounterValue,
		float64(c.runnable)/nsPerSecond)
	ch <- prometheus.MustNewConstMetric(maxProcsDesc, prometheus.GaugeValue,
		float64(runtime.GOMAXPROCS(-1)))
	ch <- prometheus.MustNewConstMetric(refreshDesc, prometheus.CounterValue,
		float64(c.refreshes))
}

// Init registers the process collector with reg. It fails if /proc is not
// readable or if a collector was already registered with reg. The router
// works without these metrics, so callers usually only log the error.
func Init(reg prometheus.Registerer) error {
	pid := os.Getpid()
	dir := filepath.Join(procfs.DefaultMountPoint, strconv.Itoa(pid), "task")
	taskDir, err := os.Open(dir)
	if err != nil {
		return serrors.Wrap("opening task directory", err, "dir", dir)
	}
	c := &collector{pid: pid, taskDir: taskDir}
	if err := c.update(); err != nil {
		taskDir.Close()
		return serrors.Wrap("reading thread statistics", err)
	}
	if err := reg.Register(c); err != nil {
		taskDir.Close()
		return serrors.Wrap("registering collector", err)
	}
	return nil
}
