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

// Package config defines the configuration of the ILA router.
package config

import (
	"io"
	"runtime"

	"github.com/ilarouter/ila/pkg/log"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/private/config"
	"github.com/ilarouter/ila/private/env"
	api "github.com/ilarouter/ila/private/mgmtapi"
	"github.com/ilarouter/ila/router/control"
	"github.com/ilarouter/ila/router/store"
)

var _ config.Config = (*Config)(nil)

// Config is the top level configuration of the router. The static tables
// of control.Config are top level arrays of tables.
type Config struct {
	General env.General  `toml:"general,omitempty"`
	Log     log.Config   `toml:"log,omitempty"`
	Metrics env.Metrics  `toml:"metrics,omitempty"`
	API     api.Config   `toml:"api,omitempty"`
	Router  RouterConfig `toml:"router,omitempty"`
	ILA     ILAConfig    `toml:"ila,omitempty"`
	Kernel  KernelConfig `toml:"kernel,omitempty"`

	control.Config
}

func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Log,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Router,
		&cfg.ILA,
		&cfg.Kernel,
	)
}

func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.General,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Router,
		&cfg.ILA,
		&cfg.Kernel,
		&cfg.Config,
	)
}

func (cfg *Config) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx,
		&cfg.General,
		config.StringSampler{Text: logSample, Name: "log"},
		&cfg.Metrics,
		&cfg.API,
		&cfg.Router,
		&cfg.ILA,
		&cfg.Kernel,
		&cfg.Config,
	)
}

// RouterConfig configures the data plane.
type RouterConfig struct {
	// NumProcessors is the number of goroutines translating packets.
	NumProcessors int `toml:"num_processors,omitempty"`
	// BatchSize is the maximum number of packets processed as one vector.
	BatchSize int `toml:"batch_size,omitempty"`
	// TraceLimit bounds the number of packet trace records kept.
	TraceLimit int `toml:"trace_limit,omitempty"`
}

func (cfg *RouterConfig) InitDefaults() {
	if cfg.NumProcessors == 0 {
		cfg.NumProcessors = runtime.GOMAXPROCS(0)
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 256
	}
	if cfg.TraceLimit == 0 {
		cfg.TraceLimit = 1024
	}
}

func (cfg *RouterConfig) Validate() error {
	if cfg.NumProcessors < 1 {
		return serrors.New("provided router config is invalid",
			"num_processors", cfg.NumProcessors)
	}
	if cfg.BatchSize < 1 {
		return serrors.New("provided router config is invalid", "batch_size", cfg.BatchSize)
	}
	if cfg.TraceLimit < 1 {
		return serrors.New("provided router config is invalid", "trace_limit", cfg.TraceLimit)
	}
	return nil
}

func (cfg *RouterConfig) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, routerSample)
}

func (cfg *RouterConfig) ConfigName() string {
	return "router"
}

// ILAConfig sizes the entry table.
type ILAConfig struct {
	// LookupTableBuckets is the number of index buckets, rounded up to a
	// power of two.
	LookupTableBuckets int `toml:"lookup_table_buckets,omitempty"`
	// LookupTableSize is the memory budget of the entry table in bytes.
	LookupTableSize int `toml:"lookup_table_size,omitempty"`
}

func (cfg *ILAConfig) InitDefaults() {
	if cfg.LookupTableBuckets == 0 {
		cfg.LookupTableBuckets = store.DefaultBuckets
	}
	if cfg.LookupTableSize == 0 {
		cfg.LookupTableSize = store.DefaultMemorySize
	}
}

func (cfg *ILAConfig) Validate() error {
	if cfg.LookupTableBuckets < 1 || cfg.LookupTableBuckets > store.MaxBuckets {
		return serrors.New("provided ila config is invalid",
			"lookup_table_buckets", cfg.LookupTableBuckets)
	}
	if cfg.LookupTableSize < 1 {
		return serrors.New("provided ila config is invalid",
			"lookup_table_size", cfg.LookupTableSize)
	}
	return nil
}

// StoreConfig returns the entry store configuration.
func (cfg *ILAConfig) StoreConfig() store.Config {
	return store.Config{
		Buckets:    cfg.LookupTableBuckets,
		MemorySize: cfg.LookupTableSize,
	}
}

func (cfg *ILAConfig) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, ilaSample)
}

func (cfg *ILAConfig) ConfigName() string {
	return "ila"
}

// KernelConfig configures mirroring of host routes into the kernel.
type KernelConfig struct {
	config.NoDefaulter
	config.NoValidator
	// Device is the device the mirrored routes point to. If empty, no routes
	// are mirrored.
	Device string `toml:"device,omitempty"`
}

func (cfg *KernelConfig) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, kernelSample)
}

func (cfg *KernelConfig) ConfigName() string {
	return "kernel"
}
