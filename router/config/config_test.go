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

package config_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilarouter/ila/pkg/ila"
	libconfig "github.com/ilarouter/ila/private/config"
	"github.com/ilarouter/ila/private/env/envtest"
	"github.com/ilarouter/ila/router/config"
	"github.com/ilarouter/ila/router/store"
)

func TestConfigSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg config.Config
	cfg.Sample(&sample, nil, libconfig.CtxMap{libconfig.ID: "ila-1"})

	InitTestConfig(&cfg)
	require.NoError(t, libconfig.Decode(sample.Bytes(), &cfg))
	CheckTestConfig(t, &cfg, "ila-1")

	cfg.InitDefaults()
	cfg.General.ConfigDir = t.TempDir()
	assert.NoError(t, cfg.Validate())
}

func InitTestConfig(cfg *config.Config) {
	envtest.InitTestGeneral(&cfg.General)
	envtest.InitTestMetrics(&cfg.Metrics)
	cfg.API.Addr = "mock"
}

func CheckTestConfig(t *testing.T, cfg *config.Config, id string) {
	envtest.CheckTestGeneral(t, &cfg.General, id)
	envtest.CheckTestMetrics(t, &cfg.Metrics)
	assert.Equal(t, "info", cfg.Log.Console.Level)
	assert.Equal(t, "human", cfg.Log.Console.Format)
	assert.Empty(t, cfg.API.Addr)
	assert.Equal(t, 8, cfg.Router.NumProcessors)
	assert.Equal(t, 256, cfg.Router.BatchSize)
	assert.Equal(t, 1024, cfg.Router.TraceLimit)
	assert.Equal(t, store.DefaultBuckets, cfg.ILA.LookupTableBuckets)
	assert.Equal(t, store.DefaultMemorySize, cfg.ILA.LookupTableSize)
	assert.Empty(t, cfg.Kernel.Device)
	require.Len(t, cfg.Interfaces, 1)
	assert.True(t, cfg.Interfaces[0].ILA)
	require.Len(t, cfg.Entries, 1)
	assert.Equal(t, ila.ModeNeutralMap, cfg.Entries[0].Mode)
}

func TestInitDefaults(t *testing.T) {
	var cfg config.Config
	cfg.InitDefaults()
	assert.Positive(t, cfg.Router.NumProcessors)
	assert.Equal(t, 256, cfg.Router.BatchSize)
	assert.Equal(t, store.Config{
		Buckets:    store.DefaultBuckets,
		MemorySize: store.DefaultMemorySize,
	}, cfg.ILA.StoreConfig())
}

func TestValidate(t *testing.T) {
	testCases := map[string]struct {
		modify    func(cfg *config.Config)
		assertErr assert.ErrorAssertionFunc
	}{
		"defaults": {
			modify:    func(cfg *config.Config) {},
			assertErr: assert.NoError,
		},
		"no id": {
			modify:    func(cfg *config.Config) { cfg.General.ID = "" },
			assertErr: assert.Error,
		},
		"negative processors": {
			modify:    func(cfg *config.Config) { cfg.Router.NumProcessors = -1 },
			assertErr: assert.Error,
		},
		"negative table size": {
			modify:    func(cfg *config.Config) { cfg.ILA.LookupTableSize = -1 },
			assertErr: assert.Error,
		},
		"too many buckets": {
			modify: func(cfg *config.Config) {
				cfg.ILA.LookupTableBuckets = store.MaxBuckets + 1
			},
			assertErr: assert.Error,
		},
		"max buckets": {
			modify: func(cfg *config.Config) {
				cfg.ILA.LookupTableBuckets = store.MaxBuckets
			},
			assertErr: assert.NoError,
		},
		"invalid static table": {
			modify: func(cfg *config.Config) {
				cfg.Routes = append(cfg.Routes, cfg.Routes...)
				cfg.Routes[0].Adjacency = "missing"
			},
			assertErr: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var sample bytes.Buffer
			var cfg config.Config
			cfg.Sample(&sample, nil, libconfig.CtxMap{libconfig.ID: "ila-1"})
			require.NoError(t, libconfig.Decode(sample.Bytes(), &cfg))
			cfg.InitDefaults()
			cfg.General.ConfigDir = t.TempDir()
			tc.modify(&cfg)
			tc.assertErr(t, cfg.Validate())
		})
	}
}
