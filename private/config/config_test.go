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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilarouter/ila/private/config"
)

type block struct {
	Name  string `toml:"name"`
	Count int    `toml:"count"`
}

type sample struct {
	Block block   `toml:"block"`
	Items []block `toml:"items"`
}

func TestWriteSample(t *testing.T) {
	var buf bytes.Buffer
	config.WriteSample(&buf, nil, nil,
		config.StringSampler{Name: "block", Text: "name = \"a\"\ncount = 1\n"},
		config.ArrayStringSampler{Name: "items", Text: "name = \"b\"\ncount = 2\n"},
		config.ArrayStringSampler{Name: "items", Text: "name = \"c\"\n"},
	)
	var s sample
	require.NoError(t, config.Decode(buf.Bytes(), &s))
	assert.Equal(t, sample{
		Block: block{Name: "a", Count: 1},
		Items: []block{{Name: "b", Count: 2}, {Name: "c"}},
	}, s)
}

func TestDecodeUnknownField(t *testing.T) {
	var s sample
	assert.Error(t, config.Decode([]byte("[block]\nbogus = 1\n"), &s))
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cfg.toml")
	require.NoError(t, os.WriteFile(file, []byte("[block]\nname = \"x\"\n"), 0o644))
	var s sample
	require.NoError(t, config.LoadFile(file, &s))
	assert.Equal(t, "x", s.Block.Name)

	assert.Error(t, config.LoadFile(filepath.Join(t.TempDir(), "missing.toml"), &s))
}

func TestPathExtend(t *testing.T) {
	p := config.Path{"log"}
	q := p.Extend("console")
	assert.Equal(t, config.Path{"log"}, p)
	assert.Equal(t, config.Path{"log", "console"}, q)
}
