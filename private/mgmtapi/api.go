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

// Package mgmtapi contains the pieces shared by the management APIs of the
// ILA services.
package mgmtapi

import (
	"io"

	"github.com/ilarouter/ila/private/config"
)

// Problem types.
const (
	BadRequest          = "/problems/bad-request"
	NotFound            = "/problems/not-found"
	Conflict            = "/problems/conflict"
	UnprocessableEntity = "/problems/unprocessable-entity"
	InsufficientStorage = "/problems/insufficient-storage"
	InternalError       = "/problems/internal-error"
)

// StringRef returns a pointer to s.
func StringRef(s string) *string {
	return &s
}

var _ config.Config = (*Config)(nil)

// Config is the configuration of a management API.
type Config struct {
	config.NoDefaulter
	config.NoValidator
	// Addr is the address the API listens on. If empty, the API is not
	// served.
	Addr string `toml:"addr,omitempty"`
}

func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, sample)
}

func (cfg *Config) ConfigName() string {
	return "api"
}

const sample = `
# The address to expose the management API on (host:port or ip:port or :port).
# If not set, the API is not served. (default "")
addr = ""
`
