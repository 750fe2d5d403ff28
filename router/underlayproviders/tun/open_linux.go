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

package tun

import (
	"io"

	"github.com/songgao/water"
)

// waterOpener attaches to (or creates) the named TUN device.
type waterOpener struct{}

func (waterOpener) Open(device string) (io.ReadWriteCloser, error) {
	cfg := water.Config{DeviceType: water.TUN}
	cfg.Name = device
	ifce, err := water.New(cfg)
	if err != nil {
		return nil, err
	}
	return ifce, nil
}
