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

//go:build !linux

package tun

import (
	"errors"
	"io"
	"runtime"

	"github.com/songgao/water"

	"github.com/ilarouter/ila/pkg/private/serrors"
)

var errNamedDevice = errors.New("named TUN devices are not supported")

// waterOpener creates a TUN device. The device name is chosen by the system, so only an empty
// name is accepted.
type waterOpener struct{}

func (waterOpener) Open(device string) (io.ReadWriteCloser, error) {
	if device != "" {
		return nil, serrors.JoinNoStack(errNamedDevice, nil, "os", runtime.GOOS, "device", device)
	}
	ifce, err := water.New(water.Config{DeviceType: water.TUN})
	if err != nil {
		return nil, err
	}
	return ifce, nil
}
