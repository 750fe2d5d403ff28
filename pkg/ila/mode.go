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

package ila

import "github.com/ilarouter/ila/pkg/private/serrors"

// ChecksumMode selects how translation treats transport checksums.
type ChecksumMode uint8

const (
	// ModeNoAction rewrites the prefix only.
	ModeNoAction ChecksumMode = iota
	// ModeNeutralMap keeps transport checksums valid by adjusting the last
	// word of the identifier.
	ModeNeutralMap
	// ModeAdjustTransport would rewrite the transport checksum itself. It is
	// recognized but not supported by the translation engine.
	ModeAdjustTransport
)

// ParseChecksumMode parses the textual name of a checksum mode.
func ParseChecksumMode(s string) (ChecksumMode, error) {
	switch s {
	case "none", "no-action":
		return ModeNoAction, nil
	case "neutral-map":
		return ModeNeutralMap, nil
	case "adjust-transport", "transport-adjust":
		return ModeAdjustTransport, nil
	}
	return 0, serrors.New("unknown checksum mode", "mode", s)
}

func (m ChecksumMode) String() string {
	switch m {
	case ModeNoAction:
		return "no-action"
	case ModeNeutralMap:
		return "neutral-map"
	case ModeAdjustTransport:
		return "transport-adjust"
	default:
		return "(unknown)"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m ChecksumMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ChecksumMode) UnmarshalText(b []byte) error {
	v, err := ParseChecksumMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
