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

// Package ila contains the address arithmetic of Identifier-Locator
// Addressing.
//
// An ILA address is an IPv6 address whose upper 64 bits hold a prefix and
// whose lower 64 bits hold a host identifier. The prefix is either a
// locator, which is routable in the network, or a SIR prefix, which is what
// applications see. Translation only ever rewrites the prefix, plus the
// checksum adjustment word and the flag bit when checksum-neutral mapping is
// in use.
package ila

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/ilarouter/ila/pkg/private/serrors"
)

// Half is one 64-bit half of an IPv6 address. The most significant byte of
// the value is the first byte on the wire.
type Half uint64

// ParseHalf parses a half address in the form x:x:x:x where every group is a
// hexadecimal number of at most 16 bits.
func ParseHalf(s string) (Half, error) {
	groups := strings.Split(s, ":")
	if len(groups) != 4 {
		return 0, serrors.New("half address must have 4 groups", "input", s)
	}
	var h Half
	for _, g := range groups {
		if g == "" || len(g) > 4 {
			return 0, serrors.New("invalid half address group", "input", s, "group", g)
		}
		v, err := strconv.ParseUint(g, 16, 16)
		if err != nil {
			return 0, serrors.Wrap("invalid half address group", err, "input", s, "group", g)
		}
		h = h<<16 | Half(v)
	}
	return h, nil
}

// MustParseHalf is like ParseHalf but panics on error.
func MustParseHalf(s string) Half {
	h, err := ParseHalf(s)
	if err != nil {
		panic(err)
	}
	return h
}

// String formats the half address as four zero padded groups.
func (h Half) String() string {
	return fmt.Sprintf("%04x:%04x:%04x:%04x",
		uint16(h>>48), uint16(h>>32), uint16(h>>16), uint16(h))
}

// MarshalText implements encoding.TextMarshaler.
func (h Half) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Half) UnmarshalText(b []byte) error {
	v, err := ParseHalf(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// words returns the four 16-bit words of the half address.
func (h Half) words() [4]uint16 {
	return [4]uint16{uint16(h >> 48), uint16(h >> 32), uint16(h >> 16), uint16(h)}
}

// Address is an IPv6 address in network byte order.
type Address [16]byte

// AddressFrom assembles an address from a prefix and an identifier.
func AddressFrom(prefix, id Half) Address {
	var a Address
	binary.BigEndian.PutUint64(a[:8], uint64(prefix))
	binary.BigEndian.PutUint64(a[8:], uint64(id))
	return a
}

// AddressFromNetIP converts an IPv6 address. IPv4 addresses are rejected.
func AddressFromNetIP(ip netip.Addr) (Address, error) {
	if !ip.Is6() || ip.Is4In6() {
		return Address{}, serrors.New("not an IPv6 address", "addr", ip)
	}
	return Address(ip.As16()), nil
}

// Prefix returns the upper half of the address.
func (a *Address) Prefix() Half {
	return Half(binary.BigEndian.Uint64(a[:8]))
}

// Identifier returns the lower half of the address.
func (a *Address) Identifier() Half {
	return Half(binary.BigEndian.Uint64(a[8:]))
}

// SetPrefix overwrites the upper half of the address.
func (a *Address) SetPrefix(p Half) {
	binary.BigEndian.PutUint64(a[:8], uint64(p))
}

// Addr returns the address as netip.Addr.
func (a Address) Addr() netip.Addr {
	return netip.AddrFrom16(a)
}

func (a Address) String() string {
	return a.Addr().String()
}
