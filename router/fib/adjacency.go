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

package fib

import (
	"fmt"
	"math"
	"net/netip"
)

// AdjIndex identifies an adjacency in a Table.
type AdjIndex uint32

const (
	// AdjNil denotes the absence of an adjacency.
	AdjNil AdjIndex = math.MaxUint32
	// AdjDrop is the adjacency every table starts with. Lookups that match
	// no route resolve to it.
	AdjDrop AdjIndex = 0
)

func (i AdjIndex) String() string {
	if i == AdjNil {
		return "n/a"
	}
	return fmt.Sprint(uint32(i))
}

// LookupNext is the kind of an adjacency. It selects the stage a packet is
// handed to after the forwarding lookup.
type LookupNext uint8

const (
	LookupDrop LookupNext = iota
	LookupLocal
	LookupRewrite
	LookupILA
)

func (n LookupNext) String() string {
	switch n {
	case LookupDrop:
		return "drop"
	case LookupLocal:
		return "local"
	case LookupRewrite:
		return "rewrite"
	case LookupILA:
		return "ila"
	default:
		return "unknown"
	}
}

// Adjacency is a forwarding decision.
type Adjacency interface {
	Next() LookupNext
	String() string
}

// DropAdjacency discards the packet.
type DropAdjacency struct{}

func (DropAdjacency) Next() LookupNext { return LookupDrop }
func (DropAdjacency) String() string { return "drop" }

// LocalAdjacency delivers the packet to the host through the given
// interface without decrementing the hop limit.
type LocalAdjacency struct {
	Interface uint16
}

func (LocalAdjacency) Next() LookupNext { return LookupLocal }

func (a LocalAdjacency) String() string {
	return fmt.Sprintf("local if:%d", a.Interface)
}

// RewriteAdjacency forwards the packet out of an interface towards a next hop.
type RewriteAdjacency struct {
	Interface uint16
	NextHop   netip.Addr
}

func (RewriteAdjacency) Next() LookupNext { return LookupRewrite }

func (a RewriteAdjacency) String() string {
	if !a.NextHop.IsValid() {
		return fmt.Sprintf("rewrite if:%d", a.Interface)
	}
	return fmt.Sprintf("rewrite if:%d via %s", a.Interface, a.NextHop)
}

// ILARedirect hands the packet to the locator to SIR translation of an
// entry. Entry and Gen identify the entry weakly: the entry slot may have
// been reused, in which case its generation differs.
type ILARedirect struct {
	Entry uint32
	Gen   uint32
}

func (ILARedirect) Next() LookupNext { return LookupILA }

func (a ILARedirect) String() string {
	return fmt.Sprintf("ila entry:%d gen:%d", a.Entry, a.Gen)
}
