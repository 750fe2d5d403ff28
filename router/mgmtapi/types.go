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

package mgmtapi

import (
	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/router"
)

// Problem is an error response as defined in RFC 7807.
type Problem struct {
	// Detail is a human readable explanation of this occurrence of the problem.
	Detail *string `json:"detail,omitempty"`
	// Status is the HTTP status code.
	Status int `json:"status"`
	// Title is a short summary of the problem type.
	Title string `json:"title"`
	// Type identifies the problem type.
	Type *string `json:"type,omitempty"`
}

// Entry is an identifier mapping.
type Entry struct {
	Index      uint32           `json:"index"`
	Identifier ila.Half         `json:"identifier"`
	Locator    ila.Half         `json:"locator"`
	SIRPrefix  ila.Half         `json:"sir_prefix"`
	CsumMode   ila.ChecksumMode `json:"csum_mode"`
	// AdjacencyIndex is the local adjacency. It is absent for entries that
	// are not terminated on this node.
	AdjacencyIndex *uint32 `json:"adjacency_index,omitempty"`
}

// EntryRequest is the body of an entry add.
type EntryRequest struct {
	Identifier     ila.Half         `json:"identifier"`
	Locator        ila.Half         `json:"locator"`
	SIRPrefix      ila.Half         `json:"sir_prefix"`
	CsumMode       ila.ChecksumMode `json:"csum_mode"`
	AdjacencyIndex *uint32          `json:"adjacency_index,omitempty"`
}

// EntryAddresses are the addresses of an entry.
type EntryAddresses struct {
	Index            uint32 `json:"index"`
	SIR              string `json:"sir"`
	Locator          string `json:"locator"`
	ChecksumModifier string `json:"checksum_modifier"`
}

type Adjacency struct {
	Index       uint32 `json:"index"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Pinned      bool   `json:"pinned"`
	Routes      int    `json:"routes"`
}

type InterfaceState struct {
	Name       string `json:"name"`
	ILAEnabled bool   `json:"ila_enabled"`
}

type TraceRequest struct {
	// Count is the number of input packets to trace.
	Count int `json:"count"`
}

type TraceResponse struct {
	// Pending is the number of packets still to be traced.
	Pending int                  `json:"pending"`
	Records []router.TraceRecord `json:"records"`
}
