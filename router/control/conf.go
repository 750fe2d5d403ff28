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

package control

import (
	"io"
	"net/netip"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/pkg/log"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/private/config"
	"github.com/ilarouter/ila/router/fib"
	"github.com/ilarouter/ila/router/store"
)

// Adjacency kinds of the static configuration.
const (
	KindDrop    = "drop"
	KindLocal   = "local"
	KindRewrite = "rewrite"
)

// Config is the static configuration applied at startup. Interfaces get the
// IDs 1..n in the order they are listed.
type Config struct {
	config.NoDefaulter

	Interfaces  []InterfaceConfig `toml:"interfaces,omitempty"`
	Adjacencies []AdjacencyConfig `toml:"adjacencies,omitempty"`
	Routes      []RouteConfig     `toml:"routes,omitempty"`
	Entries     []EntryConfig     `toml:"entries,omitempty"`
}

type InterfaceConfig struct {
	Name string `toml:"name"`
	// Device is the name of the underlay device.
	Device string `toml:"device,omitempty"`
	// ILA enables SIR to locator translation on ingress.
	ILA bool `toml:"ila,omitempty"`
}

type AdjacencyConfig struct {
	Name      string     `toml:"name"`
	Kind      string     `toml:"kind"`
	Interface string     `toml:"interface,omitempty"`
	NextHop   netip.Addr `toml:"next_hop,omitempty"`
}

type RouteConfig struct {
	Prefix    netip.Prefix `toml:"prefix"`
	Adjacency string       `toml:"adjacency"`
}

type EntryConfig struct {
	Identifier ila.Half         `toml:"identifier"`
	Locator    ila.Half         `toml:"locator"`
	SIRPrefix  ila.Half         `toml:"sir_prefix"`
	Mode       ila.ChecksumMode `toml:"csum_mode,omitempty"`
	// Adjacency names the local adjacency. Entries without one are not
	// terminated on this node.
	Adjacency string `toml:"adjacency,omitempty"`
}

// Validate checks that all names are unique and that all references resolve.
func (cfg *Config) Validate() error {
	intfs := make(map[string]struct{}, len(cfg.Interfaces))
	for _, intf := range cfg.Interfaces {
		if intf.Name == "" {
			return serrors.New("interface without name")
		}
		if _, ok := intfs[intf.Name]; ok {
			return serrors.New("duplicate interface", "intf", intf.Name)
		}
		intfs[intf.Name] = struct{}{}
	}
	adjs := make(map[string]struct{}, len(cfg.Adjacencies))
	for _, adj := range cfg.Adjacencies {
		if adj.Name == "" {
			return serrors.New("adjacency without name")
		}
		if _, ok := adjs[adj.Name]; ok {
			return serrors.New("duplicate adjacency", "adj", adj.Name)
		}
		adjs[adj.Name] = struct{}{}
		switch adj.Kind {
		case KindDrop:
		case KindLocal, KindRewrite:
			if _, ok := intfs[adj.Interface]; !ok {
				return serrors.JoinNoStack(ErrUnknownInterface, nil,
					"adj", adj.Name, "intf", adj.Interface)
			}
		default:
			return serrors.New("unknown adjacency kind", "adj", adj.Name, "kind", adj.Kind)
		}
		if adj.NextHop.IsValid() && !adj.NextHop.Is6() {
			return serrors.New("next hop is not IPv6", "adj", adj.Name,
				"next_hop", adj.NextHop)
		}
	}
	for _, r := range cfg.Routes {
		if !r.Prefix.IsValid() || !r.Prefix.Addr().Is6() {
			return serrors.New("route prefix is not IPv6", "prefix", r.Prefix)
		}
		if _, ok := adjs[r.Adjacency]; !ok {
			return serrors.JoinNoStack(fib.ErrUnknownAdjacency, nil,
				"prefix", r.Prefix, "adj", r.Adjacency)
		}
	}
	ids := make(map[ila.Half]struct{}, len(cfg.Entries))
	for _, e := range cfg.Entries {
		if _, ok := ids[e.Identifier]; ok {
			return serrors.JoinNoStack(store.ErrDuplicateIdentifier, nil,
				"identifier", e.Identifier)
		}
		ids[e.Identifier] = struct{}{}
		if e.Mode == ila.ModeAdjustTransport {
			return serrors.JoinNoStack(store.ErrUnsupportedMode, nil,
				"identifier", e.Identifier, "mode", e.Mode)
		}
		if e.Mode == ila.ModeNeutralMap && e.Identifier.Flagged() {
			return serrors.JoinNoStack(store.ErrInvalidIdentifier, nil,
				"identifier", e.Identifier)
		}
		if e.Adjacency == "" {
			continue
		}
		if _, ok := adjs[e.Adjacency]; !ok {
			return serrors.JoinNoStack(fib.ErrUnknownAdjacency, nil,
				"identifier", e.Identifier, "adj", e.Adjacency)
		}
	}
	return nil
}

// Sample writes the static tables of the sample configuration.
func (cfg *Config) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx,
		config.ArrayStringSampler{Name: "interfaces", Text: interfacesSample},
		config.ArrayStringSampler{Name: "adjacencies", Text: adjacenciesSample},
		config.ArrayStringSampler{Name: "routes", Text: routesSample},
		config.ArrayStringSampler{Name: "entries", Text: entriesSample},
	)
}

// Apply configures the data plane with the static configuration. It must be
// called once, before the data plane runs.
func (m *Manager) Apply(cfg *Config) error {
	ifIDs := make(map[string]uint16, len(cfg.Interfaces))
	for i, intf := range cfg.Interfaces {
		ifID := uint16(i + 1)
		if err := m.dp.AddInterface(ifID, intf.Name, intf.Device); err != nil {
			return serrors.Wrap("adding interface", err, "intf", intf.Name)
		}
		ifIDs[intf.Name] = ifID
	}

	adjs := make(map[string]fib.AdjIndex, len(cfg.Adjacencies))
	for _, a := range cfg.Adjacencies {
		idx, err := m.addAdjacency(a, ifIDs)
		if err != nil {
			return serrors.Wrap("adding adjacency", err, "adj", a.Name)
		}
		adjs[a.Name] = idx
		log.Debug("Adjacency configured", "adj", a.Name, "index", idx)
	}

	for _, r := range cfg.Routes {
		idx, ok := adjs[r.Adjacency]
		if !ok {
			return serrors.JoinNoStack(fib.ErrUnknownAdjacency, nil, "adj", r.Adjacency)
		}
		if err := m.table.AddRoute(r.Prefix, idx); err != nil {
			return serrors.Wrap("adding route", err, "prefix", r.Prefix)
		}
	}

	for _, e := range cfg.Entries {
		args := EntryArgs{
			Identifier: e.Identifier,
			Locator:    e.Locator,
			SIRPrefix:  e.SIRPrefix,
			Mode:       e.Mode,
			LocalAdj:   fib.AdjNil,
		}
		if e.Adjacency != "" {
			idx, ok := adjs[e.Adjacency]
			if !ok {
				return serrors.JoinNoStack(fib.ErrUnknownAdjacency, nil, "adj", e.Adjacency)
			}
			args.LocalAdj = idx
		}
		if _, err := m.AddEntry(args); err != nil {
			return serrors.Wrap("adding entry", err, "identifier", e.Identifier)
		}
	}

	for _, intf := range cfg.Interfaces {
		if !intf.ILA {
			continue
		}
		if err := m.EnableInterface(intf.Name); err != nil {
			return err
		}
	}
	log.Info("Static configuration applied",
		"interfaces", len(cfg.Interfaces),
		"adjacencies", len(cfg.Adjacencies),
		"routes", len(cfg.Routes),
		"entries", len(cfg.Entries))
	return nil
}

func (m *Manager) addAdjacency(a AdjacencyConfig, ifIDs map[string]uint16) (fib.AdjIndex, error) {
	var adj fib.Adjacency
	switch a.Kind {
	case KindDrop:
		return fib.AdjDrop, nil
	case KindLocal, KindRewrite:
		ifID, ok := ifIDs[a.Interface]
		if !ok {
			return fib.AdjNil, serrors.JoinNoStack(ErrUnknownInterface, nil, "intf", a.Interface)
		}
		if a.Kind == KindLocal {
			adj = fib.LocalAdjacency{Interface: ifID}
		} else {
			adj = fib.RewriteAdjacency{Interface: ifID, NextHop: a.NextHop}
		}
	default:
		return fib.AdjNil, serrors.New("unknown adjacency kind", "kind", a.Kind)
	}
	return m.table.AddAdjacency(adj)
}

const interfacesSample = `
# Name of the interface. (required)
name = "host0"

# Name of the TUN device backing the interface. (default: chosen by the system)
device = "ila0"

# Translate SIR addresses to locators on ingress. (default false)
ila = true
`

const adjacenciesSample = `
# Name the adjacency is referenced by. (required)
name = "uplink"

# One of drop, local or rewrite. (required)
kind = "rewrite"

# Egress interface of local and rewrite adjacencies.
interface = "host0"

# Next hop of rewrite adjacencies. (default "")
next_hop = "fe80::1"
`

const routesSample = `
# IPv6 prefix of the route. (required)
prefix = "::/0"

# Name of the adjacency the route points to. (required)
adjacency = "uplink"
`

const entriesSample = `
# Identifier half of the entry. (required)
identifier = "0011:2233:4455:6677"

# Locator of the entry. (required)
locator = "aaaa:0000:0000:0001"

# SIR prefix of the entry. (required)
sir_prefix = "bbbb:0000:0000:0002"

# Checksum mode, one of no-action or neutral-map. (default no-action)
csum_mode = "neutral-map"

# Local adjacency of entries terminated on this node. (default "")
adjacency = "uplink"
`
