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

// Package feature implements per-interface ingress feature chains. A chain
// is the ordered list of steps a packet visits after arriving on an
// interface and before the forwarding lookup. Steps are registered once
// with ordering constraints and then enabled or disabled per interface.
package feature

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ilarouter/ila/pkg/private/serrors"
)

// Lookup is the name of the terminal step every chain ends in.
const Lookup = "ip6-lookup"

var (
	ErrStepExists    = errors.New("step already enabled")
	ErrStepNotFound  = errors.New("step not enabled")
	ErrUnknownStep   = errors.New("unknown step")
	ErrDuplicateStep = errors.New("step already registered")
	ErrOrderCycle    = errors.New("step ordering has a cycle")
)

// StepID identifies a registered step.
type StepID uint16

// Position is a position in a chain. The first step of a chain is found
// with Chain.Next(Start).
type Position int

// Start is the position before the first step.
const Start Position = -1

// Chain is an immutable ordered list of steps.
type Chain struct {
	steps []StepID
}

// Next returns the step following pos and its position. It returns false at
// the end of the chain, in which case the packet continues with Lookup.
func (c *Chain) Next(pos Position) (StepID, Position, bool) {
	if c == nil {
		return 0, pos, false
	}
	n := int(pos) + 1
	if n < 0 || n >= len(c.steps) {
		return 0, pos, false
	}
	return c.steps[n], Position(n), true
}

// First returns the first step of the chain.
func (c *Chain) First() (StepID, Position, bool) {
	return c.Next(Start)
}

// Len returns the number of steps in the chain.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.steps)
}

// Chains holds the registered steps and the chain of every interface.
type Chains struct {
	mtx    sync.Mutex
	names  []string
	byName map[string]StepID
	// rank orders steps such that runs-before constraints are honored.
	rank   []int
	before map[StepID][]string
	chains sync.Map // uint16 -> *Chain
	sealed atomic.Bool
}

// New creates an empty registry.
func New() *Chains {
	return &Chains{
		byName: make(map[string]StepID),
		before: make(map[StepID][]string),
	}
}

// Register adds a step that must run before every step named in runsBefore.
// Steps must be registered before the first chain is modified.
func (c *Chains) Register(name string, runsBefore ...string) (StepID, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.sealed.Load() {
		return 0, serrors.New("registry is sealed", "step", name)
	}
	if name == Lookup {
		return 0, serrors.JoinNoStack(ErrDuplicateStep, nil, "step", name)
	}
	if _, ok := c.byName[name]; ok {
		return 0, serrors.JoinNoStack(ErrDuplicateStep, nil, "step", name)
	}
	id := StepID(len(c.names))
	c.names = append(c.names, name)
	c.byName[name] = id
	c.before[id] = runsBefore
	if err := c.sortLocked(); err != nil {
		c.names = c.names[:id]
		delete(c.byName, name)
		delete(c.before, id)
		return 0, err
	}
	return id, nil
}

// sortLocked computes a rank for every step with a topological sort of the
// runs-before constraints. Constraints on unknown steps are ignored.
func (c *Chains) sortLocked() error {
	n := len(c.names)
	indeg := make([]int, n)
	succ := make([][]StepID, n)
	for id, names := range c.before {
		for _, b := range names {
			if to, ok := c.byName[b]; ok {
				succ[id] = append(succ[id], to)
				indeg[to]++
			}
		}
	}
	var ready []StepID
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			ready = append(ready, StepID(i))
		}
	}
	rank := make([]int, n)
	for r := 0; r < n; r++ {
		if len(ready) == 0 {
			return ErrOrderCycle
		}
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		cur := ready[0]
		ready = ready[1:]
		rank[cur] = r
		for _, s := range succ[cur] {
			indeg[s]--
			if indeg[s] == 0 {
				ready = append(ready, s)
			}
		}
	}
	c.rank = rank
	return nil
}

// Step returns the id of a registered step.
func (c *Chains) Step(name string) (StepID, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	id, ok := c.byName[name]
	return id, ok
}

// Name returns the name of a registered step.
func (c *Chains) Name(id StepID) string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if int(id) >= len(c.names) {
		return ""
	}
	return c.names[id]
}

// Chain returns the current chain of an interface. The result is nil if no
// step is enabled on the interface. It never blocks.
func (c *Chains) Chain(ifID uint16) *Chain {
	v, ok := c.chains.Load(ifID)
	if !ok {
		return nil
	}
	return v.(*Chain)
}

// Has reports whether step is enabled on the interface.
func (c *Chains) Has(ifID uint16, step StepID) bool {
	for _, s := range c.Chain(ifID).list() {
		if s == step {
			return true
		}
	}
	return false
}

func (c *Chain) list() []StepID {
	if c == nil {
		return nil
	}
	return c.steps
}

// AddStep enables step on the interface and returns its position.
func (c *Chains) AddStep(ifID uint16, step StepID) (Position, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.sealed.Store(true)

	if int(step) >= len(c.names) {
		return 0, serrors.JoinNoStack(ErrUnknownStep, nil, "step", step)
	}
	old := c.Chain(ifID).list()
	for _, s := range old {
		if s == step {
			return 0, serrors.JoinNoStack(ErrStepExists, nil,
				"step", c.names[step], "interface", ifID)
		}
	}
	steps := make([]StepID, len(old), len(old)+1)
	copy(steps, old)
	steps = append(steps, step)
	sort.SliceStable(steps, func(i, j int) bool {
		return c.rank[steps[i]] < c.rank[steps[j]]
	})
	c.chains.Store(ifID, &Chain{steps: steps})
	for i, s := range steps {
		if s == step {
			return Position(i), nil
		}
	}
	panic("unreachable")
}

// RemoveStep disables step on the interface.
func (c *Chains) RemoveStep(ifID uint16, step StepID) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	old := c.Chain(ifID).list()
	steps := make([]StepID, 0, len(old))
	for _, s := range old {
		if s != step {
			steps = append(steps, s)
		}
	}
	if len(steps) == len(old) {
		return serrors.JoinNoStack(ErrStepNotFound, nil, "step", step, "interface", ifID)
	}
	if len(steps) == 0 {
		c.chains.Delete(ifID)
		return nil
	}
	c.chains.Store(ifID, &Chain{steps: steps})
	return nil
}

// Names returns the step names of the interface's chain, ending in Lookup.
func (c *Chains) Names(ifID uint16) []string {
	steps := c.Chain(ifID).list()
	c.mtx.Lock()
	defer c.mtx.Unlock()
	r := make([]string, 0, len(steps)+1)
	for _, s := range steps {
		r = append(r, c.names[s])
	}
	return append(r, Lookup)
}
