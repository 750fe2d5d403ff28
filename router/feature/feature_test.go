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

package feature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilarouter/ila/router/feature"
)

func TestRegister(t *testing.T) {
	c := feature.New()
	_, err := c.Register("ila-sir2ila", feature.Lookup)
	require.NoError(t, err)
	_, err = c.Register("ila-sir2ila")
	assert.ErrorIs(t, err, feature.ErrDuplicateStep)
	_, err = c.Register(feature.Lookup)
	assert.ErrorIs(t, err, feature.ErrDuplicateStep)

	_, err = c.Register("a", "b")
	require.NoError(t, err)
	_, err = c.Register("b", "a")
	assert.ErrorIs(t, err, feature.ErrOrderCycle)
	_, ok := c.Step("b")
	assert.False(t, ok)
}

func TestChainOrder(t *testing.T) {
	c := feature.New()
	sir2ila, err := c.Register("ila-sir2ila", feature.Lookup)
	require.NoError(t, err)
	acl, err := c.Register("acl", "ila-sir2ila")
	require.NoError(t, err)
	counter, err := c.Register("counter")
	require.NoError(t, err)

	const ifID = 3
	_, err = c.AddStep(ifID, counter)
	require.NoError(t, err)
	_, err = c.AddStep(ifID, sir2ila)
	require.NoError(t, err)
	pos, err := c.AddStep(ifID, acl)
	require.NoError(t, err)
	assert.Equal(t, feature.Position(0), pos)

	assert.Equal(t, []string{"acl", "ila-sir2ila", "counter", feature.Lookup}, c.Names(ifID))

	chain := c.Chain(ifID)
	var got []feature.StepID
	for step, p, ok := chain.First(); ok; step, p, ok = chain.Next(p) {
		got = append(got, step)
	}
	assert.Equal(t, []feature.StepID{acl, sir2ila, counter}, got)
}

func TestAddRemoveStep(t *testing.T) {
	c := feature.New()
	sir2ila, err := c.Register("ila-sir2ila", feature.Lookup)
	require.NoError(t, err)

	assert.Nil(t, c.Chain(1))
	assert.False(t, c.Has(1, sir2ila))
	assert.Equal(t, []string{feature.Lookup}, c.Names(1))

	_, err = c.AddStep(1, sir2ila)
	require.NoError(t, err)
	assert.True(t, c.Has(1, sir2ila))
	assert.False(t, c.Has(2, sir2ila), "chains are per interface")

	_, err = c.AddStep(1, sir2ila)
	assert.ErrorIs(t, err, feature.ErrStepExists)

	old := c.Chain(1)
	require.NoError(t, c.RemoveStep(1, sir2ila))
	assert.False(t, c.Has(1, sir2ila))
	assert.Nil(t, c.Chain(1))
	assert.Equal(t, 1, old.Len(), "published chains are immutable")

	assert.ErrorIs(t, c.RemoveStep(1, sir2ila), feature.ErrStepNotFound)
	_, err = c.AddStep(1, feature.StepID(42))
	assert.ErrorIs(t, err, feature.ErrUnknownStep)
}

func TestNilChain(t *testing.T) {
	var c *feature.Chain
	_, pos, ok := c.Next(feature.Start)
	assert.False(t, ok)
	assert.Equal(t, feature.Start, pos)
	assert.Zero(t, c.Len())
}
