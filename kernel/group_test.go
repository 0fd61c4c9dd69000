// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupImmutability(t *testing.T) {
	src := []ID{1, 2, 3}
	g := NewGroup(src)
	src[0] = 99
	assert.Equal(t, []ID{1, 2, 3}, g.IDs())

	ids := g.IDs()
	ids[1] = 99
	assert.Equal(t, ID(2), g.At(1))
}

func TestMaskSelect(t *testing.T) {
	g := NewGroup([]ID{10, 11, 12, 13})

	sub, err := g.MaskSelect([]bool{true, false, false, true})
	require.NoError(t, err)
	assert.Equal(t, []ID{10, 13}, sub.IDs())

	_, err = g.MaskSelect([]bool{true})
	assert.Error(t, err)

	empty, err := g.MaskSelect([]bool{false, false, false, false})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestGroupBuilderPreservesAppendOrder(t *testing.T) {
	var b GroupBuilder
	b.Append(NewGroup([]ID{5, 6}))
	b.Append(NewGroup([]ID{1}))
	b.Append(NewGroup([]ID{9, 2}))

	g := b.Build()
	assert.Equal(t, []ID{5, 6, 1, 9, 2}, g.IDs())
}

func TestJoin(t *testing.T) {
	g := Join(NewGroup([]ID{1}), NewGroup(nil), NewGroup([]ID{2, 3}))
	assert.Equal(t, []ID{1, 2, 3}, g.IDs())
}
