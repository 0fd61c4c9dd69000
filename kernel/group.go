// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import "fmt"

// ID is an opaque kernel entity handle.
type ID int64

// Group is an immutable ordered collection of kernel entity handles for
// one population.  Order is creation order (row order of the population
// table).  Grow a Group with GroupBuilder; derive sub-Groups with
// MaskSelect.
type Group struct {
	ids []ID
}

// NewGroup returns a Group over a copy of the given handles.
func NewGroup(ids []ID) Group {
	out := make([]ID, len(ids))
	copy(out, ids)
	return Group{ids: out}
}

// Len returns the number of entities in the group.
func (g Group) Len() int {
	return len(g.ids)
}

// IDs returns a copy of the entity handles in order.
func (g Group) IDs() []ID {
	out := make([]ID, len(g.ids))
	copy(out, g.ids)
	return out
}

// At returns the i-th entity handle.
func (g Group) At(i int) ID {
	return g.ids[i]
}

// MaskSelect returns the sub-group of entities whose position in the
// group has a true mask value, preserving order.  The mask must have the
// group's length.
func (g Group) MaskSelect(mask []bool) (Group, error) {
	if len(mask) != len(g.ids) {
		return Group{}, fmt.Errorf("mask length %d does not match group length %d", len(mask), len(g.ids))
	}
	var out []ID
	for i, on := range mask {
		if on {
			out = append(out, g.ids[i])
		}
	}
	return Group{ids: out}, nil
}

// Join concatenates groups in argument order.
func Join(gs ...Group) Group {
	var b GroupBuilder
	for _, g := range gs {
		b.Append(g)
	}
	return b.Build()
}

// GroupBuilder accumulates entity handles in append order and yields an
// immutable Group.  The zero value is ready to use.
type GroupBuilder struct {
	ids []ID
}

// Append adds all entities of the group, preserving their order.
func (b *GroupBuilder) Append(g Group) {
	b.ids = append(b.ids, g.ids...)
}

// Build returns the accumulated entities as an immutable Group.
func (b *GroupBuilder) Build() Group {
	return NewGroup(b.ids)
}
