// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"github.com/emer/sonata/errs"
)

// CreateCall records one entity-creation call.
type CreateCall struct {
	Model  string
	N      int
	Params []Params `desc:"nil for plain Create; length 1 or N for CreateWithParams"`
}

// SetParamsCall records one parameter-set call.
type SetParamsCall struct {
	IDs    []ID
	Params Params
}

// ConnectCall records one bulk-connect call.
type ConnectCall struct {
	Spec      GraphSpec
	ChunkSize int
}

// Mock is an in-memory Kernel that records every call, for tests and
// examples.  Entity handles are assigned sequentially from 1.  Configure
// DefaultsFor with the models the test needs; Defaults fails for unknown
// models like a real kernel would.
type Mock struct {
	Capabilities Caps              `desc:"reported by Caps; NewMock enables HDF5"`
	DefaultsFor  map[string]Params `desc:"model -> default (settable) parameters"`

	Creates  []CreateCall
	Sets     []SetParamsCall
	Connects []ConnectCall
	Statuses []Params
	RunTimes []float64

	next    ID
	applied map[ID]Params
}

// NewMock returns a Mock with HDF5 capability enabled and no models
// registered.
func NewMock() *Mock {
	return &Mock{
		Capabilities: Caps{HDF5: true},
		DefaultsFor:  map[string]Params{},
		next:         1,
		applied:      map[ID]Params{},
	}
}

// Caps implements Kernel.
func (m *Mock) Caps() Caps {
	return m.Capabilities
}

// Create implements Kernel.
func (m *Mock) Create(model string, n int) (Group, error) {
	if n < 0 {
		return Group{}, errs.Kernelf("cannot create %d entities of model %s", n, model)
	}
	g := m.alloc(n)
	m.Creates = append(m.Creates, CreateCall{Model: model, N: n})
	return g, nil
}

// CreateWithParams implements Kernel.
func (m *Mock) CreateWithParams(model string, n int, params []Params) (Group, error) {
	if len(params) != 1 && len(params) != n {
		return Group{}, errs.Kernelf("params length %d must be 1 or %d for model %s", len(params), n, model)
	}
	g := m.alloc(n)
	for i, id := range g.ids {
		p := params[0]
		if len(params) == n {
			p = params[i]
		}
		m.merge(id, p)
	}
	m.Creates = append(m.Creates, CreateCall{Model: model, N: n, Params: params})
	return g, nil
}

// SetParams implements Kernel.
func (m *Mock) SetParams(g Group, p Params) error {
	for _, id := range g.ids {
		m.merge(id, p)
	}
	m.Sets = append(m.Sets, SetParamsCall{IDs: g.IDs(), Params: p.Copy()})
	return nil
}

// Defaults implements Kernel.
func (m *Mock) Defaults(model string) (Params, error) {
	p, ok := m.DefaultsFor[model]
	if !ok {
		return nil, errs.Kernelf("model %s is not registered with the kernel", model)
	}
	return p.Copy(), nil
}

// ConnectFromSpec implements Kernel.
func (m *Mock) ConnectFromSpec(spec GraphSpec, chunkSize int) error {
	m.Connects = append(m.Connects, ConnectCall{Spec: spec, ChunkSize: chunkSize})
	return nil
}

// SetStatus implements Kernel.
func (m *Mock) SetStatus(p Params) error {
	m.Statuses = append(m.Statuses, p.Copy())
	return nil
}

// Run implements Kernel.
func (m *Mock) Run(t float64) error {
	m.RunTimes = append(m.RunTimes, t)
	return nil
}

// Applied returns the merged parameters set on one entity so far.
func (m *Mock) Applied(id ID) Params {
	return m.applied[id].Copy()
}

func (m *Mock) alloc(n int) Group {
	ids := make([]ID, n)
	for i := range ids {
		ids[i] = m.next
		m.next++
	}
	return Group{ids: ids}
}

func (m *Mock) merge(id ID, p Params) {
	cur, ok := m.applied[id]
	if !ok {
		cur = Params{}
		m.applied[id] = cur
	}
	for k, v := range p {
		cur[k] = v
	}
}
