// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package kernel defines the boundary to the external simulation kernel.
The kernel owns all simulation entities and all heavy lifting (numerical
integration, chunked reads of the bulk edge tables); this module only
holds opaque entity handles (Groups) and drives the kernel through the
Kernel interface.  A recording Mock implementation is provided for tests
and examples.
*/
package kernel

// Params is a flat parameter dictionary as the kernel consumes it,
// e.g. {"tau_m": 20.0, "E_L": -70.0}.
type Params map[string]any

// Copy returns a shallow copy of the parameter map.
func (p Params) Copy() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Caps reports which optional capabilities the kernel was built with.
type Caps struct {
	HDF5 bool `desc:"kernel can stream-read HDF5 edge tables (bulk connect)"`
}

// EdgeSpec is the per-edge-file connection specification handed to the
// kernel: the bulk edge HDF5 file plus the synapse parameter map derived
// from its edge types table.
type EdgeSpec struct {
	File     string           `desc:"absolute path of the edge HDF5 file, read chunk-wise by the kernel"`
	SynSpecs map[int64]Params `desc:"edge type id -> synapse parameters"`
}

// GraphSpec is the full graph description for the kernel's bulk connect:
// the created node populations and one EdgeSpec per edge file.
type GraphSpec struct {
	Nodes map[string]Group `desc:"population name -> created entities"`
	Edges []EdgeSpec
}

// Kernel is the external simulation kernel.  Implementations are not
// required to be safe for concurrent use; this module drives them from a
// single goroutine.
type Kernel interface {
	// Caps reports the kernel's optional capabilities.
	Caps() Caps

	// Create instantiates n entities of the given model with model
	// defaults, returning their handles in creation order.
	Create(model string, n int) (Group, error)

	// CreateWithParams instantiates n entities with parameters applied
	// at creation.  params must have length 1 (applied to every entity)
	// or n (applied element-wise).
	CreateWithParams(model string, n int, params []Params) (Group, error)

	// SetParams applies the parameters to every entity in the group.
	SetParams(g Group, p Params) error

	// Defaults returns the default parameter dictionary of a model; its
	// key set is the set of parameter names the model accepts.
	Defaults(model string) (Params, error)

	// ConnectFromSpec builds all connections described by the graph
	// specification, reading the edge HDF5 files in chunks of the given
	// number of elements per dataset read.
	ConnectFromSpec(spec GraphSpec, chunkSize int) error

	// SetStatus applies kernel-level attributes (resolution etc).
	SetStatus(p Params) error

	// Run advances the simulation by t milliseconds.
	Run(t float64) error
}
