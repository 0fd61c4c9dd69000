// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sonata

import (
	"github.com/emer/sonata/errs"
	"github.com/emer/sonata/kernel"
	"github.com/emer/sonata/typetable"
)

// buildEdgeSpecs derives one EdgeSpec per networks.edges entry: the edge
// type table is reduced to a type id -> synapse parameter map, paired
// with the bulk edge HDF5 file the kernel will stream.
func (nw *Network) buildEdgeSpecs() ([]kernel.EdgeSpec, error) {
	var specs []kernel.EdgeSpec
	for _, ec := range nw.cfg.Networks.Edges {
		tt, err := typetable.Read(ec.EdgeTypesFile)
		if err != nil {
			return nil, err
		}
		synSpecs, err := nw.edgeTypeParams(tt)
		if err != nil {
			return nil, err
		}
		specs = append(specs, kernel.EdgeSpec{File: ec.EdgesFile, SynSpecs: synSpecs})
	}
	return specs, nil
}

// edgeTypeParams builds the type id -> parameters map for one edge types
// table.  Columns are renamed to the kernel's names (model_template ->
// synapse_model, syn_weight -> weight), then each row keeps the columns
// the row's synapse model actually accepts -- the intersection of the
// table's columns with the model's default parameter names.  A
// dynamics_params file reference is loaded and merged in, and the
// reference itself never enters the map.
func (nw *Network) edgeTypeParams(tt *typetable.Table) (map[int64]kernel.Params, error) {
	if !tt.HasCol("model_template") {
		return nil, errs.Configf("missing the required 'model_template' header specifying synapse models in %s", tt.Path)
	}
	// tolerant renames: absent targets pass through unchanged
	tt.Rename("model_template", "synapse_model")
	tt.Rename("syn_weight", "weight")

	haveDynamics := tt.HasCol("dynamics_params")
	cols := tt.Cols()

	synSpecs := make(map[int64]kernel.Params, tt.Rows())
	for row := 0; row < tt.Rows(); row++ {
		model := tt.Str("synapse_model", row)
		settable, err := nw.defaultsKeys(model)
		if err != nil {
			return nil, err
		}
		p := kernel.Params{}
		for _, col := range cols {
			if col == tt.Key || col == "dynamics_params" || !settable[col] {
				continue
			}
			if f, ok := tt.Float(col, row); ok {
				p[col] = f
			} else {
				p[col] = tt.Str(col, row)
			}
		}
		if haveDynamics {
			params, err := loadParamsFile(nw.componentPath(nw.cfg.Components.SynapticModelsDir, tt.Str("dynamics_params", row)))
			if err != nil {
				return nil, err
			}
			for k, v := range params {
				p[k] = v
			}
		}
		synSpecs[tt.ID(row)] = p
	}
	return synSpecs, nil
}
