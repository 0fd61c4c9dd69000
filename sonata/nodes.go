// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sonata

import (
	"sort"

	"gonum.org/v1/hdf5"

	"github.com/emer/sonata/config"
	"github.com/emer/sonata/errs"
	"github.com/emer/sonata/hdf"
	"github.com/emer/sonata/kernel"
	"github.com/emer/sonata/typetable"
)

// nodeType is one row of the node types table reduced to what neuron
// creation needs.
type nodeType struct {
	model    string
	dynamics string // parameter file, relative to components.point_neuron_models_dir
}

// nodeTypeMap builds the node type id -> properties map from a node
// types table.  Neuron rows must declare the model_template and
// dynamics_params columns; model names lose their nest: prefix.
func nodeTypeMap(tt *typetable.Table) (map[int64]nodeType, error) {
	if !tt.HasCol("model_template") {
		return nil, errs.Configf("missing the required 'model_template' header specifying neuron models in %s", tt.Path)
	}
	if !tt.HasCol("dynamics_params") {
		return nil, errs.Configf("missing the required 'dynamics_params' header specifying parameter files in %s", tt.Path)
	}
	tt.StripPrefix("model_template", "nest:")

	types := make(map[int64]nodeType, tt.Rows())
	for row := 0; row < tt.Rows(); row++ {
		types[tt.ID(row)] = nodeType{
			model:    tt.Str("model_template", row),
			dynamics: tt.Str("dynamics_params", row),
		}
	}
	return types, nil
}

// createNeurons creates all populations of one node HDF5 file as neuron
// entities on the kernel and parameterizes them per their type ids.
func (nw *Network) createNeurons(nc config.NodesEntry, tt *typetable.Table) error {
	types, err := nodeTypeMap(tt)
	if err != nil {
		return err
	}
	oneModel, single := tt.SingleValue("model_template")

	return hdf.WithFile(nc.NodesFile, func(f *hdf5.File) error {
		nodes, err := f.OpenGroup("nodes")
		if err != nil {
			return errs.Configf("no 'nodes' group in %s: %w", nc.NodesFile, err)
		}
		defer nodes.Close()

		pops, err := hdf.ChildNames(nodes)
		if err != nil {
			return errs.IOf("list populations in %s: %w", nc.NodesFile, err)
		}
		for _, pop := range pops {
			pg, err := nodes.OpenGroup(pop)
			if err != nil {
				return errs.IOf("open population %s in %s: %w", pop, nc.NodesFile, err)
			}
			ids, err := hdf.ReadInt64s(pg, "node_type_id")
			pg.Close()
			if err != nil {
				return err
			}

			var grp kernel.Group
			if single {
				grp, err = nw.createUniform(oneModel, ids, types)
			} else {
				grp, err = nw.createPerRun(ids, types)
			}
			if err != nil {
				return err
			}
			nw.collections[pop] = grp
			logger.Debug("created neuron population", "population", pop, "n", grp.Len())
		}
		return nil
	})
}

// createUniform handles the common case of one neuron model across the
// whole table: one batched create for the full population, then one
// parameter application per distinct type id, each on exactly the
// mask-selected subset of rows carrying that id.
func (nw *Network) createUniform(model string, ids []int64, types map[int64]nodeType) (kernel.Group, error) {
	grp, err := nw.k.Create(model, len(ids))
	if err != nil {
		return kernel.Group{}, err
	}
	for _, tid := range uniqueSorted(ids) {
		nt, ok := types[tid]
		if !ok {
			return kernel.Group{}, errs.Configf("node type id %d is not present in the node types table", tid)
		}
		params, err := loadParamsFile(nw.componentPath(nw.cfg.Components.PointNeuronModelsDir, nt.dynamics))
		if err != nil {
			return kernel.Group{}, err
		}
		mask := make([]bool, len(ids))
		for i, id := range ids {
			mask[i] = id == tid
		}
		sub, err := grp.MaskSelect(mask)
		if err != nil {
			return kernel.Group{}, err
		}
		if err := nw.k.SetParams(sub, params); err != nil {
			return kernel.Group{}, err
		}
	}
	return grp, nil
}

// createPerRun handles tables mixing neuron models: consecutive runs of
// equal type ids become one creation batch each, concatenated in row
// order.  Only run-length merging -- a type id recurring after a gap
// yields a second batch.
func (nw *Network) createPerRun(ids []int64, types map[int64]nodeType) (kernel.Group, error) {
	var b kernel.GroupBuilder
	for _, r := range runLengths(ids) {
		nt, ok := types[r.id]
		if !ok {
			return kernel.Group{}, errs.Configf("node type id %d is not present in the node types table", r.id)
		}
		params, err := loadParamsFile(nw.componentPath(nw.cfg.Components.PointNeuronModelsDir, nt.dynamics))
		if err != nil {
			return kernel.Group{}, err
		}
		g, err := nw.k.CreateWithParams(nt.model, r.n, []kernel.Params{params})
		if err != nil {
			return kernel.Group{}, err
		}
		b.Append(g)
	}
	return b.Build(), nil
}

// run is one maximal stretch of consecutive equal type ids.
type run struct {
	id int64
	n  int
}

// runLengths run-length encodes the type id sequence in row order.
func runLengths(ids []int64) []run {
	var runs []run
	for _, id := range ids {
		if len(runs) > 0 && runs[len(runs)-1].id == id {
			runs[len(runs)-1].n++
		} else {
			runs = append(runs, run{id: id, n: 1})
		}
	}
	return runs
}

// uniqueSorted returns the distinct values ascending.
func uniqueSorted(ids []int64) []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
