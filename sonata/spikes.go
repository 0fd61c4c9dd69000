// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sonata

import (
	"gonum.org/v1/hdf5"

	"github.com/emer/sonata/config"
	"github.com/emer/sonata/errs"
	"github.com/emer/sonata/hdf"
	"github.com/emer/sonata/kernel"
)

// createSpikeGenerators creates one spike generator per node of each
// virtual population, loading the spike trains from the stimulus file
// the config's inputs section associates with the population.
func (nw *Network) createSpikeGenerators(nc config.NodesEntry) error {
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
			typeIDs, err := hdf.ReadInt64s(pg, "node_type_id")
			pg.Close()
			if err != nil {
				return err
			}
			n := len(typeIDs)

			input, err := nw.cfg.InputFor(pop)
			if err != nil {
				return err
			}
			nodeIDs, timestamps, err := readSpikes(input.InputFile, pop)
			if err != nil {
				return err
			}
			trains := bucketSpikes(nodeIDs, timestamps, n)

			params := make([]kernel.Params, n)
			for i, train := range trains {
				params[i] = kernel.Params{"spike_times": train, "precise_times": true}
			}
			grp, err := nw.k.CreateWithParams("spike_generator", n, params)
			if err != nil {
				return err
			}
			nw.collections[pop] = grp
			logger.Debug("created spike generators", "population", pop, "n", n, "spikes", len(timestamps))
		}
		return nil
	})
}

// readSpikes reads node ids and timestamps from a stimulus HDF5 file.
// The spikes group either holds one sub-group per population or the
// datasets directly; mixing both at one level is rejected as ambiguous.
// Node ids come from a dataset named gids or node_ids.
func readSpikes(path, pop string) (nodeIDs []int64, timestamps []float64, err error) {
	err = hdf.WithFile(path, func(f *hdf5.File) error {
		spikes, err := f.OpenGroup("spikes")
		if err != nil {
			return errs.Configf("no 'spikes' group in input spikes file %s: %w", path, err)
		}
		defer spikes.Close()

		names, err := hdf.ChildNames(spikes)
		if err != nil {
			return errs.IOf("list spikes group in %s: %w", path, err)
		}
		allGroups, anyGroups := true, false
		for _, name := range names {
			if hdf.IsGroup(spikes, name) {
				anyGroups = true
			} else {
				allGroups = false
			}
		}
		if (allGroups || anyGroups) && !(allGroups && anyGroups) {
			return errs.Configf("unsupported HDF5 structure; groups and datasets cannot be on the same hierarchical level in input spikes file %s", path)
		}

		holder := spikes
		if allGroups {
			sub, err := spikes.OpenGroup(pop)
			if err != nil {
				return errs.Configf("did not find a matching HDF5 group name for population %s in %s", pop, path)
			}
			defer sub.Close()
			holder = sub
			if names, err = hdf.ChildNames(sub); err != nil {
				return errs.IOf("list spikes group %s in %s: %w", pop, path, err)
			}
		}

		idName := ""
		for _, cand := range []string{"gids", "node_ids"} {
			for _, name := range names {
				if name == cand {
					idName = cand
					break
				}
			}
			if idName != "" {
				break
			}
		}
		if idName == "" {
			return errs.Configf("no dataset called 'gids' or 'node_ids' in %s", path)
		}

		if nodeIDs, err = hdf.ReadInt64s(holder, idName); err != nil {
			return err
		}
		if timestamps, err = hdf.ReadFloat64s(holder, "timestamps"); err != nil {
			return err
		}
		if len(nodeIDs) != len(timestamps) {
			return errs.Configf("%s and timestamps have different lengths (%d vs %d) in %s", idName, len(nodeIDs), len(timestamps), path)
		}
		return nil
	})
	return nodeIDs, timestamps, err
}

// bucketSpikes distributes the timestamps over per-node spike trains for
// nodes 0..n-1, preserving file order within each train.  Ids outside
// that range are dropped; nodes without spikes get an empty train.  Note
// this assumes the population's ids are a dense 0..n-1 range.
func bucketSpikes(nodeIDs []int64, timestamps []float64, n int) [][]float64 {
	trains := make([][]float64, n)
	for i := range trains {
		trains[i] = []float64{}
	}
	for i, id := range nodeIDs {
		if id < 0 || id >= int64(n) {
			continue
		}
		trains[id] = append(trains[id], timestamps[i])
	}
	return trains
}
