// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sonata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/hdf5"

	"github.com/emer/sonata/kernel"
)

// writeFile writes a fixture file, creating parent directories.
func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// writeNodesH5 writes a node HDF5 table with one population per map
// entry, each a nodes/<pop>/node_type_id dataset.
func writeNodesH5(t *testing.T, path string, pops map[string][]int64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	require.NoError(t, err)
	defer f.Close()
	nodes, err := f.CreateGroup("nodes")
	require.NoError(t, err)
	defer nodes.Close()
	for pop, ids := range pops {
		pg, err := nodes.CreateGroup(pop)
		require.NoError(t, err)
		writeInt64Dataset(t, pg, "node_type_id", ids)
		pg.Close()
	}
}

// writeSpikesH5 writes a stimulus file.  With group != "" the datasets go
// under spikes/<group>, otherwise directly under spikes.  idName is gids
// or node_ids.
func writeSpikesH5(t *testing.T, path, group, idName string, ids []int64, timestamps []float64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	require.NoError(t, err)
	defer f.Close()
	spikes, err := f.CreateGroup("spikes")
	require.NoError(t, err)
	defer spikes.Close()
	holder := spikes
	if group != "" {
		sub, err := spikes.CreateGroup(group)
		require.NoError(t, err)
		defer sub.Close()
		holder = sub
	}
	writeInt64Dataset(t, holder, idName, ids)
	writeFloat64Dataset(t, holder, "timestamps", timestamps)
}

// writeEmptyH5 writes a valid but empty HDF5 file (edge data is read
// kernel-side, so tests only need the pre-flight open to succeed).
func writeEmptyH5(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func writeInt64Dataset(t *testing.T, g *hdf5.Group, name string, vals []int64) {
	t.Helper()
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(vals))}, nil)
	require.NoError(t, err)
	defer space.Close()
	ds, err := g.CreateDataset(name, hdf5.T_NATIVE_INT64, space)
	require.NoError(t, err)
	defer ds.Close()
	if len(vals) > 0 {
		require.NoError(t, ds.Write(&vals))
	}
}

func writeFloat64Dataset(t *testing.T, g *hdf5.Group, name string, vals []float64) {
	t.Helper()
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(vals))}, nil)
	require.NoError(t, err)
	defer space.Close()
	ds, err := g.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
	require.NoError(t, err)
	defer ds.Close()
	if len(vals) > 0 {
		require.NoError(t, ds.Write(&vals))
	}
}

// newTestNetwork writes the config body to dir/config.json and opens it
// on a fresh Mock kernel.
func newTestNetwork(t *testing.T, dir, configBody string) (*Network, *kernel.Mock) {
	t.Helper()
	path := writeFile(t, filepath.Join(dir, "config.json"), configBody)
	k := kernel.NewMock()
	nw, err := NewNetwork(k, path)
	require.NoError(t, err)
	return nw, k
}
