// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package hdf wraps the small HDF5 reads this module performs itself:
population type-id arrays and stimulus spike datasets.  Every open is
scoped so handles are closed on all exit paths.  The bulk edge tables are
never read here -- the kernel streams those in chunks on its side.
*/
package hdf

import (
	"path/filepath"

	"gonum.org/v1/hdf5"

	"github.com/emer/sonata/errs"
)

// FG is a file or group: anything datasets and sub-groups can be opened
// under.  Both *hdf5.File and *hdf5.Group satisfy it.
type FG interface {
	OpenGroup(name string) (*hdf5.Group, error)
	OpenDataset(name string) (*hdf5.Dataset, error)
}

// WithFile opens the HDF5 file read-only, passes it to fn and closes it
// again, also when fn returns an error.
func WithFile(path string, fn func(f *hdf5.File) error) error {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return errs.IOf("open hdf5 file %s: %w", path, err)
	}
	defer f.Close()
	return fn(f)
}

// CheckOpen verifies the HDF5 file can be opened (exists and is not
// locked) and closes it again immediately.  Errors name the resolved
// absolute path.
func CheckOpen(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	f, err := hdf5.OpenFile(abs, hdf5.F_ACC_RDONLY)
	if err != nil {
		return errs.IOf("cannot open %s: %w", abs, err)
	}
	return f.Close()
}

// ChildNames returns the names of the objects directly under the group,
// in link order.
func ChildNames(g *hdf5.Group) ([]string, error) {
	n, err := g.NumObjects()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for i := uint(0); i < n; i++ {
		name, err := g.ObjectNameByIndex(i)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// IsGroup reports whether the named child of g is a group (as opposed to
// a dataset).
func IsGroup(g *hdf5.Group, name string) bool {
	sub, err := g.OpenGroup(name)
	if err != nil {
		return false
	}
	sub.Close()
	return true
}

// ReadInt64s reads the named 1-D dataset as int64 values.
func ReadInt64s(fg FG, name string) ([]int64, error) {
	ds, n, err := openDataset(fg, name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	out := make([]int64, n)
	if n > 0 {
		if err := ds.Read(&out); err != nil {
			return nil, errs.IOf("read dataset %s: %w", name, err)
		}
	}
	return out, nil
}

// ReadFloat64s reads the named 1-D dataset as float64 values.
func ReadFloat64s(fg FG, name string) ([]float64, error) {
	ds, n, err := openDataset(fg, name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	out := make([]float64, n)
	if n > 0 {
		if err := ds.Read(&out); err != nil {
			return nil, errs.IOf("read dataset %s: %w", name, err)
		}
	}
	return out, nil
}

func openDataset(fg FG, name string) (*hdf5.Dataset, int, error) {
	ds, err := fg.OpenDataset(name)
	if err != nil {
		return nil, 0, errs.IOf("open dataset %s: %w", name, err)
	}
	sp := ds.Space()
	dims, _, err := sp.SimpleExtentDims()
	sp.Close()
	if err != nil {
		ds.Close()
		return nil, 0, errs.IOf("dataset %s extent: %w", name, err)
	}
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	if len(dims) == 0 {
		n = 1
	}
	return ds, n, nil
}
