// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package config loads SONATA JSON configuration files and resolves their
manifest of path variables.  After Load, every $VAR token in the
configuration tree has been substituted with an absolute filesystem path,
and the tree is available both raw (map form) and decoded into typed
structs.
*/
package config

import (
	"github.com/emer/sonata/errs"
)

// Config is a resolved SONATA configuration.  All file-path fields are
// absolute.  The raw resolved tree is retained for keys the typed view
// does not model.
type Config struct {
	TargetSimulator string            `mapstructure:"target_simulator" desc:"simulator the model is written for -- must be NEST when present"`
	Manifest        map[string]string `mapstructure:"manifest" desc:"path variables, resolved to absolute paths and stripped of their leading $"`
	Networks        Networks          `mapstructure:"networks" desc:"node and edge file table pairs"`
	Components      Components        `mapstructure:"components" desc:"base directories for referenced model parameter files"`
	Inputs          map[string]Input  `mapstructure:"inputs" desc:"external stimulus associations, keyed by an arbitrary input name"`
	Run             map[string]any    `mapstructure:"run" desc:"simulation run parameters (dt, tstop, duration, ...)"`

	raw map[string]any
}

// Networks lists the node and edge table pairs of the model.
type Networks struct {
	Nodes []NodesEntry `mapstructure:"nodes"`
	Edges []EdgesEntry `mapstructure:"edges"`
}

// NodesEntry pairs one node HDF5 table with its node types CSV table.
type NodesEntry struct {
	NodesFile     string `mapstructure:"nodes_file" desc:"HDF5 file with nodes/<population>/node_type_id tables"`
	NodeTypesFile string `mapstructure:"node_types_file" desc:"whitespace CSV assigning properties per node type id"`
}

// EdgesEntry pairs one edge HDF5 table with its edge types CSV table.
type EdgesEntry struct {
	EdgesFile     string `mapstructure:"edges_file" desc:"HDF5 file with the bulk edge tables, read chunk-wise by the kernel"`
	EdgeTypesFile string `mapstructure:"edge_types_file" desc:"whitespace CSV assigning synapse properties per edge type id"`
}

// Components holds the base directories that relative parameter-file
// references in the type tables are joined onto.
type Components struct {
	PointNeuronModelsDir string `mapstructure:"point_neuron_models_dir" desc:"base dir for neuron dynamics_params JSON files"`
	SynapticModelsDir    string `mapstructure:"synaptic_models_dir" desc:"base dir for synapse dynamics_params JSON files"`
}

// Input associates an external stimulus file with a node population.
type Input struct {
	InputType string `mapstructure:"input_type"`
	Module    string `mapstructure:"module"`
	InputFile string `mapstructure:"input_file" desc:"HDF5 spikes file"`
	NodeSet   string `mapstructure:"node_set" desc:"name of the population the stimulus drives"`
}

// Raw returns the resolved configuration tree in map form.
func (c *Config) Raw() map[string]any {
	return c.raw
}

// DT returns run.dt and whether it is present.
func (c *Config) DT() (float64, bool) {
	return c.runFloat("dt")
}

// TStop returns run.tstop and whether it is present.
func (c *Config) TStop() (float64, bool) {
	return c.runFloat("tstop")
}

// Duration returns run.duration and whether it is present.
func (c *Config) Duration() (float64, bool) {
	return c.runFloat("duration")
}

func (c *Config) runFloat(key string) (float64, bool) {
	v, ok := c.Run[key]
	if !ok {
		return 0, false
	}
	switch f := v.(type) {
	case float64:
		return f, true
	case int:
		return float64(f), true
	}
	return 0, false
}

// InputFor returns the stimulus input whose node_set matches the given
// population name, per the inputs section of the configuration.
func (c *Config) InputFor(population string) (Input, error) {
	for _, in := range c.Inputs {
		if in.NodeSet == population {
			return in, nil
		}
	}
	return Input{}, errs.Configf("could not find an input file for population %s in config file", population)
}
