// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sonata builds and simulates network models represented by the
SONATA format on an external NEST-style simulation kernel.  In the SONATA
format, nodes, edges and their properties are stored in the table-based
HDF5 and CSV file formats, and model metadata (path relations between the
files, simulation parameters) in JSON configuration files.

The typical sequence is:

	k := ...                       // kernel.Kernel implementation
	net, err := sonata.NewNetwork(k, "path/to/config.json")
	colls, err := net.BuildNetworkDefault()
	err = net.Simulate(nil)
*/
package sonata

import (
	"path/filepath"

	"github.com/c2h5oh/datasize"

	"github.com/emer/sonata/config"
	"github.com/emer/sonata/errs"
	"github.com/emer/sonata/hdf"
	"github.com/emer/sonata/kernel"
	"github.com/emer/sonata/typetable"
)

// DefaultChunkSize is the number of elements per dataset read the kernel
// uses when streaming edge HDF5 files, unless overridden in Connect.
const DefaultChunkSize = 1 << 20

// build lifecycle states
type buildState int32

const (
	unbuilt buildState = iota
	nodesCreated
	connected
)

// Network is the facade over one SONATA model: it owns the resolved
// configuration and the derived maps, creates entities on the kernel,
// and issues the bulk connect and simulate calls.  Entities themselves
// are owned by the kernel; Network holds only Group handles.  Not safe
// for concurrent use.
type Network struct {
	k           kernel.Kernel
	cfg         *config.Config
	collections map[string]kernel.Group
	state       buildState
	defKeys     map[string]map[string]bool // memoized accepted-parameter name sets per model
}

type options struct {
	simConfig string
}

// Option configures NewNetwork.
type Option func(*options)

// WithSimConfig passes a second JSON configuration file holding the
// simulation parameters, merged on top of the network configuration.
func WithSimConfig(path string) Option {
	return func(o *options) { o.simConfig = path }
}

// NewNetwork loads the configuration at configPath and returns a Network
// driving the given kernel.  Fails with a kernel error if the kernel was
// built without HDF5 support, since the bulk connect then cannot read
// the edge tables.
func NewNetwork(k kernel.Kernel, configPath string, opts ...Option) (*Network, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !k.Caps().HDF5 {
		return nil, errs.Kernelf("SONATA networks unavailable: kernel was built without HDF5 support")
	}
	var cfg *config.Config
	var err error
	if o.simConfig != "" {
		cfg, err = config.LoadWithSim(configPath, o.simConfig)
	} else {
		cfg, err = config.Load(configPath)
	}
	if err != nil {
		return nil, err
	}
	return &Network{
		k:           k,
		cfg:         cfg,
		collections: map[string]kernel.Group{},
		defKeys:     map[string]map[string]bool{},
	}, nil
}

// Create creates the network nodes on the kernel.  Each entry of
// networks.nodes pairs a node HDF5 file (one or more populations) with a
// node types CSV table; all rows of one table must share a single
// model_type.  Returns the created collections, keyed by population name.
func (nw *Network) Create() (map[string]kernel.Group, error) {
	for _, nc := range nw.cfg.Networks.Nodes {
		tt, err := typetable.Read(nc.NodeTypesFile)
		if err != nil {
			return nil, err
		}
		if !tt.HasCol("model_type") {
			return nil, errs.Configf("missing the required 'model_type' header in %s", nc.NodeTypesFile)
		}
		modelType, ok := tt.SingleValue("model_type")
		if !ok {
			return nil, errs.Configf("only one model type per node CSV file is supported; %s contains more than one", nc.NodeTypesFile)
		}
		switch modelType {
		case "point_neuron", "point_process":
			if err := nw.createNeurons(nc, tt); err != nil {
				return nil, err
			}
		case "virtual":
			if err := nw.createSpikeGenerators(nc); err != nil {
				return nil, err
			}
		default:
			return nil, errs.Configf("model type %q in %s is not supported", modelType, nc.NodeTypesFile)
		}
	}
	if nw.state < nodesCreated {
		nw.state = nodesCreated
	}
	return nw.collections, nil
}

// ValidateChunkSize checks that a chunk size is usable: strictly
// positive.  The int type already rules out the fractional sizes a
// dynamically typed caller could pass.
func ValidateChunkSize(chunkSize int) error {
	if chunkSize <= 0 {
		return errs.Validationf("chunk_size must be strictly positive, got %d", chunkSize)
	}
	return nil
}

// Connect creates the network connections.  The edge types CSV tables
// are parsed into per-edge-file synapse parameter maps, which are sent
// to the kernel together with the edge HDF5 file paths; the kernel reads
// those files in chunks of chunkSize elements per dataset.  Requires
// Create to have run.
func (nw *Network) Connect(chunkSize int) error {
	if nw.state < nodesCreated {
		return errs.Statef("the network nodes must be created before any connections can be made")
	}
	if err := ValidateChunkSize(chunkSize); err != nil {
		return err
	}
	specs, err := nw.buildEdgeSpecs()
	if err != nil {
		return err
	}
	// surface locked or missing edge files here with a usable path,
	// not as an opaque kernel-side read error mid-connect
	for _, es := range specs {
		if err := hdf.CheckOpen(es.File); err != nil {
			return err
		}
	}
	logger.Info("connecting network", "edge_files", len(specs),
		"chunk_size", chunkSize,
		"read_size", (datasize.ByteSize(chunkSize) * 8).HumanReadable())

	spec := kernel.GraphSpec{Nodes: nw.collections, Edges: specs}
	if err := nw.k.ConnectFromSpec(spec, chunkSize); err != nil {
		return err
	}
	nw.state = connected
	return nil
}

// ConnectDefault is Connect with DefaultChunkSize.
func (nw *Network) ConnectDefault() error {
	return nw.Connect(DefaultChunkSize)
}

// BuildNetwork is the convenience composition of Create followed by
// Connect.  The chunk size is validated before any entity is created, so
// a bad value cannot waste a full Create.
func (nw *Network) BuildNetwork(chunkSize int) (map[string]kernel.Group, error) {
	if err := ValidateChunkSize(chunkSize); err != nil {
		return nil, err
	}
	colls, err := nw.Create()
	if err != nil {
		return nil, err
	}
	if err := nw.Connect(chunkSize); err != nil {
		return nil, err
	}
	return colls, nil
}

// BuildNetworkDefault is BuildNetwork with DefaultChunkSize.
func (nw *Network) BuildNetworkDefault() (map[string]kernel.Group, error) {
	return nw.BuildNetwork(DefaultChunkSize)
}

// Simulate runs the simulation for the time configured in run.tstop (or
// run.duration), at resolution run.dt.  Additional kernel attributes can
// be passed in attrs and are applied first.  Requires Connect to have
// run.
func (nw *Network) Simulate(attrs kernel.Params) error {
	if nw.state < connected {
		return errs.Statef("the network must be built before a simulation can be done")
	}
	if len(attrs) > 0 {
		if err := nw.k.SetStatus(attrs); err != nil {
			return err
		}
	}
	dt, ok := nw.cfg.DT()
	if !ok {
		return errs.Configf("time resolution 'dt' must be specified in configuration file")
	}
	if err := nw.k.SetStatus(kernel.Params{"resolution": dt}); err != nil {
		return err
	}
	tsim, ok := nw.cfg.TStop()
	if !ok {
		if tsim, ok = nw.cfg.Duration(); !ok {
			return errs.Configf("simulation time 'tstop' or 'duration' must be specified in configuration file")
		}
	}
	logger.Info("simulating", "t", tsim, "dt", dt)
	return nw.k.Run(tsim)
}

// NodeCollections returns the created entity collections, keyed by
// population name.  Read-only: the returned map is the facade's own.
func (nw *Network) NodeCollections() map[string]kernel.Group {
	return nw.collections
}

// Config returns the resolved configuration.
func (nw *Network) Config() *config.Config {
	return nw.cfg
}

// defaultsKeys returns the set of parameter names the model accepts,
// memoized across rows and tables.
func (nw *Network) defaultsKeys(model string) (map[string]bool, error) {
	if keys, ok := nw.defKeys[model]; ok {
		return keys, nil
	}
	def, err := nw.k.Defaults(model)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]bool, len(def))
	for k := range def {
		keys[k] = true
	}
	nw.defKeys[model] = keys
	return keys, nil
}

func (nw *Network) componentPath(dir, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(dir, rel)
}
