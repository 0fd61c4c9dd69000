// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sonata

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer/sonata/errs"
	"github.com/emer/sonata/kernel"
)

// edgesConfig has one edges entry; the edge HDF5 file itself is never
// opened by buildEdgeSpecs, only by Connect's pre-flight.
const edgesConfig = `{
	"target_simulator": "NEST",
	"manifest": {
		"$NETWORK_DIR": "$BASE_DIR/network",
		"$COMPONENT_DIR": "$BASE_DIR/components"
	},
	"components": {"synaptic_models_dir": "$COMPONENT_DIR/synaptic_models"},
	"networks": {
		"edges": [
			{
				"edges_file": "$NETWORK_DIR/edges.h5",
				"edge_types_file": "$NETWORK_DIR/edge_types.csv"
			}
		]
	},
	"run": {"dt": 0.1, "tstop": 10.0}
}`

func TestEdgeTypeParamsSingleModel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "network", "edge_types.csv"),
		"edge_type_id model_template syn_weight delay target_sections dynamics_params\n"+
			"100 static_synapse 2.5 1.5 soma ee.json\n"+
			"200 static_synapse -4.0 0.8 soma ei.json\n")
	writeFile(t, filepath.Join(dir, "components", "synaptic_models", "ee.json"), `{"receptor_type": 1.0}`)
	writeFile(t, filepath.Join(dir, "components", "synaptic_models", "ei.json"), `{"receptor_type": 2.0}`)

	nw, k := newTestNetwork(t, dir, edgesConfig)
	k.DefaultsFor["static_synapse"] = kernel.Params{
		"synapse_model": "static_synapse", "weight": 1.0, "delay": 1.0, "receptor_type": 0,
	}

	specs, err := nw.buildEdgeSpecs()
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, filepath.Join(dir, "network", "edges.h5"), specs[0].File)

	syn := specs[0].SynSpecs
	require.Len(t, syn, 2)

	// syn_weight renamed, file-referenced dynamics merged in, and the
	// literal dynamics_params field never leaks into the map
	assert.Equal(t, kernel.Params{
		"synapse_model": "static_synapse",
		"weight":        2.5,
		"delay":         1.5,
		"receptor_type": 1.0,
	}, syn[100])
	assert.Equal(t, kernel.Params{
		"synapse_model": "static_synapse",
		"weight":        -4.0,
		"delay":         0.8,
		"receptor_type": 2.0,
	}, syn[200])
	// target_sections is not accepted by the model: filtered out
	assert.NotContains(t, syn[100], "target_sections")
	assert.NotContains(t, syn[100], "dynamics_params")
}

func TestEdgeTypeParamsMultiModel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "network", "edge_types.csv"),
		"edge_type_id model_template syn_weight tau_psc\n"+
			"1 static_synapse 2.0 5.0\n"+
			"2 tsodyks_synapse 3.0 5.0\n")

	nw, k := newTestNetwork(t, dir, edgesConfig)
	k.DefaultsFor["static_synapse"] = kernel.Params{
		"synapse_model": "static_synapse", "weight": 1.0,
	}
	k.DefaultsFor["tsodyks_synapse"] = kernel.Params{
		"synapse_model": "tsodyks_synapse", "weight": 1.0, "tau_psc": 3.0,
	}

	specs, err := nw.buildEdgeSpecs()
	require.NoError(t, err)
	syn := specs[0].SynSpecs

	// the accepted-parameter intersection is per row: tau_psc only
	// lands on the model that takes it
	assert.Equal(t, kernel.Params{"synapse_model": "static_synapse", "weight": 2.0}, syn[1])
	assert.Equal(t, kernel.Params{"synapse_model": "tsodyks_synapse", "weight": 3.0, "tau_psc": 5.0}, syn[2])
}

func TestEdgeTypeParamsRequiresModelTemplate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "network", "edge_types.csv"),
		"edge_type_id syn_weight\n1 2.0\n")

	nw, _ := newTestNetwork(t, dir, edgesConfig)
	_, err := nw.buildEdgeSpecs()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConfig))
	assert.Contains(t, err.Error(), "model_template")
}

func TestEdgeTypeParamsUnknownModel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "network", "edge_types.csv"),
		"edge_type_id model_template\n1 quantum_synapse\n")

	nw, _ := newTestNetwork(t, dir, edgesConfig)
	_, err := nw.buildEdgeSpecs()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrKernel))
}

func TestEdgeTypeParamsMissingDynamicsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "network", "edge_types.csv"),
		"edge_type_id model_template dynamics_params\n1 static_synapse nope.json\n")

	nw, k := newTestNetwork(t, dir, edgesConfig)
	k.DefaultsFor["static_synapse"] = kernel.Params{"synapse_model": "static_synapse"}

	_, err := nw.buildEdgeSpecs()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrIO))
	assert.Contains(t, err.Error(), "nope.json")
}
