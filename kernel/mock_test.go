// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer/sonata/errs"
)

func TestMockCreateAssignsSequentialHandles(t *testing.T) {
	m := NewMock()

	g1, err := m.Create("iaf_psc_alpha", 3)
	require.NoError(t, err)
	g2, err := m.Create("iaf_psc_alpha", 2)
	require.NoError(t, err)

	assert.Equal(t, []ID{1, 2, 3}, g1.IDs())
	assert.Equal(t, []ID{4, 5}, g2.IDs())
	require.Len(t, m.Creates, 2)
	assert.Equal(t, 3, m.Creates[0].N)
}

func TestMockSetParamsMerges(t *testing.T) {
	m := NewMock()
	g, err := m.Create("iaf_psc_alpha", 2)
	require.NoError(t, err)

	require.NoError(t, m.SetParams(g, Params{"tau_m": 20.0}))
	sub, err := g.MaskSelect([]bool{false, true})
	require.NoError(t, err)
	require.NoError(t, m.SetParams(sub, Params{"tau_m": 10.0, "V_th": -55.0}))

	assert.Equal(t, Params{"tau_m": 20.0}, m.Applied(g.At(0)))
	assert.Equal(t, Params{"tau_m": 10.0, "V_th": -55.0}, m.Applied(g.At(1)))
}

func TestMockCreateWithParams(t *testing.T) {
	m := NewMock()

	// broadcast form
	g, err := m.CreateWithParams("iaf_psc_alpha", 2, []Params{{"C_m": 250.0}})
	require.NoError(t, err)
	assert.Equal(t, Params{"C_m": 250.0}, m.Applied(g.At(0)))
	assert.Equal(t, Params{"C_m": 250.0}, m.Applied(g.At(1)))

	// element-wise form
	g, err = m.CreateWithParams("spike_generator", 2, []Params{
		{"spike_times": []float64{1.0}},
		{"spike_times": []float64{}},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0}, m.Applied(g.At(0))["spike_times"])
	assert.Equal(t, []float64{}, m.Applied(g.At(1))["spike_times"])

	// anything else is a kernel error
	_, err = m.CreateWithParams("spike_generator", 3, []Params{{}, {}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrKernel))
}

func TestMockDefaults(t *testing.T) {
	m := NewMock()
	m.DefaultsFor["static_synapse"] = Params{"weight": 1.0, "delay": 1.0}

	p, err := m.Defaults("static_synapse")
	require.NoError(t, err)
	p["weight"] = 9.0 // copies do not leak back
	p2, err := m.Defaults("static_synapse")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p2["weight"])

	_, err = m.Defaults("quantum_synapse")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrKernel))
}

func TestMockRecordsConnectStatusRun(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.ConnectFromSpec(GraphSpec{}, 1<<20))
	require.NoError(t, m.SetStatus(Params{"resolution": 0.1}))
	require.NoError(t, m.Run(100.0))

	require.Len(t, m.Connects, 1)
	assert.Equal(t, 1<<20, m.Connects[0].ChunkSize)
	require.Len(t, m.Statuses, 1)
	assert.Equal(t, []float64{100.0}, m.RunTimes)
}
