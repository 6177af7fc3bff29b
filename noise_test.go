package qsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateNoiseZeroLevelIsExact(t *testing.T) {
	c := bellCircuit()
	ideal, err := c.Execute()
	require.NoError(t, err)

	res, err := SimulateNoise(c, ideal, 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Fidelity, 1e-12)
	assert.Zero(t, res.ErrorRate)
	assert.Zero(t, res.DecoherenceEffect)
	assert.InDelta(t, 1.0, res.Perturbed.Norm(), 1e-9)
}

func TestSimulateNoiseReproducible(t *testing.T) {
	c := bellCircuit()
	ideal, err := c.Execute()
	require.NoError(t, err)

	a, err := SimulateNoise(c, ideal, 0.1, 99)
	require.NoError(t, err)
	b, err := SimulateNoise(c, ideal, 0.1, 99)
	require.NoError(t, err)
	assert.Equal(t, a.Fidelity, b.Fidelity)
	assert.Equal(t, a.Perturbed.Amplitudes, b.Perturbed.Amplitudes)
}

func TestSimulateNoiseErrorRateAccumulates(t *testing.T) {
	// H (arity 1) then CNOT (arity 2) at level 0.1:
	// p1 = 0.1, p2 = 0.2, total = 0.1 + 0.2*0.9 = 0.28.
	c := bellCircuit()
	ideal, err := c.Execute()
	require.NoError(t, err)

	res, err := SimulateNoise(c, ideal, 0.1, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.28, res.ErrorRate, 1e-12)
	assert.Greater(t, res.ErrorRate, 0.0)
	assert.Less(t, res.ErrorRate, 1.0)
	assert.InDelta(t, 0.1*2*decoherenceCoeff, res.DecoherenceEffect, 1e-12)
}

func TestSimulateNoiseKeepsStateNormalized(t *testing.T) {
	c := NewCircuit(3)
	c.AddGate(GateH, 0, 0)
	c.AddGate(GateH, 1, 0)
	c.AddGate(GateCCX, 2, 1, 0, 1)
	ideal, err := c.Execute()
	require.NoError(t, err)

	for seed := int64(0); seed < 10; seed++ {
		res, err := SimulateNoise(c, ideal, 0.2, seed)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, res.Perturbed.Norm(), 1e-9)
		assert.GreaterOrEqual(t, res.Fidelity, 0.0)
		assert.LessOrEqual(t, res.Fidelity, 1.0+1e-9)
	}
}

func TestSimulateNoiseSkipsUncontrolledGates(t *testing.T) {
	c := NewCircuit(2)
	c.AddGate(GateCNOT, 1, 0) // no control: never fires, never errors
	ideal, err := c.Execute()
	require.NoError(t, err)

	res, err := SimulateNoise(c, ideal, 0.5, 4)
	require.NoError(t, err)
	assert.Zero(t, res.ErrorRate)
}
