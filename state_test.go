package qsim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomState builds a normalized random state for property checks.
func randomState(t *testing.T, numQubits int, seed int64) *StateVector {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	s := NewStateVector(numQubits)
	for i := range s.Amplitudes {
		s.Amplitudes[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	s.normalize()
	return s
}

func TestNewStateVector(t *testing.T) {
	s := NewStateVector(3)
	require.Len(t, s.Amplitudes, 8)
	assert.Equal(t, Complex(1), s.Amplitudes[0])
	assert.InDelta(t, 1.0, s.Norm(), 1e-12)
}

func TestApplyGatePreservesNorm(t *testing.T) {
	cases := []struct {
		gateType                   string
		target, control, control2 int
	}{
		{GateH, 0, -1, -1},
		{GateX, 1, -1, -1},
		{GateY, 2, -1, -1},
		{GateZ, 0, -1, -1},
		{GateS, 1, -1, -1},
		{GateT, 2, -1, -1},
		{GateCNOT, 1, 0, -1},
		{GateCZ, 2, 0, -1},
		{GateCPHASE, 0, 2, -1},
		{GateSWAP, 0, 1, -1},
		{GateSWAP, 1, -1, -1}, // adjacent-wire fallback
		{GateCCX, 2, 0, 1},
		{GateCSWAP, 0, 1, 2},
	}
	for _, tc := range cases {
		t.Run(tc.gateType, func(t *testing.T) {
			for seed := int64(0); seed < 5; seed++ {
				in := randomState(t, 3, seed)
				out, err := ApplyGate(in, tc.gateType, tc.target, tc.control, tc.control2)
				require.NoError(t, err)
				assert.InDelta(t, in.Norm(), out.Norm(), 1e-9)
			}
		})
	}
}

func TestApplyGateImmutability(t *testing.T) {
	in := randomState(t, 2, 7)
	snapshot := in.Clone()
	_, err := ApplyGate(in, GateH, 0, -1, -1)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Amplitudes, in.Amplitudes, "input state must not be mutated")
}

func TestApplyHadamard(t *testing.T) {
	s := NewStateVector(1)
	out, err := ApplyGate(s, GateH, 0, -1, -1)
	require.NoError(t, err)
	inv := 1 / math.Sqrt2
	assert.InDelta(t, inv, real(out.Amplitudes[0]), 1e-12)
	assert.InDelta(t, inv, real(out.Amplitudes[1]), 1e-12)
}

func TestApplyYAction(t *testing.T) {
	// Y|0> = i|1>, Y|1> = -i|0>
	s := NewStateVector(1)
	out, err := ApplyGate(s, GateY, 0, -1, -1)
	require.NoError(t, err)
	assert.InDelta(t, 0, real(out.Amplitudes[0]), 1e-12)
	assert.InDelta(t, 1, imag(out.Amplitudes[1]), 1e-12)

	out2, err := ApplyGate(out, GateY, 0, -1, -1)
	require.NoError(t, err)
	// Y^2 = I up to no phase at all: back to |0>
	assert.InDelta(t, 1, real(out2.Amplitudes[0]), 1e-12)
}

func TestApplyGateOutOfRange(t *testing.T) {
	s := NewStateVector(2)
	_, err := ApplyGate(s, GateX, 2, -1, -1)
	assert.Error(t, err)
	_, err = ApplyGate(s, GateX, -1, -1, -1)
	assert.Error(t, err)
	_, err = ApplyGate(s, GateCNOT, 0, 5, -1)
	assert.Error(t, err)
	_, err = ApplyGate(s, GateSWAP, 1, -1, -1)
	assert.Error(t, err, "SWAP on the last wire has no adjacent partner")
	_, err = ApplyGate(s, "BOGUS", 0, -1, -1)
	assert.Error(t, err)
}

func TestControlledGateWithoutControlIsNoOp(t *testing.T) {
	in := randomState(t, 2, 11)
	for _, gateType := range []string{GateCNOT, GateCZ, GateCPHASE} {
		out, err := ApplyGate(in, gateType, 0, -1, -1)
		require.NoError(t, err)
		assert.Equal(t, in.Amplitudes, out.Amplitudes, "%s without control must be a no-op", gateType)
	}
	// Three-qubit gates also need both controls.
	in3 := randomState(t, 3, 11)
	out, err := ApplyGate(in3, GateCCX, 0, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, in3.Amplitudes, out.Amplitudes)
}

func TestToffoliTruthTable(t *testing.T) {
	// Prepare |110> (wires 0 and 1 set), expect CCX to flip wire 2.
	c := NewCircuit(3)
	c.AddGate(GateX, 0, 0)
	c.AddGate(GateX, 1, 1)
	c.AddGate(GateCCX, 2, 2, 0, 1)
	state, err := c.Execute()
	require.NoError(t, err)
	idx := 0b111
	assert.InDelta(t, 1, real(state.Amplitudes[idx]), 1e-12)
}

func TestFredkinSwapsWhenControlSet(t *testing.T) {
	// |100>: control wire 0 set, swap wires 1 and 2 after X on wire 1.
	c := NewCircuit(3)
	c.AddGate(GateX, 0, 0)
	c.AddGate(GateX, 1, 1)
	c.AddGate(GateCSWAP, 1, 2, 0, 2)
	state, err := c.Execute()
	require.NoError(t, err)
	// Wire 1's excitation moved to wire 2: |101>.
	assert.InDelta(t, 1, real(state.Amplitudes[0b101]), 1e-12)
}

func TestFidelity(t *testing.T) {
	a := NewStateVector(2)
	b := a.Clone()
	f, err := Fidelity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f, 1e-12)

	x, err := ApplyGate(a, GateX, 0, -1, -1)
	require.NoError(t, err)
	f, err = Fidelity(a, x)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, f, 1e-12)

	_, err = Fidelity(a, NewStateVector(3))
	assert.Error(t, err)
}

func TestBasisLabel(t *testing.T) {
	s := NewStateVector(3)
	assert.Equal(t, "000", s.BasisLabel(0))
	assert.Equal(t, "101", s.BasisLabel(5))
}

func TestNormalizeZeroVector(t *testing.T) {
	s := &StateVector{Amplitudes: make([]Complex, 4), NumQubits: 2}
	s.normalize()
	assert.InDelta(t, 0, s.Norm(), 1e-12, "all-zero vector divides by 1 and stays zero")
}
