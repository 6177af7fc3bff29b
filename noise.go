package qsim

import (
	"math/cmplx"
	"math/rand"
)

// decoherenceCoeff scales the phase-damping pass per unit of noise level and
// circuit depth.
const decoherenceCoeff = 0.01

// arityFactors weight the per-gate error probability by how many wires the
// gate touches.
var arityFactors = map[int]float64{1: 1, 2: 2, 3: 5}

// NoiseResult reports an approximate noisy re-execution of a circuit. This
// is a stochastic approximation, not a density-matrix channel.
type NoiseResult struct {
	Fidelity          float64      `json:"fidelity"`
	ErrorRate         float64      `json:"errorRate"`
	DecoherenceEffect float64      `json:"decoherenceEffect"`
	Perturbed         *StateVector `json:"-"`
}

// SimulateNoise re-executes the circuit from |0...0>, injecting a seeded
// random Pauli error on the target wire after each applied gate with
// probability noiseLevel scaled by the gate's arity, then applies a
// phase-damping pass proportional to noiseLevel and circuit depth. Fidelity
// compares the perturbed state against the supplied ideal state. With
// noiseLevel 0 the run is exact and fidelity is 1.
func SimulateNoise(c *Circuit, ideal *StateVector, noiseLevel float64, seed int64) (NoiseResult, error) {
	rng := rand.New(rand.NewSource(seed))
	paulis := []string{GateX, GateY, GateZ}

	state := NewStateVector(c.NumQubits)
	pTotal := 0.0
	for _, g := range c.sortedGates() {
		next, err := ApplyGate(state, g.Type, g.Target, g.Control, g.Control2)
		if err != nil {
			return NoiseResult{}, err
		}
		if next == state {
			// Skipped no-op gate: nothing fired, so no error to inject.
			continue
		}
		state = next

		p := noiseLevel * arityFactors[GateArity(g.Type)]
		pTotal += p * (1 - pTotal)
		if p > 0 && rng.Float64() < p {
			state, err = ApplyGate(state, paulis[rng.Intn(len(paulis))], g.Target, -1, -1)
			if err != nil {
				return NoiseResult{}, err
			}
		}
	}

	depth := AnalyzeDepth(c.Gates).Depth
	damp := noiseLevel * float64(depth) * decoherenceCoeff
	if damp > 0 {
		out := state.Clone()
		for i, a := range out.Amplitudes {
			angle := (rng.Float64()*2 - 1) * damp
			out.Amplitudes[i] = a * complex(1-damp, 0) * cmplx.Exp(complex(0, angle))
		}
		out.normalize()
		state = out
	}

	fidelity, err := Fidelity(ideal, state)
	if err != nil {
		return NoiseResult{}, err
	}
	return NoiseResult{
		Fidelity:          fidelity,
		ErrorRate:         pTotal,
		DecoherenceEffect: damp,
		Perturbed:         state,
	}, nil
}
