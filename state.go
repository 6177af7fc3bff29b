package qsim

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

type Complex = complex128

// StateVector is a dense array of complex amplitudes describing a pure
// n-qubit state. Basis index i encodes wire 0 as the most significant bit,
// so for 2 qubits index 2 is the bitstring "10".
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns the |0...0> state on numQubits wires.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// wireMask returns the basis-index bit for a wire. Wire 0 maps to the
// highest bit so that basis labels read left to right.
func (s *StateVector) wireMask(wire int) int {
	return 1 << (s.NumQubits - 1 - wire)
}

// Norm returns the total probability sum |a_i|^2. A freshly executed
// circuit keeps this at 1 because every gate is unitary.
func (s *StateVector) Norm() float64 {
	return floats.Sum(s.Probabilities())
}

// Probabilities returns the Born-rule probability of each basis outcome.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// InnerProduct computes <s|o>.
func (s *StateVector) InnerProduct(o *StateVector) (Complex, error) {
	if len(s.Amplitudes) != len(o.Amplitudes) {
		return 0, fmt.Errorf("state dimension mismatch: %d vs %d", len(s.Amplitudes), len(o.Amplitudes))
	}
	var sum Complex
	for i, a := range s.Amplitudes {
		sum += cmplx.Conj(a) * o.Amplitudes[i]
	}
	return sum, nil
}

// Fidelity returns |<a|b>|^2, the closeness of two states.
func Fidelity(a, b *StateVector) (float64, error) {
	ip, err := a.InnerProduct(b)
	if err != nil {
		return 0, err
	}
	m := cmplx.Abs(ip)
	return m * m, nil
}

// BasisLabel renders a basis index as a zero-padded bitstring.
func (s *StateVector) BasisLabel(i int) string {
	if s.NumQubits == 0 {
		return "0"
	}
	return fmt.Sprintf("%0*b", s.NumQubits, i)
}

// normalize rescales amplitudes to unit norm in place. An all-zero vector
// divides by 1 by convention, leaving it untouched.
func (s *StateVector) normalize() {
	norm := math.Sqrt(s.Norm())
	if norm == 0 {
		norm = 1
	}
	for i := range s.Amplitudes {
		s.Amplitudes[i] /= complex(norm, 0)
	}
}
