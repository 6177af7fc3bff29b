package qsim

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Gate type names. CNOT, CZ and CPHASE are inherently controlled: placed
// without a control wire they are skipped during execution rather than
// rejected.
const (
	GateH      = "H"
	GateX      = "X"
	GateY      = "Y"
	GateZ      = "Z"
	GateS      = "S"
	GateT      = "T"
	GateCNOT   = "CNOT"
	GateCZ     = "CZ"
	GateCPHASE = "CPHASE"
	GateSWAP   = "SWAP"
	GateCCX    = "CCX"
	GateCSWAP  = "CSWAP"
)

// Wire roles used by decomposition templates. A template step names wires
// by role and Transpile resolves them against the concrete gate instance.
const (
	roleNone = iota - 1
	roleTarget
	roleControl
	roleControl2
)

// decompStep is one gate of a universal-set decomposition template.
type decompStep struct {
	Type    string
	Target  int // wire role
	Control int // wire role, roleNone for single-qubit steps
}

// GateDef describes one gate type: how many wires it touches, whether it
// only fires when a control wire is set, its unitary action, and its
// decomposition into the universal set {H, T, CNOT}. Both the engine and
// the transpiler dispatch through this table.
type GateDef struct {
	Arity      int
	Controlled bool
	apply      func(s *StateVector, target, control, control2 int) *StateVector
	decomp     []decompStep // nil for members of the universal set
}

var gateTable = map[string]GateDef{
	GateH: {Arity: 1, apply: applyH},
	GateX: {Arity: 1, apply: applyX,
		// X = H T^4 H: four T's make a Z, conjugated into X by Hadamards.
		decomp: []decompStep{
			{GateH, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateH, roleTarget, roleNone},
		}},
	GateY: {Arity: 1, apply: applyY,
		// Y ~ T^2 H T^4 H T^3. Approximate: correct up to phase details.
		decomp: []decompStep{
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateH, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateH, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
		}},
	GateZ: {Arity: 1, apply: applyZ,
		decomp: []decompStep{
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
		}},
	GateS: {Arity: 1, apply: applyS,
		decomp: []decompStep{
			{GateT, roleTarget, roleNone},
			{GateT, roleTarget, roleNone},
		}},
	GateT:    {Arity: 1, apply: applyT},
	GateCNOT: {Arity: 2, Controlled: true, apply: applyCNOT},
	GateCZ: {Arity: 2, Controlled: true, apply: applyCZ,
		decomp: []decompStep{
			{GateH, roleTarget, roleNone},
			{GateCNOT, roleTarget, roleControl},
			{GateH, roleTarget, roleNone},
		}},
	GateCPHASE: {Arity: 2, Controlled: true, apply: applyCPHASE,
		// Approximate: a single T between CNOTs stands in for the exact
		// controlled phase.
		decomp: []decompStep{
			{GateCNOT, roleTarget, roleControl},
			{GateT, roleTarget, roleNone},
			{GateCNOT, roleTarget, roleControl},
		}},
	GateSWAP: {Arity: 2, apply: applySWAP,
		decomp: []decompStep{
			{GateCNOT, roleTarget, roleControl},
			{GateCNOT, roleControl, roleTarget},
			{GateCNOT, roleTarget, roleControl},
		}},
	GateCCX: {Arity: 3, Controlled: true, apply: applyCCX,
		decomp: ccxTemplate(roleControl, roleControl2, roleTarget)},
	GateCSWAP: {Arity: 3, Controlled: true, apply: applyCSWAP,
		decomp: cswapTemplate()},
}

// ccxTemplate is the textbook Toffoli network with every T-dagger replaced
// by a plain T, so it stays inside {H, T, CNOT}. Approximate: it does not
// reproduce the exact Toffoli unitary.
func ccxTemplate(c1, c2, t int) []decompStep {
	return []decompStep{
		{GateH, t, roleNone},
		{GateCNOT, t, c2},
		{GateT, t, roleNone},
		{GateCNOT, t, c1},
		{GateT, t, roleNone},
		{GateCNOT, t, c2},
		{GateT, t, roleNone},
		{GateCNOT, t, c1},
		{GateT, c2, roleNone},
		{GateT, t, roleNone},
		{GateH, t, roleNone},
		{GateCNOT, c2, c1},
		{GateT, c1, roleNone},
		{GateT, c2, roleNone},
		{GateCNOT, c2, c1},
	}
}

// cswapTemplate implements Fredkin as CNOT-Toffoli-CNOT: the swapped pair
// is the target wire and the second control wire, gated by the first.
func cswapTemplate() []decompStep {
	steps := []decompStep{{GateCNOT, roleTarget, roleControl2}}
	steps = append(steps, ccxTemplate(roleControl, roleTarget, roleControl2)...)
	steps = append(steps, decompStep{GateCNOT, roleTarget, roleControl2})
	return steps
}

// GateArity reports how many wires a gate type touches, or 0 for an
// unknown type.
func GateArity(gateType string) int {
	return gateTable[gateType].Arity
}

// IsControlledType reports whether the gate type needs a control wire to
// fire at all.
func IsControlledType(gateType string) bool {
	return gateTable[gateType].Controlled
}

// KnownGate reports whether the gate type exists in the library.
func KnownGate(gateType string) bool {
	_, ok := gateTable[gateType]
	return ok
}

// GateTypes lists every gate type in the library in a fixed order.
func GateTypes() []string {
	return []string{
		GateH, GateX, GateY, GateZ, GateS, GateT,
		GateCNOT, GateCZ, GateCPHASE, GateSWAP, GateCCX, GateCSWAP,
	}
}

// ApplyGate applies one gate to the state and returns the resulting vector.
// The input state is never mutated. Wires outside [0, n) yield an error; a
// controlled gate type with its control wire(s) unset returns the state
// unchanged (the gate is skipped, not an error).
func ApplyGate(s *StateVector, gateType string, target, control, control2 int) (*StateVector, error) {
	def, ok := gateTable[gateType]
	if !ok {
		return nil, fmt.Errorf("unknown gate type %q", gateType)
	}
	n := s.NumQubits
	if target < 0 || target >= n {
		return nil, fmt.Errorf("%s: target wire %d out of range [0,%d)", gateType, target, n)
	}
	if def.Controlled {
		if control < 0 || (def.Arity == 3 && control2 < 0) {
			return s, nil
		}
	}
	if control >= 0 && control >= n {
		return nil, fmt.Errorf("%s: control wire %d out of range [0,%d)", gateType, control, n)
	}
	if control2 >= 0 && control2 >= n {
		return nil, fmt.Errorf("%s: control wire %d out of range [0,%d)", gateType, control2, n)
	}
	if gateType == GateSWAP && control < 0 && target+1 >= n {
		return nil, fmt.Errorf("SWAP: no adjacent wire below wire %d", target)
	}
	return def.apply(s, target, control, control2), nil
}

// transformPairs applies a 2x2 action to every amplitude pair that differs
// only in the target bit, restricted to indices whose control bits are all
// set. Control bits never carry the target bit, so checking them on the low
// index of the pair suffices.
func (s *StateVector) transformPairs(tm, cm int, op func(a, b Complex) (Complex, Complex)) *StateVector {
	out := s.Clone()
	for i := range out.Amplitudes {
		if i&tm != 0 || i&cm != cm {
			continue
		}
		j := i | tm
		out.Amplitudes[i], out.Amplitudes[j] = op(s.Amplitudes[i], s.Amplitudes[j])
	}
	return out
}

// transformPhase multiplies every amplitude whose target bit and control
// bits are all set by the given factor.
func (s *StateVector) transformPhase(tm, cm int, factor Complex) *StateVector {
	out := s.Clone()
	for i := range out.Amplitudes {
		if i&tm != 0 && i&cm == cm {
			out.Amplitudes[i] *= factor
		}
	}
	return out
}

func applyH(s *StateVector, target, _, _ int) *StateVector {
	f := complex(1/math.Sqrt2, 0)
	return s.transformPairs(s.wireMask(target), 0, func(a, b Complex) (Complex, Complex) {
		return f * (a + b), f * (a - b)
	})
}

func applyX(s *StateVector, target, _, _ int) *StateVector {
	return s.transformPairs(s.wireMask(target), 0, func(a, b Complex) (Complex, Complex) {
		return b, a
	})
}

func applyY(s *StateVector, target, _, _ int) *StateVector {
	return s.transformPairs(s.wireMask(target), 0, func(a, b Complex) (Complex, Complex) {
		return -1i * b, 1i * a
	})
}

func applyZ(s *StateVector, target, _, _ int) *StateVector {
	return s.transformPhase(s.wireMask(target), 0, -1)
}

func applyS(s *StateVector, target, _, _ int) *StateVector {
	return s.transformPhase(s.wireMask(target), 0, 1i)
}

// tPhase is e^{i pi/4}, the T gate phase, shared with CPHASE.
var tPhase = cmplx.Exp(complex(0, math.Pi/4))

func applyT(s *StateVector, target, _, _ int) *StateVector {
	return s.transformPhase(s.wireMask(target), 0, tPhase)
}

func applyCNOT(s *StateVector, target, control, _ int) *StateVector {
	return s.transformPairs(s.wireMask(target), s.wireMask(control), func(a, b Complex) (Complex, Complex) {
		return b, a
	})
}

func applyCZ(s *StateVector, target, control, _ int) *StateVector {
	return s.transformPhase(s.wireMask(target), s.wireMask(control), -1)
}

func applyCPHASE(s *StateVector, target, control, _ int) *StateVector {
	return s.transformPhase(s.wireMask(target), s.wireMask(control), tPhase)
}

// applySWAP exchanges the target wire with its partner: the control wire
// when one is set, otherwise the adjacent wire below.
func applySWAP(s *StateVector, target, control, _ int) *StateVector {
	partner := control
	if partner < 0 {
		partner = target + 1
	}
	return s.swapWires(target, partner, 0)
}

func applyCCX(s *StateVector, target, control, control2 int) *StateVector {
	cm := s.wireMask(control) | s.wireMask(control2)
	return s.transformPairs(s.wireMask(target), cm, func(a, b Complex) (Complex, Complex) {
		return b, a
	})
}

// applyCSWAP swaps the target wire with the second control wire when the
// first control bit is set.
func applyCSWAP(s *StateVector, target, control, control2 int) *StateVector {
	return s.swapWires(target, control2, s.wireMask(control))
}

// swapWires exchanges the bits of two wires across the whole vector,
// restricted to indices whose control mask bits are set.
func (s *StateVector) swapWires(w1, w2, cm int) *StateVector {
	m1, m2 := s.wireMask(w1), s.wireMask(w2)
	out := s.Clone()
	for i := range out.Amplitudes {
		if i&m1 != 0 || i&m2 == 0 || i&cm != cm {
			continue
		}
		j := (i &^ m2) | m1
		out.Amplitudes[i], out.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
	}
	return out
}
