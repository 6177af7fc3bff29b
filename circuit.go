package qsim

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// Gate is a single placement on the circuit grid. Control and Control2 are
// -1 when not set; Step is the time-slot giving the cross-wire total order.
type Gate struct {
	ID       string
	Type     string
	Target   int
	Control  int
	Control2 int
	Step     int
}

// Wires returns the wires the gate occupies, target first.
func (g Gate) Wires() []int {
	wires := []int{g.Target}
	if g.Control >= 0 {
		wires = append(wires, g.Control)
	}
	if g.Control2 >= 0 {
		wires = append(wires, g.Control2)
	}
	return wires
}

// References reports whether the gate touches the given wire.
func (g Gate) References(wire int) bool {
	return g.Target == wire || g.Control == wire || g.Control2 == wire
}

// Circuit holds gate placements across a fixed number of wires. Gaps in
// steps are allowed, and overlapping placements are tolerated (the verifier
// flags them as warnings).
type Circuit struct {
	NumQubits int
	Gates     []Gate
}

func NewCircuit(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

// AddGate places a gate and returns the stored instance. Up to two optional
// control wires may follow the step.
func (c *Circuit) AddGate(gateType string, target, step int, controls ...int) Gate {
	g := Gate{
		ID:       uuid.NewString(),
		Type:     gateType,
		Target:   target,
		Control:  -1,
		Control2: -1,
		Step:     step,
	}
	if len(controls) > 0 {
		g.Control = controls[0]
	}
	if len(controls) > 1 {
		g.Control2 = controls[1]
	}
	c.Gates = append(c.Gates, g)
	return g
}

// RemoveGate deletes the gate with the given id. Steps are not renumbered;
// only the optimizer compacts them.
func (c *Circuit) RemoveGate(id string) bool {
	before := len(c.Gates)
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return g.ID == id
	})
	return len(c.Gates) != before
}

// RemoveGateAt deletes any gate occupying the given step and wire.
func (c *Circuit) RemoveGateAt(step, wire int) bool {
	before := len(c.Gates)
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return g.Step == step && g.References(wire)
	})
	return len(c.Gates) != before
}

// GateAt returns the first gate occupying the given step and wire, or nil.
func (c *Circuit) GateAt(step, wire int) *Gate {
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step == step && g.References(wire) {
			return g
		}
	}
	return nil
}

// MaxStep returns the highest step in use, or -1 for an empty circuit.
func (c *Circuit) MaxStep() int {
	maxStep := -1
	for _, g := range c.Gates {
		if g.Step > maxStep {
			maxStep = g.Step
		}
	}
	return maxStep
}

// Clone deep-copies the circuit.
func (c *Circuit) Clone() *Circuit {
	return &Circuit{NumQubits: c.NumQubits, Gates: slices.Clone(c.Gates)}
}

// sortedGates returns the gates in execution order: ascending step, stable
// for gates sharing a step.
func (c *Circuit) sortedGates() []Gate {
	gates := slices.Clone(c.Gates)
	slices.SortStableFunc(gates, func(a, b Gate) int {
		return a.Step - b.Step
	})
	return gates
}

// Execute folds the circuit through the state vector engine from |0...0>
// and returns the final state. Controlled gates without a control wire are
// skipped; structural problems (out-of-range wires) surface as an error.
func (c *Circuit) Execute() (*StateVector, error) {
	return c.ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a cancellation point between gate
// applications. A gate is never half-applied: the check happens only at
// gate boundaries.
func (c *Circuit) ExecuteContext(ctx context.Context) (*StateVector, error) {
	state := NewStateVector(c.NumQubits)
	for _, g := range c.sortedGates() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := ApplyGate(state, g.Type, g.Target, g.Control, g.Control2)
		if err != nil {
			return nil, err
		}
		state = next
	}
	return state, nil
}
