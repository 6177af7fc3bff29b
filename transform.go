package qsim

import (
	"slices"

	"github.com/google/uuid"
)

// selfInverse lists the single-qubit gates that cancel with themselves.
var selfInverse = map[string]bool{
	GateH: true,
	GateX: true,
	GateY: true,
	GateZ: true,
}

// Optimize rewrites the gate list using algebraic identities and returns the
// optimized gates plus the number of gates removed. Only uncontrolled
// single-qubit gates at consecutive steps on the same wire are considered:
// H·H, X·X, Y·Y and Z·Z vanish, S·S becomes a single Z. The scan repeats
// until no identity applies, then each wire's survivors are compacted to
// steps 0..k-1 in their original relative order.
func Optimize(gates []Gate) ([]Gate, int) {
	out := slices.Clone(gates)
	removed := 0

	for {
		byWire := make(map[int][]int)
		for i, g := range out {
			if GateArity(g.Type) == 1 && g.Control < 0 && g.Control2 < 0 {
				byWire[g.Target] = append(byWire[g.Target], i)
			}
		}

		dead := make(map[int]bool)
		changed := false
		for _, idxs := range byWire {
			slices.SortFunc(idxs, func(a, b int) int { return out[a].Step - out[b].Step })
			for k := 0; k+1 < len(idxs); k++ {
				i, j := idxs[k], idxs[k+1]
				if dead[i] || dead[j] || out[j].Step != out[i].Step+1 {
					continue
				}
				switch {
				case out[i].Type == out[j].Type && selfInverse[out[i].Type]:
					dead[i], dead[j] = true, true
					removed += 2
					changed = true
				case out[i].Type == GateS && out[j].Type == GateS:
					out[i].Type = GateZ
					dead[j] = true
					removed++
					changed = true
				}
			}
		}
		if !changed {
			break
		}

		kept := make([]Gate, 0, len(out))
		for i, g := range out {
			if !dead[i] {
				kept = append(kept, g)
			}
		}
		out = kept
	}

	compactSteps(out)
	return out, removed
}

// compactSteps renumbers each wire's gates (keyed by target wire) to the
// dense range 0..k-1, preserving relative order.
func compactSteps(gates []Gate) {
	byWire := make(map[int][]int)
	for i, g := range gates {
		byWire[g.Target] = append(byWire[g.Target], i)
	}
	for _, idxs := range byWire {
		slices.SortStableFunc(idxs, func(a, b int) int { return gates[a].Step - gates[b].Step })
		for pos, i := range idxs {
			gates[i].Step = pos
		}
	}
}

// Transpile rewrites the circuit over the universal set {H, T, CNOT}. Gates
// walk in step order; each one either passes through (already universal) or
// expands to its library decomposition on the same wires. Every emitted gate
// gets a freshly incrementing step, so the output is strictly sequential.
// Y, CCX and CSWAP expansions are approximate (see the gate library).
func Transpile(gates []Gate) []Gate {
	ordered := slices.Clone(gates)
	slices.SortStableFunc(ordered, func(a, b Gate) int { return a.Step - b.Step })

	var out []Gate
	step := 0
	for _, g := range ordered {
		def, ok := gateTable[g.Type]
		if !ok {
			continue
		}
		if def.decomp == nil {
			ng := g
			ng.Step = step
			step++
			out = append(out, ng)
			continue
		}
		for _, ds := range def.decomp {
			out = append(out, Gate{
				ID:       uuid.NewString(),
				Type:     ds.Type,
				Target:   resolveRole(ds.Target, g),
				Control:  resolveRole(ds.Control, g),
				Control2: -1,
				Step:     step,
			})
			step++
		}
	}
	return out
}

// resolveRole maps a template wire role onto the concrete gate's wires. A
// SWAP without an explicit partner falls back to the adjacent wire, matching
// the engine's execution behavior.
func resolveRole(role int, g Gate) int {
	switch role {
	case roleTarget:
		return g.Target
	case roleControl:
		if g.Control < 0 && g.Type == GateSWAP {
			return g.Target + 1
		}
		return g.Control
	case roleControl2:
		return g.Control2
	}
	return -1
}
