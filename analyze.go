package qsim

import "fmt"

// DepthReport describes the layering of a circuit: gates grouped by step.
type DepthReport struct {
	Depth          int
	Layers         map[int][]Gate
	AvgParallelism float64
}

// AnalyzeDepth groups gates by step. Depth is the number of distinct steps
// in use; each layer's size is its parallelism.
func AnalyzeDepth(gates []Gate) DepthReport {
	layers := make(map[int][]Gate)
	for _, g := range gates {
		layers[g.Step] = append(layers[g.Step], g)
	}
	report := DepthReport{Depth: len(layers), Layers: layers}
	if report.Depth > 0 {
		report.AvgParallelism = float64(len(gates)) / float64(report.Depth)
	}
	return report
}

// Severity classifies a verification issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one verification finding. Issues are derived data, recomputed on
// demand; they are never raised as errors so the circuit stays editable.
type Issue struct {
	GateID   string   `json:"gateId"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Verify checks every gate for structural problems. Errors mean the circuit
// must not be executed; warnings document tolerated oddities, including the
// controlled-gate-without-control case that executes as a no-op.
func Verify(gates []Gate, numQubits int) []Issue {
	var issues []Issue
	report := func(g Gate, sev Severity, format string, args ...any) {
		issues = append(issues, Issue{GateID: g.ID, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	type cell struct{ wire, step int }
	occupied := make(map[cell]string)

	for _, g := range gates {
		if !KnownGate(g.Type) {
			report(g, SeverityError, "unknown gate type %q", g.Type)
			continue
		}
		if g.Target < 0 || g.Target >= numQubits {
			report(g, SeverityError, "%s: target wire %d out of range [0,%d)", g.Type, g.Target, numQubits)
		}
		if g.Control >= 0 {
			if g.Control >= numQubits {
				report(g, SeverityError, "%s: control wire %d out of range [0,%d)", g.Type, g.Control, numQubits)
			}
			if g.Control == g.Target {
				report(g, SeverityError, "%s: control wire equals target wire %d", g.Type, g.Target)
			}
		}
		if g.Control2 >= 0 {
			if g.Control2 >= numQubits {
				report(g, SeverityError, "%s: control wire %d out of range [0,%d)", g.Type, g.Control2, numQubits)
			}
			if g.Control2 == g.Target {
				report(g, SeverityError, "%s: second control wire equals target wire %d", g.Type, g.Target)
			}
			if g.Control2 == g.Control {
				report(g, SeverityError, "%s: control wires both on wire %d", g.Type, g.Control)
			}
		}
		if GateArity(g.Type) == 3 && numQubits < 3 {
			report(g, SeverityError, "%s needs 3 wires, circuit has %d", g.Type, numQubits)
		}
		if IsControlledType(g.Type) && GateArity(g.Type) == 2 && g.Control < 0 {
			report(g, SeverityWarning, "%s has no control wire set and will be skipped during execution", g.Type)
		}
		if g.Type == GateSWAP && g.Control < 0 && g.Target+1 >= numQubits {
			report(g, SeverityError, "SWAP: no adjacent wire below wire %d", g.Target)
		}

		for _, w := range g.Wires() {
			if w < 0 || w >= numQubits {
				continue
			}
			key := cell{wire: w, step: g.Step}
			if other, ok := occupied[key]; ok && other != g.ID {
				report(g, SeverityWarning, "overlaps another gate at wire %d, step %d", w, g.Step)
			} else {
				occupied[key] = g.ID
			}
		}
	}
	return issues
}
