package qsim

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	qasmSingleRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	qasmTwoRegex    = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qasmThreeRegex  = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qasmCU1Regex    = regexp.MustCompile(`^cu1\(pi/4\)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qasmQregRegex   = regexp.MustCompile(`qreg\s+\w+\[(\d+)\]`)
)

var qasmSingleNames = map[string]string{
	GateH: "h", GateX: "x", GateY: "y", GateZ: "z", GateS: "s", GateT: "t",
}

// ToQASM renders the circuit as OPENQASM 2.0, restricted to the engine's
// gate set. The fixed-angle controlled phase is written as cu1(pi/4).
// Controlled gates without a control wire are emitted as comments since
// they execute as no-ops.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	n := max(c.NumQubits, 1)
	fmt.Fprintf(&sb, "qreg q[%d];\n", n)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", n)

	for _, g := range c.sortedGates() {
		if IsControlledType(g.Type) && (g.Control < 0 || (GateArity(g.Type) == 3 && g.Control2 < 0)) {
			fmt.Fprintf(&sb, "// skipped %s q[%d]: no control wire\n", strings.ToLower(g.Type), g.Target)
			continue
		}
		switch g.Type {
		case GateCNOT:
			fmt.Fprintf(&sb, "cx q[%d], q[%d];\n", g.Control, g.Target)
		case GateCZ:
			fmt.Fprintf(&sb, "cz q[%d], q[%d];\n", g.Control, g.Target)
		case GateCPHASE:
			fmt.Fprintf(&sb, "cu1(pi/4) q[%d], q[%d];\n", g.Control, g.Target)
		case GateSWAP:
			partner := g.Control
			if partner < 0 {
				partner = g.Target + 1
			}
			fmt.Fprintf(&sb, "swap q[%d], q[%d];\n", partner, g.Target)
		case GateCCX:
			fmt.Fprintf(&sb, "ccx q[%d], q[%d], q[%d];\n", g.Control, g.Control2, g.Target)
		case GateCSWAP:
			fmt.Fprintf(&sb, "cswap q[%d], q[%d], q[%d];\n", g.Control, g.Target, g.Control2)
		default:
			if name, ok := qasmSingleNames[g.Type]; ok {
				fmt.Fprintf(&sb, "%s q[%d];\n", name, g.Target)
			}
		}
	}
	return sb.String()
}

// ParseQASM rebuilds a circuit from QASM text produced by ToQASM (or
// compatible hand-written input). Each gate line occupies its own step.
// Unsupported statements reject the document; the caller's prior circuit
// is untouched.
func ParseQASM(qasm string) (*Circuit, error) {
	c := NewCircuit(0)
	step := 0

	for _, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") || strings.HasPrefix(line, "barrier") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			if m := qasmQregRegex.FindStringSubmatch(line); m != nil {
				n, _ := strconv.Atoi(m[1])
				c.NumQubits = n
			}
			continue
		}

		if m := qasmCU1Regex.FindStringSubmatch(line); m != nil {
			ctrl, _ := strconv.Atoi(m[1])
			target, _ := strconv.Atoi(m[2])
			c.AddGate(GateCPHASE, target, step, ctrl)
			step++
			continue
		}

		if m := qasmThreeRegex.FindStringSubmatch(line); m != nil {
			name := strings.ToLower(m[1])
			q1, _ := strconv.Atoi(m[2])
			q2, _ := strconv.Atoi(m[3])
			q3, _ := strconv.Atoi(m[4])
			switch name {
			case "ccx":
				c.AddGate(GateCCX, q3, step, q1, q2)
			case "cswap":
				c.AddGate(GateCSWAP, q2, step, q1, q3)
			default:
				return nil, fmt.Errorf("parse qasm: unsupported gate %q", name)
			}
			step++
			continue
		}

		if m := qasmTwoRegex.FindStringSubmatch(line); m != nil {
			name := strings.ToLower(m[1])
			q1, _ := strconv.Atoi(m[2])
			q2, _ := strconv.Atoi(m[3])
			switch name {
			case "cx":
				c.AddGate(GateCNOT, q2, step, q1)
			case "cz":
				c.AddGate(GateCZ, q2, step, q1)
			case "swap":
				c.AddGate(GateSWAP, q2, step, q1)
			default:
				return nil, fmt.Errorf("parse qasm: unsupported gate %q", name)
			}
			step++
			continue
		}

		if m := qasmSingleRegex.FindStringSubmatch(line); m != nil {
			gateType := strings.ToUpper(m[1])
			if !KnownGate(gateType) || GateArity(gateType) != 1 {
				return nil, fmt.Errorf("parse qasm: unsupported gate %q", m[1])
			}
			target, _ := strconv.Atoi(m[2])
			c.AddGate(gateType, target, step)
			step++
			continue
		}

		return nil, fmt.Errorf("parse qasm: unrecognized statement %q", line)
	}
	return c, nil
}
