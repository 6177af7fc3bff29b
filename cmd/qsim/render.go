package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qsim"
)

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// wireSymbol picks the mark drawn on a wire a multi-qubit gate touches.
func wireSymbol(g *qsim.Gate, wire int) string {
	switch g.Type {
	case qsim.GateSWAP:
		return "×"
	case qsim.GateCSWAP:
		if wire == g.Control {
			return "●"
		}
		return "×"
	case qsim.GateCZ, qsim.GateCPHASE:
		return "●"
	}
	// CNOT / CCX: target gets the plus, controls get dots.
	if wire == g.Target {
		return "⊕"
	}
	return "●"
}

// gateSpan returns the lowest and highest wire a gate touches, including the
// implicit adjacent partner of an uncontrolled SWAP.
func gateSpan(g *qsim.Gate) (lo, hi int) {
	wires := g.Wires()
	if g.Type == qsim.GateSWAP && g.Control < 0 {
		wires = append(wires, g.Target+1)
	}
	lo, hi = wires[0], wires[0]
	for _, w := range wires {
		lo = min(lo, w)
		hi = max(hi, w)
	}
	return lo, hi
}

// renderCell returns 3 lines (top, mid, bot) for a single grid cell, each
// exactly cellW visual characters wide.
func (m Model) renderCell(step, wire int) (top, mid, bot string) {
	empty := strings.Repeat(" ", cellW)
	half := cellW / 2
	vert := strings.Repeat(" ", half) + "│" + strings.Repeat(" ", cellW-half-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1
	plain := strings.Repeat("─", cellW)

	top, mid, bot = empty, plain, empty

	g := m.circuit.GateAt(step, wire)
	if g == nil {
		// A multi-wire gate may still pass through this cell vertically.
		for i := range m.circuit.Gates {
			other := &m.circuit.Gates[i]
			if other.Step != step {
				continue
			}
			lo, hi := gateSpan(other)
			if wire > lo && wire < hi {
				top, bot = vert, vert
				mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
				break
			}
			if other.Type == qsim.GateSWAP && other.Control < 0 && wire == other.Target+1 {
				mid = strings.Repeat("─", dashL) + gateStyle.Render("×") + strings.Repeat("─", dashR)
				top = vert
			}
		}
	} else if qsim.GateArity(g.Type) == 1 {
		boxW := gateNameW + 2
		margin := (cellW - boxW) / 2
		rmargin := cellW - margin - boxW
		name := padCenter(g.Type, gateNameW)
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rmargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rmargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rmargin)
	} else {
		lo, hi := gateSpan(g)
		mid = strings.Repeat("─", dashL) + gateStyle.Render(wireSymbol(g, wire)) + strings.Repeat("─", dashR)
		if wire > lo {
			top = vert
		}
		if wire < hi {
			bot = vert
		}
	}

	if m.highlightAt(step, wire) != nil {
		mid = m.highlightAt(step, wire).Render(stripANSI(mid))
	}
	return top, mid, bot
}

// highlightAt returns the style for a highlighted cell, or nil.
func (m Model) highlightAt(step, wire int) *lipgloss.Style {
	if step != m.cursorStep {
		return nil
	}
	switch m.focus {
	case focusSelectControl:
		if wire == m.controlWire {
			return &selectStyle
		}
	case focusSelectControl2:
		if wire == m.controlWire {
			return &selectStyle
		}
		if wire == m.control2Wire {
			return &selectStyle
		}
	}
	if wire == m.cursorWire && m.focus != focusNoiseInput {
		return &cursorStyle
	}
	return nil
}

// stripANSI removes escape sequences so a cell can be restyled wholesale.
func stripANSI(s string) string {
	var sb strings.Builder
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ──────────────────────────── Panels ────────────────────────────

func (m Model) renderGrid(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Circuit"))
	sb.WriteString("\n\n")

	visible := max((width-labelW-4)/cellW, 1)
	start := 0
	if m.cursorStep >= visible {
		start = m.cursorStep - visible + 1
	}

	header := strings.Repeat(" ", labelW)
	for step := start; step < start+visible; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	for wire := 0; wire < m.circuit.NumQubits; wire++ {
		topLine := strings.Repeat(" ", labelW)
		midLine := wireLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", wire))) + "──"
		botLine := strings.Repeat(" ", labelW)
		for step := start; step < start+visible; step++ {
			top, mid, bot := m.renderCell(step, wire)
			topLine += top
			midLine += mid
			botLine += bot
		}
		sb.WriteString(topLine + "\n" + midLine + "\n" + botLine + "\n")
	}

	sb.WriteString("\n")
	switch m.focus {
	case focusSelectControl:
		fmt.Fprintf(&sb, "  %s control wire: q[%d]  ", statusStyle.Render(m.pendingGate), m.controlWire)
		sb.WriteString(dimStyle.Render("↑↓ Move  ⏎ Confirm  Esc Cancel"))
	case focusSelectControl2:
		fmt.Fprintf(&sb, "  %s second control: q[%d]  ", statusStyle.Render(m.pendingGate), m.control2Wire)
		sb.WriteString(dimStyle.Render("↑↓ Move  ⏎ Confirm  Esc Cancel"))
	default:
		fmt.Fprintf(&sb, "  step %d, wire %d", m.cursorStep, m.cursorWire)
		if m.statusMsg != "" {
			sb.WriteString("  │  " + statusStyle.Render(m.statusMsg))
		}
	}

	return gridStyle.Width(width).Height(height).Render(sb.String())
}

func (m Model) renderPalette(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n\n")
	for i, item := range palette {
		line := fmt.Sprintf("%-7s %s", item.gateType, item.desc)
		if i == m.paletteIdx {
			sb.WriteString(paletteSelStyle.Render("▸ " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("↑↓ Select  ⏎ Place  Esc Cancel"))
	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

func (m Model) renderResults(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Results"))
	sb.WriteString("\n\n")
	if m.focus == focusNoiseInput {
		sb.WriteString("Noise level (0 to 1):\n\n")
		sb.WriteString(m.noiseInput.View())
		sb.WriteString("\n\n")
		sb.WriteString(dimStyle.Render("⏎ Run  Esc Cancel"))
	} else if m.results == "" {
		sb.WriteString(dimStyle.Render("r to execute, m to measure"))
	} else {
		sb.WriteString(m.results)
	}
	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

func (m Model) renderControls(width int) string {
	var sb strings.Builder
	sb.WriteString(keyStyle.Render("Edit: "))
	sb.WriteString("↑↓←→/hjkl Move  a Add  Bksp Delete  +/- Wires\n")
	sb.WriteString(keyStyle.Render("Run:  "))
	sb.WriteString("r Execute  m Measure  d Depth  o Optimize  t Transpile  n Noise\n")
	sb.WriteString(keyStyle.Render("File: "))
	sb.WriteString("^S Save JSON  ^E Save QASM  q Quit")
	return controlsStyle.Width(width).Render(sb.String())
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	sideW := max(m.width/3, 30)
	gridW := max(m.width-sideW-4, 20)
	barH := 5
	bodyH := max(m.height-barH-2, 8)

	var side string
	if m.focus == focusPalette {
		side = m.renderPalette(sideW, bodyH)
	} else {
		side = m.renderResults(sideW, bodyH)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.renderGrid(gridW, bodyH), side)
	return lipgloss.JoinVertical(lipgloss.Left, top, m.renderControls(m.width-4))
}

// ──────────────────────────── Result formatting ────────────────────────────

func formatState(s *qsim.StateVector) string {
	var sb strings.Builder
	sb.WriteString("State vector\n\n")
	shown := 0
	for i, a := range s.Amplitudes {
		p := real(a)*real(a) + imag(a)*imag(a)
		if p < 1e-9 {
			continue
		}
		if shown >= 16 {
			sb.WriteString(dimStyle.Render("…"))
			sb.WriteString("\n")
			break
		}
		fmt.Fprintf(&sb, "|%s>  %+.4f%+.4fi  p=%.3f\n", s.BasisLabel(i), real(a), imag(a), p)
		shown++
	}
	return sb.String()
}

func formatCounts(res qsim.MeasurementResult) string {
	labels := make([]string, 0, len(res.Counts))
	for label := range res.Counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	most := 0
	for _, n := range res.Counts {
		most = max(most, n)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Measurement (%d shots)\n\n", res.Shots)
	for _, label := range labels {
		n := res.Counts[label]
		barW := 0
		if most > 0 {
			barW = n * 20 / most
		}
		fmt.Fprintf(&sb, "|%s> %5d %s\n", label, n, gateStyle.Render(strings.Repeat("█", barW)))
	}
	fmt.Fprintf(&sb, "\ncollapsed: |%s>\n", res.Collapsed)
	return sb.String()
}

func formatAnalysis(report qsim.DepthReport, issues []qsim.Issue) string {
	var sb strings.Builder
	sb.WriteString("Analysis\n\n")
	fmt.Fprintf(&sb, "depth: %d\n", report.Depth)
	fmt.Fprintf(&sb, "avg parallelism: %.2f\n", report.AvgParallelism)

	steps := make([]int, 0, len(report.Layers))
	for step := range report.Layers {
		steps = append(steps, step)
	}
	sort.Ints(steps)
	for _, step := range steps {
		fmt.Fprintf(&sb, "  layer %d: %d gate(s)\n", step, len(report.Layers[step]))
	}

	if len(issues) == 0 {
		sb.WriteString("\nno issues\n")
	} else {
		sb.WriteString("\n")
		for _, issue := range issues {
			fmt.Fprintf(&sb, "%s: %s\n", statusStyle.Render(string(issue.Severity)), issue.Message)
		}
	}
	return sb.String()
}

func formatNoise(level float64, res qsim.NoiseResult) string {
	var sb strings.Builder
	sb.WriteString("Noise simulation\n\n")
	fmt.Fprintf(&sb, "noise level: %.4f\n", level)
	fmt.Fprintf(&sb, "fidelity: %.4f\n", res.Fidelity)
	fmt.Fprintf(&sb, "error rate: %.4f\n", res.ErrorRate)
	fmt.Fprintf(&sb, "decoherence: %.4f\n", res.DecoherenceEffect)
	return sb.String()
}
