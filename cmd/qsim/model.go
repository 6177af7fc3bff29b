package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"qsim"
)

// focus tracks which panel or prompt owns keyboard input.
type focus int

const (
	focusGrid focus = iota
	focusPalette
	focusSelectControl
	focusSelectControl2
	focusNoiseInput
)

type paletteItem struct {
	gateType string
	desc     string
}

var palette = []paletteItem{
	{qsim.GateH, "Hadamard"},
	{qsim.GateX, "Pauli X"},
	{qsim.GateY, "Pauli Y"},
	{qsim.GateZ, "Pauli Z"},
	{qsim.GateS, "Phase"},
	{qsim.GateT, "T"},
	{qsim.GateCNOT, "Controlled NOT"},
	{qsim.GateCZ, "Controlled Z"},
	{qsim.GateCPHASE, "Controlled phase"},
	{qsim.GateSWAP, "Swap"},
	{qsim.GateCCX, "Toffoli"},
	{qsim.GateCSWAP, "Fredkin"},
}

// Model is the TUI application state. The circuit is the single source of
// truth; result panels are re-derived from it on every action.
type Model struct {
	circuit *qsim.Circuit
	sampler *qsim.Sampler
	seed    int64

	cursorWire int
	cursorStep int
	width      int
	height     int
	focus      focus

	paletteIdx   int
	pendingGate  string
	controlWire  int
	control2Wire int

	noiseInput textinput.Model

	results   string
	statusMsg string
}

func newModel(c *qsim.Circuit) Model {
	ti := textinput.New()
	ti.Placeholder = "0.05"
	ti.CharLimit = 8
	ti.Width = 10

	seed := time.Now().UnixNano()
	return Model{
		circuit:    c,
		sampler:    qsim.NewSampler(seed),
		seed:       seed,
		noiseInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusGrid:
			m.statusMsg = ""
			switch key {
			case "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursorWire > 0 {
					m.cursorWire--
				}
			case "down", "j":
				if m.cursorWire < m.circuit.NumQubits-1 {
					m.cursorWire++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				m.cursorStep++
			case "+", "=":
				m.circuit.NumQubits++
			case "-":
				m.shrinkCircuit()
			case "a":
				m.focus = focusPalette
			case "backspace", "delete":
				if m.circuit.RemoveGateAt(m.cursorStep, m.cursorWire) {
					m.statusMsg = "gate removed"
				}
			case "r":
				m.runExecute()
			case "m":
				m.runMeasure()
			case "d":
				m.runAnalyze()
			case "o":
				m.runOptimize()
			case "t":
				m.runTranspile()
			case "n":
				m.noiseInput.SetValue("")
				m.noiseInput.Focus()
				m.focus = focusNoiseInput
			case "ctrl+s":
				m.saveJSON("circuit.json")
			case "ctrl+e":
				m.saveQASM("circuit.qasm")
			}

		case focusPalette:
			switch key {
			case "esc":
				m.focus = focusGrid
			case "up", "k":
				if m.paletteIdx > 0 {
					m.paletteIdx--
				}
			case "down", "j":
				if m.paletteIdx < len(palette)-1 {
					m.paletteIdx++
				}
			case "enter":
				m.beginPlacement(palette[m.paletteIdx].gateType)
			}

		case focusSelectControl:
			switch key {
			case "esc":
				m.focus = focusGrid
				m.pendingGate = ""
			case "up", "k":
				m.controlWire = m.prevFreeWire(m.controlWire, m.cursorWire, -1)
			case "down", "j":
				m.controlWire = m.nextFreeWire(m.controlWire, m.cursorWire, -1)
			case "enter":
				if qsim.GateArity(m.pendingGate) == 3 {
					m.control2Wire = m.nextFreeWire(-1, m.cursorWire, m.controlWire)
					m.focus = focusSelectControl2
				} else {
					m.placeGate(m.pendingGate, m.controlWire)
				}
			}

		case focusSelectControl2:
			switch key {
			case "esc":
				m.focus = focusGrid
				m.pendingGate = ""
			case "up", "k":
				m.control2Wire = m.prevFreeWire(m.control2Wire, m.cursorWire, m.controlWire)
			case "down", "j":
				m.control2Wire = m.nextFreeWire(m.control2Wire, m.cursorWire, m.controlWire)
			case "enter":
				m.placeGate(m.pendingGate, m.controlWire, m.control2Wire)
			}

		case focusNoiseInput:
			switch key {
			case "esc":
				m.noiseInput.Blur()
				m.focus = focusGrid
			case "enter":
				m.noiseInput.Blur()
				m.focus = focusGrid
				level, err := strconv.ParseFloat(m.noiseInput.Value(), 64)
				if err != nil || level < 0 || level > 1 {
					m.statusMsg = "noise level must be a number in [0, 1]"
					break
				}
				m.runNoise(level)
			default:
				var cmd tea.Cmd
				m.noiseInput, cmd = m.noiseInput.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// beginPlacement starts gate placement at the cursor. Single-qubit gates
// land immediately; controlled gates go through control-wire selection.
func (m *Model) beginPlacement(gateType string) {
	arity := qsim.GateArity(gateType)
	if arity > m.circuit.NumQubits {
		m.statusMsg = fmt.Sprintf("%s needs %d wires", gateType, arity)
		m.focus = focusGrid
		return
	}
	if arity == 1 {
		m.placeGate(gateType)
		return
	}
	m.pendingGate = gateType
	m.controlWire = m.nextFreeWire(-1, m.cursorWire, -1)
	m.focus = focusSelectControl
}

// placeGate inserts the gate at the cursor cell, replacing whatever occupied
// it, then advances the cursor one step.
func (m *Model) placeGate(gateType string, controls ...int) {
	m.circuit.RemoveGateAt(m.cursorStep, m.cursorWire)
	g := m.circuit.AddGate(gateType, m.cursorWire, m.cursorStep, controls...)
	m.pendingGate = ""
	m.focus = focusGrid
	m.cursorStep++

	if issues := qsim.Verify(m.circuit.Gates, m.circuit.NumQubits); len(issues) > 0 {
		for _, issue := range issues {
			if issue.GateID == g.ID {
				m.statusMsg = issue.Message
				break
			}
		}
	}
}

func (m *Model) shrinkCircuit() {
	if m.circuit.NumQubits <= 1 {
		return
	}
	last := m.circuit.NumQubits - 1
	kept := m.circuit.Gates[:0]
	for _, g := range m.circuit.Gates {
		if !g.References(last) {
			kept = append(kept, g)
		}
	}
	m.circuit.Gates = kept
	m.circuit.NumQubits = last
	m.cursorWire = min(m.cursorWire, last-1)
}

// nextFreeWire scans downward from after `from` for a wire distinct from the
// excluded ones, wrapping to the top.
func (m *Model) nextFreeWire(from, excl1, excl2 int) int {
	n := m.circuit.NumQubits
	for i := 1; i <= n; i++ {
		w := ((from + i) % n + n) % n
		if w != excl1 && w != excl2 {
			return w
		}
	}
	return from
}

func (m *Model) prevFreeWire(from, excl1, excl2 int) int {
	n := m.circuit.NumQubits
	for i := 1; i <= n; i++ {
		w := ((from - i) % n + n) % n
		if w != excl1 && w != excl2 {
			return w
		}
	}
	return from
}

// ──────────────────────────── Actions ────────────────────────────

func (m *Model) runExecute() {
	state, err := m.circuit.Execute()
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.results = formatState(state)
	m.statusMsg = "executed"
}

func (m *Model) runMeasure() {
	state, err := m.circuit.Execute()
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	res := m.sampler.Measure(state, qsim.DefaultShots)
	m.results = formatCounts(res)
	m.statusMsg = fmt.Sprintf("%d shots", res.Shots)
}

func (m *Model) runAnalyze() {
	report := qsim.AnalyzeDepth(m.circuit.Gates)
	issues := qsim.Verify(m.circuit.Gates, m.circuit.NumQubits)
	m.results = formatAnalysis(report, issues)
	m.statusMsg = fmt.Sprintf("depth %d, %d issue(s)", report.Depth, len(issues))
}

func (m *Model) runOptimize() {
	gates, removed := qsim.Optimize(m.circuit.Gates)
	m.circuit.Gates = gates
	m.statusMsg = fmt.Sprintf("optimized: %d gate(s) removed", removed)
	m.cursorStep = 0
}

func (m *Model) runTranspile() {
	m.circuit.Gates = qsim.Transpile(m.circuit.Gates)
	m.statusMsg = "transpiled to {H, T, CNOT}"
	m.cursorStep = 0
}

func (m *Model) runNoise(level float64) {
	ideal, err := m.circuit.Execute()
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.seed++
	res, err := qsim.SimulateNoise(m.circuit, ideal, level, m.seed)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.results = formatNoise(level, res)
	m.statusMsg = fmt.Sprintf("fidelity %.4f", res.Fidelity)
}

func (m *Model) saveJSON(path string) {
	data, err := qsim.MarshalCircuit(m.circuit)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = "saved " + path
}

func (m *Model) saveQASM(path string) {
	if err := os.WriteFile(path, []byte(m.circuit.ToQASM()), 0644); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = "saved " + path
}
