package main

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"qsim"
)

// Handlers serves the circuit simulation endpoints. Every endpoint takes a
// circuit document in the interchange JSON format; a rejected document is a
// 400 and leaves nothing behind.
type Handlers struct {
	log zerolog.Logger
}

func NewHandlers(log zerolog.Logger) *Handlers {
	return &Handlers{log: log.With().Str("handler", "circuit").Logger()}
}

type circuitRequest struct {
	Circuit    json.RawMessage `json:"circuit"`
	Shots      int             `json:"shots,omitempty"`
	Seed       *int64          `json:"seed,omitempty"`
	NoiseLevel float64         `json:"noiseLevel,omitempty"`
	Qasm       string          `json:"qasm,omitempty"`
}

func (h *Handlers) decodeCircuit(w http.ResponseWriter, r *http.Request) (*qsim.Circuit, *circuitRequest, bool) {
	var req circuitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("failed to decode request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil, nil, false
	}
	if len(req.Circuit) == 0 {
		http.Error(w, "missing circuit", http.StatusBadRequest)
		return nil, nil, false
	}
	c, err := qsim.UnmarshalCircuit(req.Circuit)
	if err != nil {
		h.log.Error().Err(err).Msg("rejected circuit document")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	return c, &req, true
}

func (req *circuitRequest) seedOrNow() int64 {
	if req.Seed != nil {
		return *req.Seed
	}
	return time.Now().UnixNano()
}

// HandleHealth handles GET /health
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type amplitudeEntry struct {
	State       string  `json:"state"`
	Real        float64 `json:"real"`
	Imag        float64 `json:"imag"`
	Probability float64 `json:"probability"`
}

// HandleExecute handles POST /api/execute
func (h *Handlers) HandleExecute(w http.ResponseWriter, r *http.Request) {
	c, _, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}
	state, err := c.ExecuteContext(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("execution failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amplitudes := make([]amplitudeEntry, len(state.Amplitudes))
	for i, a := range state.Amplitudes {
		amplitudes[i] = amplitudeEntry{
			State:       state.BasisLabel(i),
			Real:        real(a),
			Imag:        imag(a),
			Probability: real(a)*real(a) + imag(a)*imag(a),
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"numQubits":  state.NumQubits,
		"amplitudes": amplitudes,
	})
}

// HandleMeasure handles POST /api/measure
func (h *Handlers) HandleMeasure(w http.ResponseWriter, r *http.Request) {
	c, req, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}
	state, err := c.ExecuteContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	shots := req.Shots
	if shots <= 0 {
		shots = qsim.DefaultShots
	}
	seed := req.seedOrNow()
	res := qsim.MeasureWithSeed(state, shots, seed)
	h.writeJSON(w, http.StatusOK, struct {
		qsim.MeasurementResult
		Seed int64 `json:"seed"`
	}{res, seed})
}

type layerEntry struct {
	Position int `json:"position"`
	Gates    int `json:"gates"`
}

// HandleAnalyze handles POST /api/analyze
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	c, _, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}
	report := qsim.AnalyzeDepth(c.Gates)

	layers := make([]layerEntry, 0, len(report.Layers))
	for step, gates := range report.Layers {
		layers = append(layers, layerEntry{Position: step, Gates: len(gates)})
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].Position < layers[j].Position })

	h.writeJSON(w, http.StatusOK, map[string]any{
		"depth":          report.Depth,
		"avgParallelism": report.AvgParallelism,
		"layers":         layers,
	})
}

// HandleVerify handles POST /api/verify
func (h *Handlers) HandleVerify(w http.ResponseWriter, r *http.Request) {
	c, _, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}
	issues := qsim.Verify(c.Gates, c.NumQubits)
	if issues == nil {
		issues = []qsim.Issue{}
	}
	valid := true
	for _, issue := range issues {
		if issue.Severity == qsim.SeverityError {
			valid = false
			break
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"valid":  valid,
		"issues": issues,
	})
}

// HandleOptimize handles POST /api/optimize
func (h *Handlers) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	c, _, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}
	gates, removed := qsim.Optimize(c.Gates)
	c.Gates = gates
	h.respondCircuit(w, c, map[string]any{"removed": removed})
}

// HandleTranspile handles POST /api/transpile
func (h *Handlers) HandleTranspile(w http.ResponseWriter, r *http.Request) {
	c, _, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}
	c.Gates = qsim.Transpile(c.Gates)
	h.respondCircuit(w, c, nil)
}

// HandleNoise handles POST /api/noise
func (h *Handlers) HandleNoise(w http.ResponseWriter, r *http.Request) {
	c, req, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}
	if req.NoiseLevel < 0 || req.NoiseLevel > 1 {
		http.Error(w, "noiseLevel must be between 0 and 1", http.StatusBadRequest)
		return
	}
	ideal, err := c.ExecuteContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	seed := req.seedOrNow()
	res, err := qsim.SimulateNoise(c, ideal, req.NoiseLevel, seed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, struct {
		qsim.NoiseResult
		Seed int64 `json:"seed"`
	}{res, seed})
}

// HandleQASMExport handles POST /api/qasm/export
func (h *Handlers) HandleQASMExport(w http.ResponseWriter, r *http.Request) {
	c, _, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"qasm": c.ToQASM()})
}

// HandleQASMParse handles POST /api/qasm/parse
func (h *Handlers) HandleQASMParse(w http.ResponseWriter, r *http.Request) {
	var req circuitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Qasm == "" {
		http.Error(w, "missing qasm", http.StatusBadRequest)
		return
	}
	c, err := qsim.ParseQASM(req.Qasm)
	if err != nil {
		h.log.Error().Err(err).Msg("rejected qasm document")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.respondCircuit(w, c, nil)
}

// respondCircuit encodes a circuit back into the interchange format along
// with any extra top-level fields.
func (h *Handlers) respondCircuit(w http.ResponseWriter, c *qsim.Circuit, extra map[string]any) {
	data, err := qsim.MarshalCircuit(c)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode circuit")
		http.Error(w, "failed to encode circuit", http.StatusInternalServerError)
		return
	}
	body := map[string]any{"circuit": json.RawMessage(data)}
	for k, v := range extra {
		body[k] = v
	}
	h.writeJSON(w, http.StatusOK, body)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}
