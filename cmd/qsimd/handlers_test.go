package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qsim"
)

func testHandlers() *Handlers {
	return NewHandlers(zerolog.New(nil).Level(zerolog.Disabled))
}

func bellDocument(t *testing.T) json.RawMessage {
	t.Helper()
	c := qsim.NewCircuit(2)
	c.AddGate(qsim.GateH, 0, 0)
	c.AddGate(qsim.GateCNOT, 1, 1, 0)
	data, err := qsim.MarshalCircuit(c)
	require.NoError(t, err)
	return data
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleExecute(t *testing.T) {
	h := testHandlers()
	w := postJSON(t, h.HandleExecute, "/api/execute", map[string]any{
		"circuit": bellDocument(t),
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.EqualValues(t, 2, response["numQubits"])

	amps := response["amplitudes"].([]any)
	require.Len(t, amps, 4)
	first := amps[0].(map[string]any)
	assert.Equal(t, "00", first["state"])
	assert.InDelta(t, 0.5, first["probability"].(float64), 1e-9)
}

func TestHandleExecuteRejectsBadDocument(t *testing.T) {
	h := testHandlers()
	w := postJSON(t, h.HandleExecute, "/api/execute", map[string]any{
		"circuit": map[string]any{"version": 1, "gates": []any{}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, h.HandleExecute, "/api/execute", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMeasureSeeded(t *testing.T) {
	h := testHandlers()
	body := map[string]any{"circuit": bellDocument(t), "shots": 256, "seed": 5}

	w1 := postJSON(t, h.HandleMeasure, "/api/measure", body)
	w2 := postJSON(t, h.HandleMeasure, "/api/measure", body)
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, w1.Body.String(), w2.Body.String(), "same seed replays the same counts")

	var response struct {
		Shots  int            `json:"shots"`
		Counts map[string]int `json:"counts"`
		Seed   int64          `json:"seed"`
	}
	require.NoError(t, json.NewDecoder(w1.Body).Decode(&response))
	assert.Equal(t, 256, response.Shots)
	assert.EqualValues(t, 5, response.Seed)
	total := 0
	for _, n := range response.Counts {
		total += n
	}
	assert.Equal(t, 256, total)
}

func TestHandleAnalyze(t *testing.T) {
	h := testHandlers()
	w := postJSON(t, h.HandleAnalyze, "/api/analyze", map[string]any{
		"circuit": bellDocument(t),
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.EqualValues(t, 2, response["depth"])
	assert.Len(t, response["layers"].([]any), 2)
}

func TestHandleVerify(t *testing.T) {
	h := testHandlers()
	c := qsim.NewCircuit(2)
	c.AddGate(qsim.GateCNOT, 0, 0, 0) // self-referential
	data, err := qsim.MarshalCircuit(c)
	require.NoError(t, err)

	w := postJSON(t, h.HandleVerify, "/api/verify", map[string]any{
		"circuit": json.RawMessage(data),
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Valid  bool         `json:"valid"`
		Issues []qsim.Issue `json:"issues"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Valid)
	require.Len(t, response.Issues, 1)
}

func TestHandleOptimize(t *testing.T) {
	h := testHandlers()
	c := qsim.NewCircuit(1)
	c.AddGate(qsim.GateH, 0, 0)
	c.AddGate(qsim.GateH, 0, 1)
	data, err := qsim.MarshalCircuit(c)
	require.NoError(t, err)

	w := postJSON(t, h.HandleOptimize, "/api/optimize", map[string]any{
		"circuit": json.RawMessage(data),
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Removed int             `json:"removed"`
		Circuit json.RawMessage `json:"circuit"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 2, response.Removed)

	got, err := qsim.UnmarshalCircuit(response.Circuit)
	require.NoError(t, err)
	assert.Empty(t, got.Gates)
}

func TestHandleTranspile(t *testing.T) {
	h := testHandlers()
	c := qsim.NewCircuit(1)
	c.AddGate(qsim.GateZ, 0, 0)
	data, err := qsim.MarshalCircuit(c)
	require.NoError(t, err)

	w := postJSON(t, h.HandleTranspile, "/api/transpile", map[string]any{
		"circuit": json.RawMessage(data),
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Circuit json.RawMessage `json:"circuit"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	got, err := qsim.UnmarshalCircuit(response.Circuit)
	require.NoError(t, err)
	require.Len(t, got.Gates, 4)
	for _, g := range got.Gates {
		assert.Equal(t, qsim.GateT, g.Type)
	}
}

func TestHandleNoise(t *testing.T) {
	h := testHandlers()
	w := postJSON(t, h.HandleNoise, "/api/noise", map[string]any{
		"circuit":    bellDocument(t),
		"noiseLevel": 0.0,
		"seed":       1,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Fidelity float64 `json:"fidelity"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.InDelta(t, 1.0, response.Fidelity, 1e-12)

	w = postJSON(t, h.HandleNoise, "/api/noise", map[string]any{
		"circuit":    bellDocument(t),
		"noiseLevel": 2.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleQASMRoundTrip(t *testing.T) {
	h := testHandlers()
	w := postJSON(t, h.HandleQASMExport, "/api/qasm/export", map[string]any{
		"circuit": bellDocument(t),
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var exported struct {
		Qasm string `json:"qasm"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&exported))
	assert.Contains(t, exported.Qasm, "cx q[0], q[1];")

	w = postJSON(t, h.HandleQASMParse, "/api/qasm/parse", map[string]any{
		"qasm": exported.Qasm,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var parsed struct {
		Circuit json.RawMessage `json:"circuit"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&parsed))
	got, err := qsim.UnmarshalCircuit(parsed.Circuit)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumQubits)
	assert.Len(t, got.Gates, 2)
}

func TestRoutes(t *testing.T) {
	srv := NewServer(zerolog.New(nil).Level(zerolog.Disabled), 0)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	body, err := json.Marshal(map[string]any{"circuit": bellDocument(t)})
	require.NoError(t, err)
	req = httptest.NewRequest("POST", "/api/execute", bytes.NewReader(body))
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
