package qsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeDepth(t *testing.T) {
	c := NewCircuit(3)
	c.AddGate(GateH, 0, 0)
	c.AddGate(GateH, 1, 0)
	c.AddGate(GateCNOT, 2, 1, 0)

	report := AnalyzeDepth(c.Gates)
	assert.Equal(t, 2, report.Depth)
	assert.Len(t, report.Layers[0], 2)
	assert.Len(t, report.Layers[1], 1)
	assert.InDelta(t, 1.5, report.AvgParallelism, 1e-12)
}

func TestAnalyzeDepthEmpty(t *testing.T) {
	report := AnalyzeDepth(nil)
	assert.Equal(t, 0, report.Depth)
	assert.Zero(t, report.AvgParallelism)
}

func TestVerifyCleanCircuit(t *testing.T) {
	issues := Verify(bellCircuit().Gates, 2)
	assert.Empty(t, issues)
}

func TestVerifySelfReferentialControl(t *testing.T) {
	c := NewCircuit(2)
	g := c.AddGate(GateCNOT, 0, 0, 0) // control == target

	issues := Verify(c.Gates, 2)
	require.Len(t, issues, 1)
	assert.Equal(t, g.ID, issues[0].GateID)
	assert.Equal(t, SeverityError, issues[0].Severity)
}

func TestVerifyTargetOutOfRange(t *testing.T) {
	c := NewCircuit(2)
	c.AddGate(GateX, 4, 0)
	issues := Verify(c.Gates, 2)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
}

func TestVerifyEqualControls(t *testing.T) {
	c := NewCircuit(3)
	c.AddGate(GateCCX, 2, 0, 1, 1)
	issues := Verify(c.Gates, 3)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "control wires")
}

func TestVerifyThreeQubitGateNeedsThreeWires(t *testing.T) {
	c := NewCircuit(2)
	c.AddGate(GateCCX, 1, 0, 0, 1)
	issues := Verify(c.Gates, 2)
	found := false
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			found = true
		}
	}
	assert.True(t, found)
}

func TestVerifyMissingControlIsWarningOnly(t *testing.T) {
	c := NewCircuit(2)
	g := c.AddGate(GateCNOT, 1, 0) // no control: executes as a no-op

	issues := Verify(c.Gates, 2)
	require.Len(t, issues, 1)
	assert.Equal(t, g.ID, issues[0].GateID)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestVerifyOverlapIsWarningOnly(t *testing.T) {
	c := NewCircuit(2)
	c.AddGate(GateH, 0, 0)
	dup := c.AddGate(GateX, 0, 0)

	issues := Verify(c.Gates, 2)
	require.Len(t, issues, 1)
	assert.Equal(t, dup.ID, issues[0].GateID)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestVerifyUnknownGateType(t *testing.T) {
	gates := []Gate{{ID: "g1", Type: "WARP", Target: 0, Control: -1, Control2: -1}}
	issues := Verify(gates, 2)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
}

func TestVerifyNeverPanicsOnGarbage(t *testing.T) {
	gates := []Gate{
		{ID: "a", Type: GateCCX, Target: -3, Control: 9, Control2: 9, Step: -1},
		{ID: "b", Type: GateSWAP, Target: 1, Control: -1, Control2: -1, Step: 0},
	}
	assert.NotPanics(t, func() { Verify(gates, 2) })
}
