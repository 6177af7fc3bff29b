package qsim

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DefaultShots is the conventional shot count for a measurement run.
const DefaultShots = 1024

// MeasurementResult aggregates sampled basis outcomes. Counts are keyed by
// zero-padded bitstring (wire 0 leftmost); Collapsed is the most frequent
// outcome, ties resolved toward the lowest basis index.
type MeasurementResult struct {
	Shots     int            `json:"shots"`
	Counts    map[string]int `json:"counts"`
	Collapsed string         `json:"collapsed"`
}

// MeasureWithSeed samples the state under the Born rule. Shot k draws its
// value from a generator seeded with seed+k, so identical (state, seed)
// pairs always reproduce identical counts.
func MeasureWithSeed(s *StateVector, shots int, seed int64) MeasurementResult {
	probs := s.Probabilities()
	cum := make([]float64, len(probs))
	floats.CumSum(cum, probs)

	hits := make([]int, len(probs))
	for k := 0; k < shots; k++ {
		r := rand.New(rand.NewSource(seed + int64(k))).Float64()
		idx := sort.SearchFloat64s(cum, r)
		if idx >= len(hits) {
			idx = len(hits) - 1
		}
		hits[idx]++
	}

	counts := make(map[string]int)
	best := -1
	collapsed := ""
	for i, n := range hits {
		if n == 0 {
			continue
		}
		label := s.BasisLabel(i)
		counts[label] = n
		if n > best {
			best = n
			collapsed = label
		}
	}

	return MeasurementResult{Shots: shots, Counts: counts, Collapsed: collapsed}
}

// Sampler carries a seed base across measurements so consecutive calls on
// the same instance do not replay identical shot sequences. The base
// advances by the shot count after every call.
type Sampler struct {
	seed int64
}

func NewSampler(seed int64) *Sampler {
	return &Sampler{seed: seed}
}

func (sm *Sampler) Measure(s *StateVector, shots int) MeasurementResult {
	res := MeasureWithSeed(s, shots, sm.seed)
	sm.seed += int64(shots)
	return res
}
