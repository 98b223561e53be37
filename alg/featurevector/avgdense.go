package featurevector

import (
	"sort"
)

// DefaultLabel is the sentinel label for unlabeled tasks.
const DefaultLabel = "+"

// AvgDense holds one dense weight vector and one prior scalar per label,
// together with the step-indexed accumulators needed for parameter averaging.
// The accumulators record, per touched parameter, the running sum of update
// step indices; the time-averaged model is then recovered in closed form by
// Average without storing per-step snapshots.
type AvgDense struct {
	Labels  []string
	Priors  map[string]float64
	Weights map[string][]float64

	CostScaling float64

	cachedPriors  map[string]float64
	cachedWeights map[string][]float64
}

// NewAvgDense creates a zeroed model of the full feature-space size. A nil or
// empty label set defaults to the single sentinel label.
func NewAvgDense(labels []string, costScaling float64) *AvgDense {
	return MakeAvgDense(labels, costScaling, VectorSize)
}

func MakeAvgDense(labels []string, costScaling float64, size int) *AvgDense {
	if len(labels) == 0 {
		labels = []string{DefaultLabel}
	}
	m := &AvgDense{
		Labels:        labels,
		Priors:        make(map[string]float64, len(labels)),
		Weights:       make(map[string][]float64, len(labels)),
		CostScaling:   costScaling,
		cachedPriors:  make(map[string]float64, len(labels)),
		cachedWeights: make(map[string][]float64, len(labels)),
	}
	for _, label := range labels {
		m.Priors[label] = 0
		m.Weights[label] = make([]float64, size)
		m.cachedPriors[label] = 0
		m.cachedWeights[label] = make([]float64, size)
	}
	return m
}

// AvgDenseFrom wraps previously learned priors and weights, e.g. a model read
// back from disk. The accumulators start zeroed, so the model can be used for
// scoring as-is or as the starting point of further training.
func AvgDenseFrom(priors map[string]float64, weights map[string][]float64, costScaling float64) *AvgDense {
	labels := make([]string, 0, len(weights))
	for label := range weights {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	m := &AvgDense{
		Labels:        labels,
		Priors:        priors,
		Weights:       weights,
		CostScaling:   costScaling,
		cachedPriors:  make(map[string]float64, len(labels)),
		cachedWeights: make(map[string][]float64, len(labels)),
	}
	for _, label := range labels {
		m.cachedWeights[label] = make([]float64, len(weights[label]))
	}
	return m
}

// Score computes prior + sum of feature weights + scaled cost for one arc.
func (m *AvgDense) Score(features []Feature, cost int, label string) float64 {
	score := m.Priors[label] + m.CostScaling*float64(cost)
	weights := m.Weights[label]
	for _, f := range features {
		score += weights[f]
	}
	return score
}

// Update applies a signed perceptron update for one arc: amount is added to
// the label's prior and to the weight of every feature, while the averaging
// accumulators receive amount*step.
func (m *AvgDense) Update(features []Feature, label string, amount float64, step int) {
	weights, cached := m.Weights[label], m.cachedWeights[label]
	stepAmount := amount * float64(step)
	for _, f := range features {
		weights[f] += amount
		cached[f] += stepAmount
	}
	m.Priors[label] += amount
	m.cachedPriors[label] += stepAmount
}

// Average replaces the raw parameters with their time average over totalSteps
// training steps: raw - cached/totalSteps, for priors and weights alike.
func (m *AvgDense) Average(totalSteps int) {
	if totalSteps == 0 {
		panic("Divide by 0")
	}
	inv := 1.0 / float64(totalSteps)
	for _, label := range m.Labels {
		m.Priors[label] -= inv * m.cachedPriors[label]
		weights, cached := m.Weights[label], m.cachedWeights[label]
		for i := range weights {
			weights[i] -= inv * cached[i]
		}
	}
}
