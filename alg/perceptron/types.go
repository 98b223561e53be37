package perceptron

import (
	"github.com/npow/cort/alg/featurevector"
	"github.com/npow/cort/nlp/types"
)

// Model scores arcs from hashed features and applies perceptron updates.
type Model interface {
	Score(features []featurevector.Feature, cost int, label string) float64
	Update(features []featurevector.Feature, label string, amount float64, step int)
	Average(totalSteps int)
}

var _ Model = &featurevector.AvgDense{}

// DecodeResult describes the outcome of decoding one substructure: the
// best-scoring legal arc combination, the best combination restricted to
// gold-consistent arcs, and whether the two coincide. The consistent
// combination is empty when the substructure has no gold-consistent arcs.
type DecodeResult struct {
	Arcs   []types.Arc
	Labels []string
	Scores []float64

	ConsistentArcs   []types.Arc
	ConsistentLabels []string
	ConsistentScores []float64

	Consistent bool
}

// Decoder computes, for one substructure, the best-scoring combination of
// arcs under decoder-specific structural constraints.
type Decoder interface {
	Decode(substructure types.Substructure, info types.ArcInformation, model Model) DecodeResult
}

type SupervisedTrainer interface {
	Train(substructures []types.Substructure, info types.ArcInformation)
}
