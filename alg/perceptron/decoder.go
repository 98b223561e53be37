package perceptron

import (
	"math"

	"github.com/npow/cort/alg/featurevector"
	"github.com/npow/cort/nlp/types"
)

// BestArc selects the single best-scoring arc among mutually exclusive
// candidates, with no structural constraint beyond choosing exactly one.
type BestArc struct{}

var _ Decoder = &BestArc{}

func (d *BestArc) Decode(substructure types.Substructure, info types.ArcInformation, model Model) DecodeResult {
	var (
		best, bestCons         types.Arc
		haveBest, haveCons     bool
		bestConsistent         bool
		maxScore, maxConsScore float64
	)
	maxScore, maxConsScore = math.Inf(-1), math.Inf(-1)

	for _, arc := range substructure {
		arcInfo, exists := info[arc]
		if !exists {
			panic("Missing arc information")
		}
		score := model.Score(arcInfo.Features, arcInfo.Cost, featurevector.DefaultLabel)
		if score > maxScore {
			best, maxScore, haveBest = arc, score, true
			bestConsistent = arcInfo.Consistent
		}
		if arcInfo.Consistent && score > maxConsScore {
			bestCons, maxConsScore, haveCons = arc, score, true
		}
	}

	result := DecodeResult{Consistent: bestConsistent}
	if haveBest {
		result.Arcs = []types.Arc{best}
		result.Labels = []string{featurevector.DefaultLabel}
		result.Scores = []float64{maxScore}
	}
	if haveCons {
		result.ConsistentArcs = []types.Arc{bestCons}
		result.ConsistentLabels = []string{featurevector.DefaultLabel}
		result.ConsistentScores = []float64{maxConsScore}
	}
	return result
}
