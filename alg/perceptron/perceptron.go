package perceptron

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/npow/cort/nlp/types"
	"github.com/npow/cort/util"
)

const (
	DefaultIterations = 5
	DefaultSeed       = 23
)

// LinearPerceptron trains a latent structured model over substructures with
// cost-augmented decoding and parameter averaging, and predicts with the
// frozen averaged weights afterwards.
type LinearPerceptron struct {
	Decoder    Decoder
	Iterations int
	Seed       int64
	Model      Model
	Log        bool

	// steps advances once per substructure visited, updated or not; the
	// averaging accumulators depend on it advancing in lockstep.
	steps int
}

var _ SupervisedTrainer = &LinearPerceptron{}

func (m *LinearPerceptron) Init(newModel Model) {
	m.Model = newModel
	m.steps = 0
	if m.Iterations == 0 {
		m.Iterations = DefaultIterations
	}
	if m.Seed == 0 {
		m.Seed = DefaultSeed
	}
	if m.Decoder == nil {
		m.Decoder = &BestArc{}
	}
}

// Train runs the epoch loop: shuffle substructure order, decode each one,
// and apply a consistency-driven update when the unconstrained decode does
// not match the gold-consistent decode. Updates must apply in shuffled order
// because later scoring depends on earlier updates; training is therefore
// strictly single-threaded. The model holds the time-averaged weights when
// Train returns.
func (m *LinearPerceptron) Train(substructures []types.Substructure, info types.ArcInformation) {
	if m.Model == nil {
		panic("Model not initialized")
	}
	indices := util.RangeInt(len(substructures))
	rng := rand.New(rand.NewSource(m.Seed))
	prevPrefix := log.Prefix()
	for epoch := 1; epoch <= m.Iterations; epoch++ {
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		if m.Log {
			log.SetPrefix(fmt.Sprintf("IT #%v ", epoch) + prevPrefix)
		}
		var incorrect int
		for _, i := range indices {
			result := m.Decoder.Decode(substructures[i], info, m.Model)
			if !result.Consistent {
				m.update(result, info)
				incorrect++
			}
			m.steps++
		}
		if m.Log {
			log.Println("Finished epoch", epoch)
			log.Println("\tIncorrect predictions:", incorrect, "/", len(indices))
		}
	}
	log.SetPrefix(prevPrefix)
	if m.steps > 0 {
		m.Model.Average(m.steps)
	}
}

// update moves the model towards the gold-consistent combination and away
// from the unconstrained one. A substructure without any gold-consistent arc
// has nothing to move towards and is skipped.
func (m *LinearPerceptron) update(result DecodeResult, info types.ArcInformation) {
	if len(result.ConsistentArcs) == 0 {
		return
	}
	for j, arc := range result.ConsistentArcs {
		m.Model.Update(info[arc].Features, result.ConsistentLabels[j], 1, m.steps)
	}
	for j, arc := range result.Arcs {
		m.Model.Update(info[arc].Features, result.Labels[j], -1, m.steps)
	}
}

// Predict decodes each substructure with the frozen weights, returning the
// predicted arcs, their labels and their scores per substructure. No
// mutation occurs.
func (m *LinearPerceptron) Predict(substructures []types.Substructure, info types.ArcInformation) ([][]types.Arc, [][]string, [][]float64) {
	if m.Model == nil {
		panic("Model not initialized")
	}
	arcs := make([][]types.Arc, len(substructures))
	labels := make([][]string, len(substructures))
	scores := make([][]float64, len(substructures))
	for i, substructure := range substructures {
		result := m.Decoder.Decode(substructure, info, m.Model)
		arcs[i], labels[i], scores[i] = result.Arcs, result.Labels, result.Scores
	}
	return arcs, labels, scores
}
