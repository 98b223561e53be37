package extract

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/npow/cort/alg/featurevector"
	"github.com/npow/cort/nlp/types"
)

// SubstructureFunc generates the candidate-arc search space for one document.
type SubstructureFunc func(doc types.Document) []types.Substructure

// MentionFeature computes one feature string for a mention.
type MentionFeature func(mention types.Mention) string

// PairwiseFeature computes one feature string for a mention pair; an empty
// return value drops the feature.
type PairwiseFeature func(anaphor, antecedent types.Mention) string

// CostFunc assigns the cost of wrongly predicting an arc.
type CostFunc func(anaphor, antecedent types.Mention) int

// InstanceExtractor turns per-document candidate-arc lists into hashed
// feature instances. Documents are processed independently by a fixed-size
// worker pool; workers communicate mentions as per-document ordinals only,
// and the sequential merge resolves ordinals back onto the canonical mention
// objects.
type InstanceExtractor struct {
	ExtractSubstructures SubstructureFunc
	MentionFeatures      []MentionFeature
	PairwiseFeatures     []PairwiseFeature
	Cost                 CostFunc

	// Workers caps the pool size; 0 means one worker per CPU.
	Workers int
}

// docResult holds one document's extraction output as flat arrays. Mentions
// appear as ordinals into the document's mention list; featureSpans and
// structSpans are offset arrays starting at 0 delimiting each arc's feature
// span and each substructure's arc span.
type docResult struct {
	id           types.DocumentID
	anaphors     []int
	antecedents  []int
	features     []featurevector.Feature
	costs        []int
	consistent   []bool
	featureSpans []int
	structSpans  []int
}

// Extract processes the corpus and merges the per-document results into the
// global substructure list and arc information map. Any single document
// failure aborts the whole call with no partial results.
func (e *InstanceExtractor) Extract(corpus []types.Document) ([]types.Substructure, types.ArcInformation, error) {
	registry := make(map[types.DocumentID]types.Document, len(corpus))
	for _, doc := range corpus {
		registry[doc.Identity()] = doc
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]*docResult, len(corpus))
	var group errgroup.Group
	group.SetLimit(workers)
	for i, doc := range corpus {
		i, doc := i, doc
		group.Go(func() error {
			result, err := e.extractDoc(doc)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	substructures := make([]types.Substructure, 0, len(corpus))
	info := make(types.ArcInformation)
	for _, result := range results {
		mentions := registry[result.id].Mentions()
		for s := 0; s < len(result.structSpans)-1; s++ {
			begin, end := result.structSpans[s], result.structSpans[s+1]
			substructure := make(types.Substructure, 0, end-begin)
			for p := begin; p < end; p++ {
				arc := types.Arc{
					Anaphor:    mentions[result.anaphors[p]],
					Antecedent: mentions[result.antecedents[p]],
				}
				substructure = append(substructure, arc)
				info[arc] = types.ArcInfo{
					Features:   result.features[result.featureSpans[p]:result.featureSpans[p+1]],
					Cost:       result.costs[p],
					Consistent: result.consistent[p],
				}
			}
			substructures = append(substructures, substructure)
		}
	}
	return substructures, info, nil
}

// extractDoc is the pure per-document worker. It shares no mutable state
// with other workers and refers to mentions by ordinal only.
func (e *InstanceExtractor) extractDoc(doc types.Document) (*docResult, error) {
	mentions := doc.Mentions()
	ordinals := make(map[types.Mention]int, len(mentions))
	for i, mention := range mentions {
		ordinals[mention] = i
	}

	cache := make(map[types.Mention][]string, len(mentions))
	result := &docResult{
		id:           doc.Identity(),
		featureSpans: []int{0},
		structSpans:  []int{0},
	}

	for _, substructure := range e.ExtractSubstructures(doc) {
		// skip empty
		if len(substructure) == 0 {
			continue
		}
		for _, arc := range substructure {
			anaphor, exists := ordinals[arc.Anaphor]
			if !exists {
				return nil, fmt.Errorf("document %v: anaphor missing from mention list", doc.Identity())
			}
			antecedent, exists := ordinals[arc.Antecedent]
			if !exists {
				return nil, fmt.Errorf("document %v: antecedent missing from mention list", doc.Identity())
			}
			result.anaphors = append(result.anaphors, anaphor)
			result.antecedents = append(result.antecedents, antecedent)

			cost := e.Cost(arc.Anaphor, arc.Antecedent)
			if cost < 0 {
				cost = 0
			}
			result.costs = append(result.costs, cost)
			result.consistent = append(result.consistent, arc.Anaphor.DecisionIsConsistent(arc.Antecedent))

			arcFeatures := e.extractFeatures(arc, cache)
			result.features = append(result.features, arcFeatures...)
			result.featureSpans = append(result.featureSpans,
				result.featureSpans[len(result.featureSpans)-1]+len(arcFeatures))
		}
		result.structSpans = append(result.structSpans,
			result.structSpans[len(result.structSpans)-1]+len(substructure))
	}
	return result, nil
}

// extractFeatures assembles and hashes the feature strings of one arc.
// Dummy-antecedent arcs carry no features. Mention feature values are
// computed once per mention and cached for the document.
func (e *InstanceExtractor) extractFeatures(arc types.Arc, cache map[types.Mention][]string) []featurevector.Feature {
	if arc.Antecedent.IsDummy() {
		return nil
	}
	anaphor, antecedent := arc.Anaphor, arc.Antecedent

	for _, mention := range []types.Mention{anaphor, antecedent} {
		if _, cached := cache[mention]; !cached {
			values := make([]string, len(e.MentionFeatures))
			for i, feature := range e.MentionFeatures {
				values[i] = feature(mention)
			}
			cache[mention] = values
		}
	}
	anaFeats, anteFeats := cache[anaphor], cache[antecedent]

	names := make([]string, 0, 4*len(anaFeats)+len(e.PairwiseFeatures))
	for _, value := range anaFeats {
		names = append(names, "ana_"+value)
	}
	for _, value := range anteFeats {
		names = append(names, "ante_"+value)
	}
	for i := range anaFeats {
		names = append(names, "ana_"+anaFeats[i]+"^ante_"+anteFeats[i])
	}
	for _, feature := range e.PairwiseFeatures {
		if value := feature(anaphor, antecedent); value != "" {
			names = append(names, value)
		}
	}

	// cross the fine-type anchors (first feature of the anaphor, antecedent
	// and interaction groups) with every non-anchor feature
	n := len(e.MentionFeatures)
	anchors := [3]int{0, n, 2 * n}
	combined := make([]string, 0, 3*len(names))
	for _, anchor := range anchors {
		for j, name := range names {
			if j == anchors[0] || j == anchors[1] || j == anchors[2] {
				continue
			}
			combined = append(combined, names[anchor]+"^"+name)
		}
	}
	names = append(names, combined...)

	features := make([]featurevector.Feature, len(names))
	for i, name := range names {
		features[i] = featurevector.HashFeature(name)
	}
	return features
}
