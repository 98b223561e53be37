// Package coref provides the mention-ranking instantiation of the learning
// core: the search-space generator, the cost function and a small set of
// attribute-based feature functions.
package coref

import (
	"strconv"

	"github.com/npow/cort/nlp/extract"
	"github.com/npow/cort/nlp/types"
	"github.com/npow/cort/util"
)

// RankingSubstructures emits one substructure per anaphor whose candidates
// are all preceding mentions, nearest first, ending with the dummy mention.
// Each substructure is decoded as a single antecedent decision.
func RankingSubstructures(doc types.Document) []types.Substructure {
	mentions := doc.Mentions()
	substructures := make([]types.Substructure, 0, len(mentions))
	for j := 1; j < len(mentions); j++ {
		substructure := make(types.Substructure, 0, j)
		for i := j - 1; i >= 0; i-- {
			substructure = append(substructure, types.Arc{Anaphor: mentions[j], Antecedent: mentions[i]})
		}
		substructures = append(substructures, substructure)
	}
	return substructures
}

// ConsistencyCost charges 1 for arcs that contradict the gold annotation.
func ConsistencyCost(anaphor, antecedent types.Mention) int {
	if anaphor.DecisionIsConsistent(antecedent) {
		return 0
	}
	return 1
}

// ZeroCost disables cost augmentation, for decoding unseen data.
func ZeroCost(anaphor, antecedent types.Mention) int { return 0 }

// FineType must stay the first mention feature: the extractor anchors its
// second-order combinations on the first feature of each group.
func FineType(m types.Mention) string { return attribute(m, "fine_type") }

func Gender(m types.Mention) string { return attribute(m, "gender") }

func Number(m types.Mention) string { return attribute(m, "number") }

// HeadMatch fires when both mentions share a head word.
func HeadMatch(anaphor, antecedent types.Mention) string {
	head := attributeValue(anaphor, "head")
	if head != "" && head == attributeValue(antecedent, "head") {
		return "head_match"
	}
	return ""
}

// SentenceDistance buckets the sentence gap between the mentions, capped.
func SentenceDistance(anaphor, antecedent types.Mention) string {
	anaSent, err := strconv.Atoi(attributeValue(anaphor, "sentence"))
	if err != nil {
		return ""
	}
	anteSent, err := strconv.Atoi(attributeValue(antecedent, "sentence"))
	if err != nil {
		return ""
	}
	distance := anaSent - anteSent
	if distance < 0 {
		distance = -distance
	}
	return "sent_dist=" + strconv.Itoa(util.Min(distance, 5))
}

// MentionFeatures returns the default mention feature set.
func MentionFeatures() []extract.MentionFeature {
	return []extract.MentionFeature{FineType, Gender, Number}
}

// PairwiseFeatures returns the default pairwise feature set.
func PairwiseFeatures() []extract.PairwiseFeature {
	return []extract.PairwiseFeature{HeadMatch, SentenceDistance}
}

func attribute(m types.Mention, name string) string {
	return name + "=" + attributeValue(m, name)
}

func attributeValue(m types.Mention, name string) string {
	if attributed, ok := m.(types.Attributed); ok {
		return attributed.Attribute(name)
	}
	return ""
}
