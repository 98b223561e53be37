package extract

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/npow/cort/alg/featurevector"
	"github.com/npow/cort/nlp/types"
)

type testMention struct {
	id        int
	entity    int
	dummy     bool
	anaphoric bool
	attrs     map[string]string
}

func (m *testMention) IsDummy() bool { return m.dummy }

func (m *testMention) DecisionIsConsistent(antecedent types.Mention) bool {
	other := antecedent.(*testMention)
	if other.dummy {
		return !m.anaphoric
	}
	return m.entity > 0 && m.entity == other.entity
}

func (m *testMention) Attribute(name string) string { return m.attrs[name] }

type testDocument struct {
	id       types.DocumentID
	mentions []types.Mention
}

func (d *testDocument) Identity() types.DocumentID { return d.id }

func (d *testDocument) Mentions() []types.Mention { return d.mentions }

// newTestDocument builds a document with a dummy mention at index 0 followed
// by mentions carrying the given entity ids.
func newTestDocument(id string, entities ...int) *testDocument {
	mentions := []types.Mention{&testMention{dummy: true}}
	seen := make(map[int]bool)
	for i, entity := range entities {
		mentions = append(mentions, &testMention{
			id:        i + 1,
			entity:    entity,
			anaphoric: entity > 0 && seen[entity],
			attrs: map[string]string{
				"fine_type": "NOM",
				"gender":    "UNKNOWN",
				"head":      "head" + strconv.Itoa(i+1),
			},
		})
		seen[entity] = true
	}
	return &testDocument{
		id:       types.DocumentID{Folder: "test", ID: id, Part: 0},
		mentions: mentions,
	}
}

// rankingSubstructures emits one substructure per anaphor with the dummy and
// all preceding mentions as candidates.
func rankingSubstructures(doc types.Document) []types.Substructure {
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

func fineType(m types.Mention) string {
	return "fine_type=" + m.(*testMention).attrs["fine_type"]
}

func gender(m types.Mention) string {
	return "gender=" + m.(*testMention).attrs["gender"]
}

func headMatch(anaphor, antecedent types.Mention) string {
	if anaphor.(*testMention).attrs["head"] == antecedent.(*testMention).attrs["head"] {
		return "head_match"
	}
	return ""
}

func consistencyCost(anaphor, antecedent types.Mention) int {
	if anaphor.DecisionIsConsistent(antecedent) {
		return 0
	}
	return 1
}

func newTestExtractor(workers int) *InstanceExtractor {
	return &InstanceExtractor{
		ExtractSubstructures: rankingSubstructures,
		MentionFeatures:      []MentionFeature{fineType, gender},
		PairwiseFeatures:     []PairwiseFeature{headMatch},
		Cost:                 consistencyCost,
		Workers:              workers,
	}
}

func TestExtractDocOffsets(t *testing.T) {
	doc := newTestDocument("doc0", 1, 1, 2)
	result, err := newTestExtractor(1).extractDoc(doc)
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}

	if result.structSpans[0] != 0 || result.featureSpans[0] != 0 {
		t.Error("Offset arrays must start at 0")
	}
	for i := 1; i < len(result.structSpans); i++ {
		if result.structSpans[i] < result.structSpans[i-1] {
			t.Error("Substructure offsets must be non-decreasing")
		}
	}
	for i := 1; i < len(result.featureSpans); i++ {
		if result.featureSpans[i] < result.featureSpans[i-1] {
			t.Error("Feature offsets must be non-decreasing")
		}
	}

	// 3 anaphors with 1, 2, 3 candidates each
	totalArcs := result.structSpans[len(result.structSpans)-1]
	if totalArcs != 6 || len(result.anaphors) != 6 {
		t.Error("Expected 6 arcs, got", totalArcs, "and", len(result.anaphors))
	}
	if len(result.featureSpans) != totalArcs+1 {
		t.Error("Feature offsets must have one entry per arc plus the base")
	}
	if result.featureSpans[len(result.featureSpans)-1] != len(result.features) {
		t.Error("Final feature offset must equal the feature count")
	}
}

func TestDummyArcsHaveNoFeatures(t *testing.T) {
	doc := newTestDocument("doc0", 1, 1)
	substructures, info, err := newTestExtractor(1).Extract([]types.Document{doc})
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}
	var sawDummy bool
	for _, substructure := range substructures {
		for _, arc := range substructure {
			if arc.Antecedent.IsDummy() {
				sawDummy = true
				if len(info[arc].Features) != 0 {
					t.Error("Dummy-antecedent arc must have an empty feature set")
				}
			}
		}
	}
	if !sawDummy {
		t.Error("Search space should contain dummy-antecedent arcs")
	}
}

func TestConsistencyFlags(t *testing.T) {
	doc := newTestDocument("doc0", 1, 1)
	_, info, err := newTestExtractor(1).Extract([]types.Document{doc})
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}
	for arc, arcInfo := range info {
		if arcInfo.Consistent != arc.Anaphor.DecisionIsConsistent(arc.Antecedent) {
			t.Error("Stored consistency must match the oracle on the same ordered pair")
		}
		if arcInfo.Cost < 0 {
			t.Error("Costs must be non-negative")
		}
	}
}

func TestNegativeCostClamped(t *testing.T) {
	extractor := newTestExtractor(1)
	extractor.Cost = func(anaphor, antecedent types.Mention) int { return -5 }
	_, info, err := extractor.Extract([]types.Document{newTestDocument("doc0", 1, 1)})
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}
	for _, arcInfo := range info {
		if arcInfo.Cost != 0 {
			t.Error("Negative costs must clamp to 0, got", arcInfo.Cost)
		}
	}
}

func TestFeatureAssembly(t *testing.T) {
	doc := newTestDocument("doc0", 1, 1)
	mentions := doc.Mentions()
	extractor := newTestExtractor(1)
	// both mentions share the same head, so head_match fires
	mentions[2].(*testMention).attrs["head"] = "head1"

	features := extractor.extractFeatures(
		types.Arc{Anaphor: mentions[2], Antecedent: mentions[1]},
		make(map[types.Mention][]string))

	// 2 anaphor + 2 antecedent + 2 interaction + 1 pairwise = 7 base
	// strings; 3 anchors crossed with the 4 non-anchors add 12 more
	if len(features) != 19 {
		t.Fatal("Expected 19 hashed features, got", len(features))
	}
	expected := map[featurevector.Feature]string{
		featurevector.HashFeature("ana_fine_type=NOM"):                        "anaphor feature",
		featurevector.HashFeature("ante_gender=UNKNOWN"):                      "antecedent feature",
		featurevector.HashFeature("ana_gender=UNKNOWN^ante_gender=UNKNOWN"):   "interaction feature",
		featurevector.HashFeature("head_match"):                               "pairwise feature",
		featurevector.HashFeature("ana_fine_type=NOM^head_match"):             "anchor combination",
		featurevector.HashFeature("ante_fine_type=NOM^ana_gender=UNKNOWN"):    "cross-group anchor combination",
	}
	present := make(map[featurevector.Feature]bool, len(features))
	for _, f := range features {
		present[f] = true
	}
	for f, kind := range expected {
		if !present[f] {
			t.Error("Missing", kind)
		}
	}
}

func TestWorkerCountEquivalence(t *testing.T) {
	corpus := []types.Document{
		newTestDocument("doc0", 1, 1, 2),
		newTestDocument("doc1", 3, 3),
		newTestDocument("doc2", 4, 5, 4, 5),
	}
	serialSubs, serialInfo, err := newTestExtractor(1).Extract(corpus)
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}
	parallelSubs, parallelInfo, err := newTestExtractor(4).Extract(corpus)
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}
	if !reflect.DeepEqual(serialSubs, parallelSubs) {
		t.Error("Substructures differ between worker counts")
	}
	if !reflect.DeepEqual(serialInfo, parallelInfo) {
		t.Error("Arc information differs between worker counts")
	}
}

func TestForeignMentionAborts(t *testing.T) {
	doc := newTestDocument("doc0", 1, 1)
	foreign := &testMention{id: 99, entity: 1}
	extractor := newTestExtractor(2)
	extractor.ExtractSubstructures = func(d types.Document) []types.Substructure {
		return []types.Substructure{
			{types.Arc{Anaphor: d.Mentions()[1], Antecedent: foreign}},
		}
	}
	substructures, info, err := extractor.Extract([]types.Document{doc})
	if err == nil {
		t.Fatal("Expected extraction to abort on foreign mention")
	}
	if substructures != nil || info != nil {
		t.Error("Failed extraction must not retain partial results")
	}
}

func TestEmptySubstructuresDropped(t *testing.T) {
	doc := newTestDocument("doc0", 1)
	extractor := newTestExtractor(1)
	inner := extractor.ExtractSubstructures
	extractor.ExtractSubstructures = func(d types.Document) []types.Substructure {
		return append([]types.Substructure{{}}, inner(d)...)
	}
	substructures, _, err := extractor.Extract([]types.Document{doc})
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}
	for _, substructure := range substructures {
		if len(substructure) == 0 {
			t.Error("Empty substructures must be dropped")
		}
	}
	if len(substructures) != 1 {
		t.Error("Expected 1 substructure, got", len(substructures))
	}
}
