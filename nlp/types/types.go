package types

import (
	"github.com/npow/cort/alg/featurevector"
)

// Mention is a candidate referring expression, owned by the corpus
// collaborator and read-only to this package. Implementations must be
// comparable (pointer identity) because mentions key arcs across the whole
// pipeline.
type Mention interface {
	// IsDummy marks the "no antecedent" sentinel that starts a new chain.
	IsDummy() bool
	// DecisionIsConsistent reports whether linking the receiver to the
	// given antecedent is consistent with the gold annotation.
	DecisionIsConsistent(antecedent Mention) bool
}

// Attributed is implemented by mentions that expose named string attributes
// for feature functions.
type Attributed interface {
	Attribute(name string) string
}

// DocumentID is the identity triple of a document within a corpus.
type DocumentID struct {
	Folder string
	ID     string
	Part   int
}

// Document exposes the ordered mention list of one document. The mention at
// index 0 is the dummy mention by corpus convention.
type Document interface {
	Identity() DocumentID
	Mentions() []Mention
}

// Arc is a candidate linking decision (anaphor, antecedent). Arcs are used
// as lookup keys and must keep stable identity across the pipeline.
type Arc struct {
	Anaphor    Mention
	Antecedent Mention
}

// Substructure is an ordered sequence of arcs decoded jointly as one unit.
type Substructure []Arc

// ArcInfo carries the extracted information for one arc: its hashed feature
// set, the non-negative cost of predicting it, and whether predicting it is
// consistent with the gold annotation.
type ArcInfo struct {
	Features   []featurevector.Feature
	Cost       int
	Consistent bool
}

// ArcInformation maps every arc referenced by any substructure to exactly
// one ArcInfo record.
type ArcInformation map[Arc]ArcInfo
