// Package corpus reads a YAML corpus into documents and mentions suitable
// for extraction and training.
//
// A corpus file lists documents with an identity triple and ordered
// mentions; each mention carries an optional gold entity id and a free-form
// attribute map consumed by the feature functions:
//
//	documents:
//	  - folder: bn/voa
//	    id: voa_0001
//	    part: 0
//	    mentions:
//	      - id: 1
//	        entity: 7
//	        attributes: {fine_type: NAM, gender: FEM, number: SG}
package corpus

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/npow/cort/nlp/types"
)

type mentionSpec struct {
	ID         int               `yaml:"id"`
	Entity     int               `yaml:"entity"`
	Attributes map[string]string `yaml:"attributes"`
}

type documentSpec struct {
	Folder   string        `yaml:"folder"`
	ID       string        `yaml:"id"`
	Part     int           `yaml:"part"`
	Mentions []mentionSpec `yaml:"mentions"`
}

type corpusSpec struct {
	Documents []documentSpec `yaml:"documents"`
}

// Mention is a concrete mention read from a corpus file. Entity is the gold
// entity id, or -1 when the mention is a singleton or unannotated.
type Mention struct {
	ID     int
	Entity int
	Attrs  map[string]string

	dummy     bool
	anaphoric bool
}

var _ types.Mention = &Mention{}
var _ types.Attributed = &Mention{}

func (m *Mention) IsDummy() bool { return m.dummy }

// DecisionIsConsistent implements the gold oracle: linking to the dummy is
// consistent iff the receiver has no preceding mention of its entity;
// linking to a real antecedent is consistent iff both share a gold entity.
func (m *Mention) DecisionIsConsistent(antecedent types.Mention) bool {
	other, ok := antecedent.(*Mention)
	if !ok {
		return false
	}
	if other.dummy {
		return !m.anaphoric
	}
	return m.Entity >= 0 && m.Entity == other.Entity
}

func (m *Mention) Attribute(name string) string { return m.Attrs[name] }

func (m *Mention) String() string {
	if m.dummy {
		return "dummy"
	}
	return fmt.Sprintf("m%d", m.ID)
}

// Document is a concrete document with the dummy mention inserted at
// index 0.
type Document struct {
	Folder string
	DocID  string
	Part   int

	mentions []types.Mention
}

var _ types.Document = &Document{}

func (d *Document) Identity() types.DocumentID {
	return types.DocumentID{Folder: d.Folder, ID: d.DocID, Part: d.Part}
}

func (d *Document) Mentions() []types.Mention { return d.mentions }

// Read parses a YAML corpus. Mention order within a document is preserved;
// anaphoricity is derived from gold entity ids during the pass.
func Read(reader io.Reader) ([]types.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	var spec corpusSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}

	documents := make([]types.Document, 0, len(spec.Documents))
	for _, docSpec := range spec.Documents {
		mentions := make([]types.Mention, 0, len(docSpec.Mentions)+1)
		mentions = append(mentions, &Mention{Entity: -1, dummy: true})
		seen := make(map[int]bool, len(docSpec.Mentions))
		for _, mentionSpec := range docSpec.Mentions {
			entity := mentionSpec.Entity
			if entity <= 0 {
				entity = -1
			}
			mentions = append(mentions, &Mention{
				ID:        mentionSpec.ID,
				Entity:    entity,
				Attrs:     mentionSpec.Attributes,
				anaphoric: entity > 0 && seen[entity],
			})
			if entity > 0 {
				seen[entity] = true
			}
		}
		documents = append(documents, &Document{
			Folder:   docSpec.Folder,
			DocID:    docSpec.ID,
			Part:     docSpec.Part,
			mentions: mentions,
		})
	}
	return documents, nil
}

func ReadFile(filename string) ([]types.Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}
