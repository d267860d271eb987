// Package modelstore persists a trained model (dictionary vocabularies plus
// finalized perceptron weights) behind one Store interface with two
// backends: File writes a flat rezi-encoded file, SQLite keeps named models
// in a database table.
package modelstore

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/weights"
)

// Model is the full persisted state of one trained run: the dictionary's
// three vocabularies and the weight store's finalized entries, tagged with
// a run ID and a fingerprint of the feature template it was trained
// against.
type Model struct {
	RunID       uuid.UUID
	Fingerprint []byte

	// Template is the feature template source the model was trained with,
	// carried in full so a loading process can rebuild the feature tree
	// without being handed the original file. Fingerprint is always the
	// blake2b-256 digest of these bytes; Load verifies that.
	Template []byte

	NumLabeledMoves int
	Labels          []string
	Attributes      []string
	Namespaces      []string
	Entries         []weights.Entry
}

// Fingerprint returns the blake2b-256 digest of templateBytes. The
// fingerprint covers only the feature template's source bytes, not the
// training corpus: two models trained from different data but the same
// template are expected to produce the same fingerprint, and a mismatch
// means the model was trained against a differently-shaped feature space,
// not merely different data.
func Fingerprint(templateBytes []byte) []byte {
	sum := blake2b.Sum256(templateBytes)
	return sum[:]
}

// New builds a Model from a freshly-trained dictionary and weight store,
// fingerprinting it against templateBytes and tagging it with a new random
// run ID.
func New(d *dict.Dictionary, store *weights.Store, templateBytes []byte) Model {
	labels, attrs, ns := d.Tables()
	return Model{
		RunID:           uuid.New(),
		Fingerprint:     Fingerprint(templateBytes),
		Template:        append([]byte(nil), templateBytes...),
		NumLabeledMoves: store.NumLabeledMoves(),
		Labels:          labels,
		Attributes:      attrs,
		Namespaces:      ns,
		Entries:         store.Entries(),
	}
}

// Dictionary rebuilds the frozen dict.Dictionary a Model was trained with.
func (m Model) Dictionary() *dict.Dictionary {
	return dict.FromTables(m.Labels, m.Attributes, m.Namespaces)
}

// WeightStore rebuilds a weights.Store holding only m's finalized weights.
func (m Model) WeightStore() *weights.Store {
	return weights.FromEntries(m.NumLabeledMoves, m.Entries)
}

// Store is a named model persistence backend.
type Store interface {
	// Save persists m under name, overwriting any existing model of that
	// name.
	Save(name string, m Model) error

	// Load retrieves the model previously saved under name.
	Load(name string) (Model, error)
}
