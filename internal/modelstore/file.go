package modelstore

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"os"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"

	"github.com/dekarrin/eagerparse/internal/parseerr"
	"github.com/dekarrin/eagerparse/internal/weights"
)

// wireEntry mirrors weights.Entry with a rezi binary encoding. Weights are
// carried as their IEEE-754 bit patterns through rezi's integer encoding,
// since rezi's primitive set is bool/int/string/binary.
type wireEntry struct {
	Key     uint64
	Weights []float64
}

func (e wireEntry) MarshalBinary() ([]byte, error) {
	enc := rezi.EncInt(int(e.Key))
	enc = append(enc, rezi.EncInt(len(e.Weights))...)
	for _, w := range e.Weights {
		enc = append(enc, rezi.EncInt(int(math.Float64bits(w)))...)
	}
	return enc, nil
}

func (e *wireEntry) UnmarshalBinary(data []byte) error {
	var n, offset int

	iv, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("key: %w", err)
	}
	e.Key = uint64(iv)
	offset += n

	count, n, err := rezi.DecInt(data[offset:])
	if err != nil {
		return fmt.Errorf("weight count: %w", err)
	}
	offset += n
	if count < 0 {
		return fmt.Errorf("negative weight count %d", count)
	}

	e.Weights = make([]float64, count)
	for i := range e.Weights {
		iv, n, err = rezi.DecInt(data[offset:])
		if err != nil {
			return fmt.Errorf("weight %d: %w", i, err)
		}
		e.Weights[i] = math.Float64frombits(uint64(iv))
		offset += n
	}
	return nil
}

// wireModel mirrors Model with a rezi binary encoding. The run ID travels
// as its canonical string form and the fingerprint as hex, so every field
// is a string, int, or nested binary.
type wireModel struct {
	RunID           string
	Fingerprint     string
	Template        string
	NumLabeledMoves int
	Labels          []string
	Attributes      []string
	Namespaces      []string
	Entries         []wireEntry
}

func encStringSlice(ss []string) []byte {
	enc := rezi.EncInt(len(ss))
	for _, s := range ss {
		enc = append(enc, rezi.EncString(s)...)
	}
	return enc
}

func decStringSlice(data []byte) ([]string, int, error) {
	count, offset, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, fmt.Errorf("negative slice length %d", count)
	}
	out := make([]string, count)
	for i := range out {
		s, n, err := rezi.DecString(data[offset:])
		if err != nil {
			return nil, 0, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = s
		offset += n
	}
	return out, offset, nil
}

func (m wireModel) MarshalBinary() ([]byte, error) {
	enc := rezi.EncString(m.RunID)
	enc = append(enc, rezi.EncString(m.Fingerprint)...)
	enc = append(enc, rezi.EncString(m.Template)...)
	enc = append(enc, rezi.EncInt(m.NumLabeledMoves)...)
	enc = append(enc, encStringSlice(m.Labels)...)
	enc = append(enc, encStringSlice(m.Attributes)...)
	enc = append(enc, encStringSlice(m.Namespaces)...)
	enc = append(enc, rezi.EncInt(len(m.Entries))...)
	for _, e := range m.Entries {
		enc = append(enc, rezi.EncBinary(e)...)
	}
	return enc, nil
}

func (m *wireModel) UnmarshalBinary(data []byte) error {
	var offset int

	strFields := []struct {
		name string
		dst  *string
	}{
		{"run id", &m.RunID},
		{"fingerprint", &m.Fingerprint},
		{"template", &m.Template},
	}
	for _, f := range strFields {
		s, n, err := rezi.DecString(data[offset:])
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = s
		offset += n
	}

	nlm, n, err := rezi.DecInt(data[offset:])
	if err != nil {
		return fmt.Errorf("labeled move count: %w", err)
	}
	m.NumLabeledMoves = nlm
	offset += n

	sliceFields := []struct {
		name string
		dst  *[]string
	}{
		{"labels", &m.Labels},
		{"attributes", &m.Attributes},
		{"namespaces", &m.Namespaces},
	}
	for _, f := range sliceFields {
		ss, n, err := decStringSlice(data[offset:])
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = ss
		offset += n
	}

	count, n, err := rezi.DecInt(data[offset:])
	if err != nil {
		return fmt.Errorf("entry count: %w", err)
	}
	offset += n
	if count < 0 {
		return fmt.Errorf("negative entry count %d", count)
	}

	m.Entries = make([]wireEntry, count)
	for i := range m.Entries {
		n, err = rezi.DecBinary(data[offset:], &m.Entries[i])
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		offset += n
	}
	return nil
}

func toWire(m Model) wireModel {
	entries := make([]wireEntry, len(m.Entries))
	for i, e := range m.Entries {
		entries[i] = wireEntry{Key: e.Key, Weights: e.Weights}
	}
	return wireModel{
		RunID:           m.RunID.String(),
		Fingerprint:     hex.EncodeToString(m.Fingerprint),
		Template:        string(m.Template),
		NumLabeledMoves: m.NumLabeledMoves,
		Labels:          m.Labels,
		Attributes:      m.Attributes,
		Namespaces:      m.Namespaces,
		Entries:         entries,
	}
}

func fromWire(w wireModel) (Model, error) {
	runID, err := uuid.Parse(w.RunID)
	if err != nil {
		return Model{}, parseerr.NewModelStore(err, "decode run id")
	}
	fp, err := hex.DecodeString(w.Fingerprint)
	if err != nil {
		return Model{}, parseerr.NewModelStore(err, "decode fingerprint")
	}
	entries := make([]weights.Entry, len(w.Entries))
	for i, e := range w.Entries {
		entries[i] = weights.Entry{Key: e.Key, Weights: e.Weights}
	}
	m := Model{
		RunID:           runID,
		Fingerprint:     fp,
		Template:        []byte(w.Template),
		NumLabeledMoves: w.NumLabeledMoves,
		Labels:          w.Labels,
		Attributes:      w.Attributes,
		Namespaces:      w.Namespaces,
		Entries:         entries,
	}
	if !bytes.Equal(m.Fingerprint, Fingerprint(m.Template)) {
		return Model{}, parseerr.NewModelStore(nil, "fingerprint does not match stored template; model is corrupt or was tampered with")
	}
	return m, nil
}

// File is a Store backed by a single flat file holding one rezi-encoded
// model. The name argument to Save/Load is ignored beyond a sanity check
// that it is non-empty: a File store holds exactly one model, at Path.
type File struct {
	Path string
}

func (f File) Save(name string, m Model) error {
	if name == "" {
		return parseerr.NewModelStore(nil, "model name must not be empty")
	}
	data := rezi.EncBinary(toWire(m))
	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return parseerr.NewModelStore(err, "write model file %s", f.Path)
	}
	return nil
}

func (f File) Load(name string) (Model, error) {
	if name == "" {
		return Model{}, parseerr.NewModelStore(nil, "model name must not be empty")
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return Model{}, parseerr.NewModelStore(err, "read model file %s", f.Path)
	}
	var w wireModel
	if _, err := rezi.DecBinary(data, &w); err != nil {
		return Model{}, parseerr.NewModelStore(err, "decode model file %s", f.Path)
	}
	return fromWire(w)
}
