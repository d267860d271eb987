package modelstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/weights"
)

func sampleModel() Model {
	d := dict.New()
	d.Label("nsubj")
	d.Label("root")
	d.Attribute("w")
	d.Namespace("w")

	store := weights.New(2)
	b := store.GetOrInsert(12345)
	b.Weights[0] = 1.5
	b.Weights[1] = -2.25

	return New(d, store, []byte("S0:w\n"))
}

// TestFileRoundTrip: saving and loading a model through File must
// reproduce the same vocabularies and weights.
func TestFileRoundTrip(t *testing.T) {
	want := sampleModel()
	path := filepath.Join(t.TempDir(), "model.bin")
	store := File{Path: path}

	if err := store.Save("default", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load("default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertModelsEqual(t, want, got)
}

func TestSQLiteRoundTrip(t *testing.T) {
	want := sampleModel()
	dir := t.TempDir()
	store, err := NewSQLite(dir)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer store.Close()

	if err := store.Save("default", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load("default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertModelsEqual(t, want, got)
}

// TestLoadRejectsTamperedTemplate checks the fingerprint integrity check: a
// model whose stored template no longer matches its fingerprint must fail to
// load rather than silently parse with the wrong feature space.
func TestLoadRejectsTamperedTemplate(t *testing.T) {
	m := sampleModel()
	w := toWire(m)
	w.Template = "N0:w\n"

	path := filepath.Join(t.TempDir(), "model.bin")
	if err := os.WriteFile(path, rezi.EncBinary(w), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := (File{Path: path}).Load("default"); err == nil {
		t.Fatalf("Load accepted a model with a mismatched template fingerprint")
	}
}

func assertModelsEqual(t *testing.T, want, got Model) {
	t.Helper()
	if want.RunID != got.RunID {
		t.Fatalf("RunID mismatch: %v vs %v", want.RunID, got.RunID)
	}
	if string(want.Fingerprint) != string(got.Fingerprint) {
		t.Fatalf("Fingerprint mismatch")
	}
	if string(want.Template) != string(got.Template) {
		t.Fatalf("Template mismatch: %q vs %q", want.Template, got.Template)
	}
	if len(want.Entries) != len(got.Entries) {
		t.Fatalf("Entries length mismatch: %d vs %d", len(want.Entries), len(got.Entries))
	}

	wantDict := want.Dictionary()
	gotDict := got.Dictionary()
	if wantDict.NumLabels() != gotDict.NumLabels() {
		t.Fatalf("NumLabels mismatch")
	}

	wantStore := want.WeightStore()
	gotStore := got.WeightStore()
	for _, e := range want.Entries {
		wb, _ := wantStore.Lookup(e.Key)
		gb, ok := gotStore.Lookup(e.Key)
		if !ok {
			t.Fatalf("key %d missing after round trip", e.Key)
		}
		for i := range wb.Weights {
			if wb.Weights[i] != gb.Weights[i] {
				t.Fatalf("key %d weight[%d] = %v, want %v", e.Key, i, gb.Weights[i], wb.Weights[i])
			}
		}
	}
}
