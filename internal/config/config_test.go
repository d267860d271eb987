package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.toml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultPasses(t *testing.T) {
	path := writeTemp(t, `
data = "train.conll"
template = "features.tmpl"
`)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Passes != DefaultPasses {
		t.Fatalf("Passes = %d, want default %d", r.Passes, DefaultPasses)
	}
}

func TestLoadKeepsExplicitPasses(t *testing.T) {
	path := writeTemp(t, `
data = "train.conll"
template = "features.tmpl"
passes = 12
`)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Passes != 12 {
		t.Fatalf("Passes = %d, want 12", r.Passes)
	}
}

func TestValidateRejectsMissingData(t *testing.T) {
	r := Run{Template: "features.tmpl"}
	if err := r.Validate(); err == nil {
		t.Fatalf("expected error for missing data field")
	}
}

func TestValidateRejectsServeWithoutModelPath(t *testing.T) {
	r := Run{Data: "train.conll", Template: "features.tmpl", Serve: true}
	if err := r.Validate(); err == nil {
		t.Fatalf("expected error for serve without model_path")
	}
}

func TestValidateAcceptsCompleteRun(t *testing.T) {
	r := Run{Data: "train.conll", Template: "features.tmpl", ModelPath: "model.bin", Serve: true}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
