// Package config loads the TOML run configuration that drives cmd/eagerparse,
// in the small-typed-struct-plus-Validate idiom of internal/tqw's resource
// bundle headers.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/dekarrin/eagerparse/internal/parseerr"
)

// DefaultPasses is the training pass count used when a Run omits Passes.
const DefaultPasses = 5

// Run is one training/evaluation run's configuration. Every field except
// Serve mirrors a cmd/eagerparse flag (ModelPath is --save-model); a flag
// explicitly set on the command line overrides the value loaded from file.
// Serve has no flag and is only checked by Validate.
type Run struct {
	Data        string `toml:"data"`
	Eval        string `toml:"eval"`
	Template    string `toml:"template"`
	Passes      int    `toml:"passes"`
	Predictions string `toml:"predictions"`
	ModelPath   string `toml:"model_path"`
	Serve       bool   `toml:"serve"`
}

// Load reads and decodes a Run from the TOML file at path, applying
// DefaultPasses when Passes is left at its zero value.
func Load(path string) (Run, error) {
	var r Run
	if _, err := toml.DecodeFile(path, &r); err != nil {
		return Run{}, parseerr.NewConfigParse(err, path, "decode TOML")
	}
	if r.Passes == 0 {
		r.Passes = DefaultPasses
	}
	return r, nil
}

// Validate reports a ConfigParse error if Data or Template is unset, or if
// ModelPath is unset while Serve is requested.
func (r Run) Validate() error {
	if r.Data == "" {
		return parseerr.NewConfigParse(nil, "", "data: required field is empty")
	}
	if r.Template == "" {
		return parseerr.NewConfigParse(nil, "", "template: required field is empty")
	}
	if r.Serve && r.ModelPath == "" {
		return parseerr.NewConfigParse(nil, "", "model_path: required when serve is true")
	}
	return nil
}
