/*
Eagerparse trains a transition-based dependency parser and evaluates it.

It reads a training corpus and a feature template, runs the configured number
of averaged-perceptron training passes, then parses the evaluation corpus and
reports attachment scores on stderr. The trained model can be saved for later
use by eagerparse-serve or an interactive session.

Usage:

	eagerparse [flags]

The flags are:

	-v, --version
		Give the current version of eagerparse and then exit.

	-d, --data FILE
		Train on the given corpus file. Required unless loading a previously
		saved model with --save-model.

	-e, --eval FILE
		Parse the given corpus file after training and report UAS/LAS on
		stderr. Required when training unless --repl is given. When a saved
		model is loaded and --eval is absent, the interactive session opens.

	--template FILE
		Use the given feature template file. Required when training.

	--passes N
		Run N training passes over the corpus. Defaults to 5.

	-p, --predictions FILE
		Write per-token predictions for the evaluation corpus to FILE.
		Predictions are discarded if not given.

	--config FILE
		Load run configuration from the given TOML file. Flags explicitly set
		on the command line override values from the file.

	--save-model PATH
		After training, persist the model to PATH. With --data absent, load
		the model at PATH instead of training. With --model-store sqlite,
		PATH is the directory holding the model database.

	--model-store BACKEND
		Model persistence backend for --save-model: "file" or "sqlite".
		Defaults to "file".

	--repl
		After training or loading a model, read sentence blocks interactively
		from stdin and print their parses instead of exiting.

	--direct
		Force reading directly from stdin for --repl instead of going through
		GNU readline based routines, even when launched in a tty.
*/
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"

	"github.com/dekarrin/eagerparse/internal/config"
	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/features"
	"github.com/dekarrin/eagerparse/internal/learner"
	"github.com/dekarrin/eagerparse/internal/modelstore"
	"github.com/dekarrin/eagerparse/internal/parseerr"
	"github.com/dekarrin/eagerparse/internal/projectivize"
	"github.com/dekarrin/eagerparse/internal/replio"
	"github.com/dekarrin/eagerparse/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitError indicates an unsuccessful program execution due to an input
	// parse failure or other fatal error.
	ExitError
)

var (
	returnCode      int     = ExitSuccess
	flagVersion     *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagData        *string = pflag.StringP("data", "d", "", "The training corpus file")
	flagEval        *string = pflag.StringP("eval", "e", "", "The evaluation corpus file")
	flagTemplate    *string = pflag.String("template", "", "The feature template file")
	flagPasses      *int    = pflag.Int("passes", config.DefaultPasses, "Number of training passes over the corpus")
	flagPredictions *string = pflag.StringP("predictions", "p", "", "Write evaluation predictions to the given file")
	flagConfig      *string = pflag.String("config", "", "Load run configuration from the given TOML file")
	flagSaveModel   *string = pflag.String("save-model", "", "Persist the trained model to the given path, or load it from there when --data is absent")
	flagModelStore  *string = pflag.String("model-store", "file", "Model persistence backend, one of {file, sqlite}")
	flagRepl        *bool   = pflag.Bool("repl", false, "Read sentence blocks interactively after training instead of exiting")
	flagDirect      *bool   = pflag.Bool("direct", false, "Force reading directly from stdin for --repl instead of going through GNU readline where possible")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			if invErr, ok := parseerr.AsInvariant(panicErr); ok {
				fmt.Fprintf(os.Stderr, "FATAL: %s\n", invErr.Error())
				os.Exit(ExitError)
			}
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	run, err := assembleRun()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitError
		return
	}

	if run.Data == "" {
		err = runFromSavedModel(run)
	} else {
		err = runTraining(run)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", fullMessage(err))
		returnCode = ExitError
		return
	}
}

// assembleRun merges the --config file (when given) with the command line,
// the command line taking precedence for every flag explicitly set, then
// validates the result.
func assembleRun() (config.Run, error) {
	run := config.Run{Passes: config.DefaultPasses}

	if *flagConfig != "" {
		var err error
		run, err = config.Load(*flagConfig)
		if err != nil {
			return config.Run{}, err
		}
	}

	if pflag.CommandLine.Changed("data") || run.Data == "" {
		run.Data = *flagData
	}
	if pflag.CommandLine.Changed("eval") || run.Eval == "" {
		run.Eval = *flagEval
	}
	if pflag.CommandLine.Changed("template") || run.Template == "" {
		run.Template = *flagTemplate
	}
	if pflag.CommandLine.Changed("passes") {
		run.Passes = *flagPasses
	}
	if pflag.CommandLine.Changed("predictions") || run.Predictions == "" {
		run.Predictions = *flagPredictions
	}
	if pflag.CommandLine.Changed("save-model") || run.ModelPath == "" {
		run.ModelPath = *flagSaveModel
	}

	if run.Data == "" && run.ModelPath != "" {
		// loading a saved model; no training inputs are required
		return run, nil
	}
	if err := run.Validate(); err != nil {
		return config.Run{}, err
	}
	if run.Eval == "" && !*flagRepl {
		return config.Run{}, fmt.Errorf("--eval is required unless --repl is given\nDo -h for help.")
	}

	return run, nil
}

// runTraining is the train-evaluate-save-repl path.
func runTraining(run config.Run) error {
	d := dict.New()

	templateBytes, err := os.ReadFile(run.Template)
	if err != nil {
		return parseerr.WrapInputParse(err, run.Template, "reading template file")
	}
	tmpl, err := features.Parse(bytes.NewReader(templateBytes), d)
	if err != nil {
		return err
	}

	trainSents, err := readCorpusFile(run.Data, d)
	if err != nil {
		return err
	}
	if len(trainSents) == 0 {
		return parseerr.NewInputParse(run.Data, 0, "training corpus contains no sentences")
	}
	projectivizeGold(trainSents)

	l := learner.New(d, tmpl)
	l.Fit(trainSents, run.Passes)

	if run.Eval != "" {
		if err := evaluate(l, d, run); err != nil {
			return err
		}
	}

	if run.ModelPath != "" {
		m := modelstore.New(d, l.Weights(), templateBytes)
		store, closeStore, err := openModelStore(*flagModelStore, run.ModelPath)
		if err != nil {
			return err
		}
		defer closeStore()
		if err := store.Save("default", m); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved model %s to %s\n", m.RunID, run.ModelPath)
	}

	if *flagRepl {
		return runRepl(l, d)
	}
	return nil
}

// runFromSavedModel loads a previously saved model and runs evaluation
// and/or the REPL over it without retraining.
func runFromSavedModel(run config.Run) error {
	store, closeStore, err := openModelStore(*flagModelStore, run.ModelPath)
	if err != nil {
		return err
	}
	defer closeStore()

	m, err := store.Load("default")
	if err != nil {
		return err
	}

	d := m.Dictionary()
	tmpl, err := features.Parse(bytes.NewReader(m.Template), d)
	if err != nil {
		return err
	}
	l := learner.FromModel(d, tmpl, m.WeightStore())

	if run.Eval != "" {
		if err := evaluate(l, d, run); err != nil {
			return err
		}
		if !*flagRepl {
			return nil
		}
	}

	return runRepl(l, d)
}

func runRepl(l *learner.Learner, d *dict.Dictionary) error {
	session, err := replio.New(l, d, os.Stdin, os.Stdout, *flagDirect)
	if err != nil {
		return err
	}
	defer session.Close()
	return session.Run()
}

// evaluate parses every sentence of the evaluation corpus, writes prediction
// lines to the configured destination (or discards them), and reports
// UAS/LAS on stderr.
func evaluate(l *learner.Learner, d *dict.Dictionary, run config.Run) error {
	evalSents, err := readCorpusFile(run.Eval, d)
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if run.Predictions != "" {
		f, err := os.Create(run.Predictions)
		if err != nil {
			return parseerr.NewOutputFailure(err, "open predictions file %s", run.Predictions)
		}
		defer f.Close()
		out = f
	}

	var total, correctHead, correctBoth int
	for _, sent := range evalSents {
		heads, labels := l.Parse(sent)
		if err := corpus.WritePredictions(out, sent, heads, labels, d); err != nil {
			return parseerr.NewOutputFailure(err, "write predictions")
		}

		root := sent.RootIndex()
		for i, tok := range sent.Tokens {
			if i == root {
				continue
			}
			total++
			if heads[i] == tok.GoldHead {
				correctHead++
				if labels[i] == tok.GoldLabel {
					correctBoth++
				}
			}
		}
	}

	if total == 0 {
		return parseerr.NewInputParse(run.Eval, 0, "evaluation corpus contains no sentences")
	}

	uas := float64(correctHead) / float64(total)
	las := float64(correctBoth) / float64(total)

	scoreTable := [][]string{
		{"Metric", "Score"},
		{"UAS", fmt.Sprintf("%.4f", uas)},
		{"LAS", fmt.Sprintf("%.4f", las)},
	}
	report := rosed.Edit("").
		InsertTableOpts(0, scoreTable, 24, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
	fmt.Fprintln(os.Stderr, report)
	return nil
}

// readCorpusFile opens and parses one corpus file.
func readCorpusFile(path string, d *dict.Dictionary) ([]*corpus.Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, parseerr.WrapInputParse(err, path, "opening corpus file")
	}
	defer f.Close()
	return corpus.ReadCorpus(f, path, d)
}

// projectivizeGold repairs each training sentence's gold tree in place so
// that every remaining gold arc is projective and the arc-eager oracle can
// reach it.
func projectivizeGold(sents []*corpus.Sentence) {
	for _, sent := range sents {
		heads := make([]int, sent.Len())
		for i, tok := range sent.Tokens {
			heads[i] = tok.GoldHead
		}
		projectivize.LiftLongest(heads)
		for i, tok := range sent.Tokens {
			tok.GoldHead = heads[i]
		}
	}
}

// openModelStore resolves the --model-store backend selection. The returned
// closer is a no-op for backends without teardown.
func openModelStore(kind, path string) (modelstore.Store, func(), error) {
	switch kind {
	case "file":
		return modelstore.File{Path: path}, func() {}, nil
	case "sqlite":
		s, err := modelstore.NewSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported model store backend: %q\nDo -h for help.", kind)
	}
}

// fullMessage prefers the source-line-and-cursor rendering for errors that
// carry one.
func fullMessage(err error) string {
	if pe, ok := err.(*parseerr.Error); ok {
		return pe.FullMessage()
	}
	return err.Error()
}
