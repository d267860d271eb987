// Package replio contains the interactive prompt used to explore a trained
// model one sentence at a time. Input arrives in the same blank-line-
// terminated block format the corpus files use, so anything that can be
// typed at the prompt can also be pasted from a training file and vice
// versa.
package replio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/learner"
)

// BlockReader reads one blank-line-terminated block of sentence input at a
// time. It is implemented by DirectReader for generic input streams and
// InteractiveReader for TTY sessions with line editing.
type BlockReader interface {
	// ReadBlock returns the next non-empty block, without its terminating
	// blank line. At end of input it returns io.EOF; a block read just
	// before end of input is returned with a nil error first.
	ReadBlock() (string, error)

	// Close tears down any resources held by the reader.
	Close() error
}

// DirectReader reads blocks from any generic input stream directly. It does
// not sanitize the input of control and escape sequences; use
// InteractiveReader when reading from a TTY.
//
// DirectReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectReader struct {
	r *bufio.Reader
}

// NewDirectReader creates a DirectReader with a buffered reader on the
// provided stream.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// Close is here so DirectReader implements BlockReader; it holds no
// resources yet.
func (dr *DirectReader) Close() error {
	return nil
}

func (dr *DirectReader) ReadBlock() (string, error) {
	var lines []string
	for {
		line, err := dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF && len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			return "", err
		}

		trimmed := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(trimmed) == "" {
			if len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			if err == io.EOF {
				return "", io.EOF
			}
			continue
		}

		lines = append(lines, trimmed)
		if err == io.EOF {
			return strings.Join(lines, "\n"), nil
		}
	}
}

// InteractiveReader reads blocks from stdin using a Go implementation of the
// GNU Readline library, keeping the input clear of typing and editing escape
// sequences and enabling command history. It should in general only be used
// when directly connected to a TTY.
//
// InteractiveReader should not be used directly; instead, create one with
// [NewInteractiveReader].
type InteractiveReader struct {
	rl *readline.Instance
}

// NewInteractiveReader creates an InteractiveReader and initializes
// readline. The returned reader must have Close() called on it before
// disposal to properly tear down readline resources.
func NewInteractiveReader() (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "eagerparse> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &InteractiveReader{rl: rl}, nil
}

// Close cleans up readline resources.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

func (ir *InteractiveReader) ReadBlock() (string, error) {
	var lines []string
	ir.rl.SetPrompt("eagerparse> ")
	for {
		line, err := ir.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				if len(lines) > 0 {
					return strings.Join(lines, "\n"), nil
				}
				return "", io.EOF
			}
			return "", err
		}

		if strings.TrimSpace(line) == "" {
			if len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			continue
		}

		lines = append(lines, line)
		ir.rl.SetPrompt("          | ")
	}
}

// Session drives one REPL over a trained model: read a sentence block, parse
// it, print the prediction lines, repeat until end of input.
type Session struct {
	Learner *learner.Learner
	Dict    *dict.Dictionary
	In      BlockReader
	Out     io.Writer
}

// New builds a Session over a trained learner, choosing an
// InteractiveReader when in is the process's own stdin attached to a
// terminal-shaped pairing (in == os.Stdin, out == os.Stdout) and
// forceDirect is unset, and a DirectReader otherwise.
func New(l *learner.Learner, d *dict.Dictionary, in io.Reader, out io.Writer, forceDirect bool) (*Session, error) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	s := &Session{Learner: l, Dict: d, Out: out}

	useReadline := !forceDirect && in == os.Stdin && out == os.Stdout
	if useReadline {
		ir, err := NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
		s.In = ir
	} else {
		s.In = NewDirectReader(in)
	}

	return s, nil
}

// Close releases the session's input reader.
func (s *Session) Close() error {
	return s.In.Close()
}

// Run loops until end of input. A block that fails to parse as corpus input
// is reported on the session's output and the loop continues; only a read
// failure ends the session with an error.
func (s *Session) Run() error {
	for {
		block, err := s.In.ReadBlock()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if err := s.parseBlock(block); err != nil {
			fmt.Fprintf(s.Out, "error: %s\n", err)
		}
	}
}

func (s *Session) parseBlock(block string) error {
	sentences, err := corpus.ReadCorpus(strings.NewReader(block+"\n"), "input", s.Dict)
	if err != nil {
		return err
	}

	for _, sent := range sentences {
		heads, labels := s.Learner.Parse(sent)
		if err := corpus.WritePredictions(s.Out, sent, heads, labels, s.Dict); err != nil {
			return err
		}
	}
	return nil
}
