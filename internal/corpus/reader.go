package corpus

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/parseerr"
)

// headerPattern splits a token line's header ("HEAD-LABEL 'ID") into its
// three groups. HEAD is a possibly-negative integer offset, LABEL is the
// dependency label string, and ID is the token's identifier. Mirrors the
// source format's "(-?\d+)-(.*)\s'(.*)" regex.
var headerPattern = regexp.MustCompile(`^(-?\d+)-(.*)\s'(.*)$`)

// ReadCorpus parses the blank-line-delimited corpus format from r. Strings
// (token ids, namespace names, attribute names, label names) are interned
// into d; while d is unfrozen (training mode) unseen strings allocate new
// ids, and once frozen (evaluation mode) unseen strings resolve to
// dict.Absent per dict.Dictionary's frozen-lookup semantics.
//
// filename is used only to annotate error messages with 1-based line
// numbers.
func ReadCorpus(r io.Reader, filename string, d *dict.Dictionary) ([]*Sentence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var sentences []*Sentence
	cur := &Sentence{}
	lineNo := 0

	rootLabel := d.Label("root")

	finishSentence := func() {
		if len(cur.Tokens) == 0 {
			return
		}
		cur.finalize(rootLabel)
		sentences = append(sentences, cur)
		cur = &Sentence{}
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			finishSentence()
			continue
		}

		if line[0] == '#' {
			if err := parseConstraintLine(line[1:], cur); err != nil {
				return nil, parseerr.NewInputParse(filename, lineNo, "%s", err)
			}
			continue
		}

		tok, err := parseTokenLine(line, d)
		if err != nil {
			return nil, parseerr.NewInputParse(filename, lineNo, "%s", err)
		}
		tok.Index = len(cur.Tokens)
		cur.Tokens = append(cur.Tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, parseerr.WrapInputParse(err, filename, "reading corpus")
	}
	finishSentence()

	return sentences, nil
}

func parseTokenLine(line string, d *dict.Dictionary) (*Token, error) {
	barPos := strings.IndexByte(line, '|')
	if barPos < 0 {
		return nil, fmt.Errorf("bar '|' not found")
	}

	header := line[:barPos]
	body := line[barPos:]

	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("ill-formatted header %q", header)
	}

	head, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("bad head offset %q: %w", m[1], err)
	}

	label := d.Label(m[2])
	id := norm.NFC.String(strings.TrimSpace(m[3]))

	tok := &Token{
		TokenID:   id,
		GoldHead:  head,
		GoldLabel: label,
	}

	if err := parseBody(body, d, tok); err != nil {
		return nil, err
	}

	return tok, nil
}

func parseBody(body string, d *dict.Dictionary, tok *Token) error {
	fields := strings.Fields(body)

	var cur *NamespaceFront
	for _, field := range fields {
		if strings.HasPrefix(field, "|") {
			name := field[1:]
			tns := NoTag
			if dash := strings.IndexByte(name, '-'); dash >= 0 {
				tag := name[dash+1:]
				name = name[:dash]
				if name == "" {
					return fmt.Errorf("invalid namespace format %q", field)
				}
				k, err := strconv.Atoi(tag)
				if err != nil {
					return fmt.Errorf("invalid token-specific namespace tag %q: %w", field, err)
				}
				tns = k
			}
			if name == "" {
				name = "*"
			}
			name = norm.NFC.String(name)
			tok.Fronts = append(tok.Fronts, NamespaceFront{
				NamespaceID:     d.Namespace(name),
				TokenSpecificNS: tns,
			})
			cur = &tok.Fronts[len(tok.Fronts)-1]
			continue
		}

		if cur == nil {
			return fmt.Errorf("feature %q appears before any namespace declaration", field)
		}

		feature := field
		value := 1.0
		if colon := strings.LastIndexByte(field, ':'); colon > 0 {
			if v, err := strconv.ParseFloat(field[colon+1:], 64); err == nil {
				value = v
				feature = field[:colon]
			}
			// parse failure falls back to the default value of 1.0 and
			// treats the whole token (including the colon) as the feature
			// name, matching the source's fallback behavior.
		}

		attrID := d.Attribute(feature)
		cur.Attributes = append(cur.Attributes, Attribute{ID: attrID, Value: value})
	}

	return nil
}

func parseConstraintLine(line string, sent *Sentence) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return fmt.Errorf("empty constraint line")
	}

	kind := fields[0]
	rest := fields[1:]

	switch kind {
	case "arc":
		for _, pair := range rest {
			dash := strings.IndexByte(pair, '-')
			if dash <= 0 {
				return fmt.Errorf("invalid arc constraint %q", pair)
			}
			head, err := strconv.Atoi(pair[:dash])
			if err != nil {
				return fmt.Errorf("invalid arc constraint head %q: %w", pair, err)
			}
			dep, err := strconv.Atoi(pair[dash+1:])
			if err != nil {
				return fmt.Errorf("invalid arc constraint dep %q: %w", pair, err)
			}
			sent.ArcConstraints = append(sent.ArcConstraints, ArcConstraint{Head: head, Dep: dep, Label: -1})
		}
	case "span":
		for _, pair := range rest {
			permitRoot := false
			if strings.HasSuffix(pair, "+root") {
				permitRoot = true
				pair = strings.TrimSuffix(pair, "+root")
			}
			dash := strings.IndexByte(pair, '-')
			if dash <= 0 {
				return fmt.Errorf("invalid span constraint %q", pair)
			}
			start, err := strconv.Atoi(pair[:dash])
			if err != nil {
				return fmt.Errorf("invalid span constraint start %q: %w", pair, err)
			}
			end, err := strconv.Atoi(pair[dash+1:])
			if err != nil {
				return fmt.Errorf("invalid span constraint end %q: %w", pair, err)
			}
			sent.SpanConstraints = append(sent.SpanConstraints, SpanConstraint{Start: start, End: end, PermitRootDeps: permitRoot})
		}
	default:
		return fmt.Errorf("line expected to specify constraints and start with one of {arc, span}, got %q", kind)
	}

	return nil
}
