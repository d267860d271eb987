// Package corpus holds the Sentence/Token data model and the reader/writer
// for eagerparse's tab-delimited training and prediction format.
package corpus

// NoTag marks a namespace front that carries no token-specific tag.
const NoTag = -1

// Attribute is one (attribute id, value) pair within a namespace front. The
// namespace id is carried by the enclosing NamespaceFront, not the
// Attribute, so that every Attribute within one front is guaranteed to share
// a namespace.
type Attribute struct {
	ID    int
	Value float64
}

// NamespaceFront is an ordered list of attributes sharing one namespace on a
// token. TokenSpecificNS optionally tags the front for edge-dependent
// features (encoded as "NAME-k" in the corpus format); it is NoTag when the
// front carries no such tag.
type NamespaceFront struct {
	NamespaceID     int
	TokenSpecificNS int
	Attributes      []Attribute
}

// Token is one word of a Sentence (or the synthetic ROOT token appended to
// every sentence).
type Token struct {
	// Index is this token's position within its Sentence's Tokens slice.
	Index int

	// TokenID is the identifier string read from the corpus (column "ID").
	TokenID string

	// Fronts is the token's ordered sequence of namespace fronts.
	Fronts []NamespaceFront

	// GoldHead is the gold head index, or -1 if unset/ROOT.
	GoldHead int

	// GoldLabel is the gold dependency label id, or -1 if unset. The
	// synthetic ROOT token carries the id of the "root" label.
	GoldLabel int
}

// Front returns the namespace front on t matching (namespaceID, tokenSpecificNS),
// and whether one was found.
func (t *Token) Front(namespaceID, tokenSpecificNS int) (*NamespaceFront, bool) {
	for i := range t.Fronts {
		f := &t.Fronts[i]
		if f.NamespaceID == namespaceID && f.TokenSpecificNS == tokenSpecificNS {
			return f, true
		}
	}
	return nil, false
}

// ArcConstraint pins a dependent D to a required head H, optionally with a
// required label L (L == -1 means any label).
type ArcConstraint struct {
	Head  int
	Dep   int
	Label int
}

// SpanConstraint requires the tokens in [Start, End] to form a single
// subtree with exactly one externally-headed token (the span's root).
// PermitRootDeps allows that root to additionally take dependents from
// outside the span.
type SpanConstraint struct {
	Start          int
	End            int
	PermitRootDeps bool
}

// Sentence is an ordered sequence of tokens terminated by a synthetic ROOT
// token, plus any arc/span constraints read alongside it.
type Sentence struct {
	Tokens          []*Token
	ArcConstraints  []ArcConstraint
	SpanConstraints []SpanConstraint
}

// RootIndex returns the index of the synthetic ROOT token, the last token in
// the sentence.
func (s *Sentence) RootIndex() int {
	return len(s.Tokens) - 1
}

// Len returns the number of tokens including ROOT.
func (s *Sentence) Len() int {
	return len(s.Tokens)
}

// finalize appends the synthetic ROOT token and rewrites any gold head of -1
// (meaning "attaches to ROOT" in the input format) to the new ROOT index.
// Callers only invoke it on sentences with at least one real token, so
// Sentence.Len() >= 2 afterward.
func (s *Sentence) finalize(rootLabel int) {
	rootIdx := len(s.Tokens)
	for _, tok := range s.Tokens {
		if tok.GoldHead == -1 {
			tok.GoldHead = rootIdx
		}
	}
	s.Tokens = append(s.Tokens, &Token{
		Index:     rootIdx,
		TokenID:   "__ROOT__",
		GoldHead:  -1,
		GoldLabel: rootLabel,
	})
}
