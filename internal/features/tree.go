package features

import (
	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/parsestate"
)

// node is one member of a parsed feature tree: location and product nodes
// implement it; Template's members are its roots.
type node interface {
	good(ps *parsestate.ParseState) bool
	fillFeatures(ps *parsestate.ParseState, sent *corpus.Sentence, out *[]FeatureKey, start int)
}

// locationNode looks up a token at a named location and extends the
// in-progress range by the attributes of one of its namespace fronts.
type locationNode struct {
	loc             parsestate.LocationName
	namespaceID     int
	tokenSpecificNS int
}

func (n *locationNode) good(ps *parsestate.ParseState) bool {
	return ps.Locations[n.loc] != parsestate.Undefined
}

// fillFeatures extends the working range in place: if the location is
// undefined or its namespace front is absent, the range is cleared; else
// every existing key in the range is combined with every attribute of the
// front, replacing the range with the extended set.
func (n *locationNode) fillFeatures(ps *parsestate.ParseState, sent *corpus.Sentence, out *[]FeatureKey, start int) {
	tokenIndex := ps.Locations[n.loc]
	if tokenIndex == parsestate.Undefined {
		*out = (*out)[:start]
		return
	}

	front, ok := sent.Tokens[tokenIndex].Front(n.namespaceID, n.tokenSpecificNS)
	if !ok || len(front.Attributes) == 0 {
		*out = (*out)[:start]
		return
	}

	existing := append([]FeatureKey(nil), (*out)[start:]...)
	*out = (*out)[:start]
	for _, f := range existing {
		for _, a := range front.Attributes {
			*out = append(*out, mixAttribute(f, a.ID, a.Value))
		}
	}
}

// productNode is the CartesianProduct combinator: lhs extends the range,
// then rhs extends whatever lhs left behind.
type productNode struct {
	lhs, rhs node
}

func (n *productNode) good(ps *parsestate.ParseState) bool {
	return n.lhs.good(ps) && n.rhs.good(ps)
}

func (n *productNode) fillFeatures(ps *parsestate.ParseState, sent *corpus.Sentence, out *[]FeatureKey, start int) {
	n.lhs.fillFeatures(ps, sent, out, start)
	n.rhs.fillFeatures(ps, sent, out, start)
}

// Template is the root UnionList of a parsed feature-template file: one
// member node per non-empty, non-comment line, in file order.
type Template struct {
	members []node
}

// NumTemplates returns the number of union members, i.e. the template-index
// space used to seed each member's feature-key stream.
func (t *Template) NumTemplates() int {
	return len(t.members)
}

// FillFeatures evaluates every good union member of t at ps against sent:
// each good member seeds one FeatureKey and extends it in place. buf is
// reused (truncated to zero length) to cut
// allocations across configurations; pass nil to start fresh. The caller
// must not retain buf's backing array across sentences beyond the returned
// slice, since a later call reuses it.
func (t *Template) FillFeatures(ps *parsestate.ParseState, sent *corpus.Sentence, buf []FeatureKey) []FeatureKey {
	out := buf[:0]
	for i, m := range t.members {
		if !m.good(ps) {
			continue
		}
		out = append(out, seedKey(i))
		m.fillFeatures(ps, sent, &out, len(out)-1)
	}
	return out
}
