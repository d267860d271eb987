package corpus

import (
	"strings"
	"testing"

	"github.com/dekarrin/eagerparse/internal/dict"
)

func TestReadCorpusBasicSentence(t *testing.T) {
	const data = `1-root 'saw |w saw:1.0 |p VBD
-1-nsubj 'she |w she |p PRP

`
	d := dict.New()
	sents, err := ReadCorpus(strings.NewReader(data), "test", d)
	if err != nil {
		t.Fatalf("ReadCorpus: %v", err)
	}
	if len(sents) != 1 {
		t.Fatalf("len(sents) = %d, want 1", len(sents))
	}
	sent := sents[0]
	if sent.Len() != 3 {
		t.Fatalf("sent.Len() = %d, want 3 (2 tokens + ROOT)", sent.Len())
	}
	root := sent.RootIndex()
	if root != 2 {
		t.Fatalf("RootIndex() = %d, want 2", root)
	}
	if sent.Tokens[root].GoldHead != -1 {
		t.Fatalf("ROOT head = %d, want -1", sent.Tokens[root].GoldHead)
	}

	// token 0 ("saw") has head 1, an offset from source format; token 1
	// ("she") had head -1 meaning "attaches to ROOT" and must be rewritten.
	if sent.Tokens[0].GoldHead != 1 {
		t.Fatalf("token 0 head = %d, want 1", sent.Tokens[0].GoldHead)
	}
	if sent.Tokens[1].GoldHead != root {
		t.Fatalf("token 1 head = %d, want rewritten to ROOT index %d", sent.Tokens[1].GoldHead, root)
	}

	wFront, ok := sent.Tokens[0].Front(d.Namespace("w"), NoTag)
	if !ok {
		t.Fatalf("token 0 missing namespace w")
	}
	if len(wFront.Attributes) != 1 || wFront.Attributes[0].Value != 1.0 {
		t.Fatalf("token 0 namespace w attributes = %+v, want one attribute with value 1.0", wFront.Attributes)
	}
}

func TestReadCorpusConstraints(t *testing.T) {
	const data = `# arc 2-0
# span 1-2+root
1-root 'saw |w saw
0-nsubj 'she |w she
2-dobj 'fish |w fish

`
	d := dict.New()
	sents, err := ReadCorpus(strings.NewReader(data), "test", d)
	if err != nil {
		t.Fatalf("ReadCorpus: %v", err)
	}
	sent := sents[0]
	if len(sent.ArcConstraints) != 1 || sent.ArcConstraints[0] != (ArcConstraint{Head: 2, Dep: 0, Label: -1}) {
		t.Fatalf("ArcConstraints = %+v", sent.ArcConstraints)
	}
	if len(sent.SpanConstraints) != 1 {
		t.Fatalf("SpanConstraints = %+v", sent.SpanConstraints)
	}
	sc := sent.SpanConstraints[0]
	if sc.Start != 1 || sc.End != 2 || !sc.PermitRootDeps {
		t.Fatalf("SpanConstraint = %+v", sc)
	}
}

func TestReadCorpusRejectsMissingBar(t *testing.T) {
	const data = `1-root 'saw no-bar-here

`
	d := dict.New()
	if _, err := ReadCorpus(strings.NewReader(data), "test", d); err == nil {
		t.Fatalf("expected an error for a token line with no namespace bar")
	}
}
