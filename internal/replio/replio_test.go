package replio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/features"
	"github.com/dekarrin/eagerparse/internal/learner"
)

func TestDirectReaderReadBlock(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "single block with trailing blank",
			input:  "line one\nline two\n\n",
			expect: []string{"line one\nline two"},
		},
		{
			name:   "two blocks",
			input:  "a\n\nb\nc\n\n",
			expect: []string{"a", "b\nc"},
		},
		{
			name:   "leading blank lines skipped",
			input:  "\n\na\n\n",
			expect: []string{"a"},
		},
		{
			name:   "unterminated final block still returned",
			input:  "a\nb",
			expect: []string{"a\nb"},
		},
		{
			name:   "empty input",
			input:  "",
			expect: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			dr := NewDirectReader(strings.NewReader(tc.input))
			var blocks []string
			for {
				block, err := dr.ReadBlock()
				if err == io.EOF {
					break
				}
				assert.Nil(err)
				blocks = append(blocks, block)
			}

			assert.Equal(tc.expect, blocks)
		})
	}
}

// TestSessionParsesBlocks drives a Session end-to-end over a direct reader:
// the same sentence the model was trained on, typed as corpus-format input,
// must come back with its gold attachments in the prediction lines.
func TestSessionParsesBlocks(t *testing.T) {
	assert := assert.New(t)

	d := dict.New()
	tmpl, err := features.Parse(strings.NewReader("S0:w\nN0:w\n"), d)
	assert.Nil(err)

	const trainData = "1-nsubj 'she |w she\n-1-root 'ran |w ran\n\n"
	trainSents, err := corpus.ReadCorpus(strings.NewReader(trainData), "train", d)
	assert.Nil(err)

	l := learner.New(d, tmpl)
	l.Fit(trainSents, 20)

	var out bytes.Buffer
	sess := &Session{
		Learner: l,
		Dict:    d,
		In:      NewDirectReader(strings.NewReader(trainData)),
		Out:     &out,
	}
	defer sess.Close()

	assert.Nil(sess.Run())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(lines, 2)
	assert.Equal("she\t1-nsubj\t1-nsubj", lines[0])
	assert.Equal("ran\t2-root\t2-root", lines[1])
}
