package corpus

import (
	"fmt"
	"io"

	"github.com/dekarrin/eagerparse/internal/dict"
)

// WritePredictions writes one tab-separated prediction line per token in
// sent (excluding the synthetic ROOT token), followed by a blank line to
// separate sentences:
//
//	ID \t GOLD_HEAD-GOLD_LABEL \t PRED_HEAD-PRED_LABEL
func WritePredictions(w io.Writer, sent *Sentence, heads, labels []int, d *dict.Dictionary) error {
	root := sent.RootIndex()
	for i, tok := range sent.Tokens {
		if i == root {
			continue
		}
		gold := fmt.Sprintf("%d-%s", tok.GoldHead, d.LabelString(tok.GoldLabel))
		pred := fmt.Sprintf("%d-%s", heads[i], d.LabelString(labels[i]))
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", tok.TokenID, gold, pred); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
