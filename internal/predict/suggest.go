package predict

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggest ranks vocabulary entries against a partial query for autocomplete.
// An empty query lists the vocabulary in order.
func (e *Engine) Suggest(query string, limit int) []string {
	if limit <= 0 {
		limit = len(e.vocab)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if limit > len(e.vocab) {
			limit = len(e.vocab)
		}
		return append([]string(nil), e.vocab[:limit]...)
	}

	// Vocabulary entries use underscores; let "skin rash" find "skin_rash".
	pattern := strings.ReplaceAll(strings.ToLower(query), " ", "_")
	matches := fuzzy.Find(pattern, e.suggest)

	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, e.vocab[m.Index])
	}
	return out
}

func (r *Resolver) underscoreKeys() []string {
	keys := make([]string, len(r.keys))
	for i, k := range r.keys {
		keys[i] = strings.ReplaceAll(k, " ", "_")
	}
	return keys
}
