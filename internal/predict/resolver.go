package predict

import (
	"math"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// Match is the closest vocabulary entry for one raw input and its 0-100 score.
type Match struct {
	Input   string `json:"input"`
	Symptom string `json:"symptom"`
	Score   int    `json:"score"`
}

// Resolution is the outcome of one matching pass.
type Resolution struct {
	Matched []Match `json:"matched"`
	Skipped []Match `json:"skipped,omitempty"`
}

// Symptoms returns the distinct canonical symptoms in first-seen order.
func (r Resolution) Symptoms() []string {
	seen := make(map[string]struct{}, len(r.Matched))
	out := make([]string, 0, len(r.Matched))
	for _, m := range r.Matched {
		if _, ok := seen[m.Symptom]; ok {
			continue
		}
		seen[m.Symptom] = struct{}{}
		out = append(out, m.Symptom)
	}
	return out
}

type Resolver struct {
	vocab     []string
	keys      []string
	threshold int
}

func NewResolver(vocab []string, threshold int) *Resolver {
	keys := make([]string, len(vocab))
	for i, v := range vocab {
		keys[i] = matchKey(v)
	}
	return &Resolver{vocab: vocab, keys: keys, threshold: threshold}
}

// Resolve finds the best vocabulary entry for input regardless of threshold.
func Resolve(input string, vocab []string) Match {
	return NewResolver(vocab, 0).Best(input)
}

// Similarity scores two symptom strings on a 0-100 scale. Case, underscores,
// hyphens and repeated whitespace do not count against the score.
func Similarity(a, b string) int {
	return similarity(matchKey(a), matchKey(b))
}

func similarity(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return int(math.Round(100 * levenshtein.Similarity(a, b, nil)))
}

// Best returns the highest-scoring entry. Ties keep the earliest entry.
func (r *Resolver) Best(input string) Match {
	best := Match{Input: input}
	key := matchKey(input)
	for i, k := range r.keys {
		score := similarity(key, k)
		if score > best.Score || (best.Symptom == "" && i == 0) {
			best.Symptom = r.vocab[i]
			best.Score = score
		}
		if score == 100 {
			break
		}
	}
	return best
}

func (r *Resolver) Accepts(m Match) bool {
	return m.Symptom != "" && m.Score >= r.threshold
}

// ResolveAll matches every input. In strict mode the first input below the
// threshold discards every match made so far.
func (r *Resolver) ResolveAll(inputs []string, strict bool) (Resolution, error) {
	if len(inputs) == 0 {
		return Resolution{}, ErrNoSymptoms
	}

	var res Resolution
	for _, in := range inputs {
		if strings.TrimSpace(in) == "" {
			return Resolution{}, ErrBlankSymptom
		}
		m := r.Best(in)
		if r.Accepts(m) {
			res.Matched = append(res.Matched, m)
			continue
		}
		if strict {
			return Resolution{}, &UnresolvedError{Input: in, BestMatch: m, Threshold: r.threshold}
		}
		res.Skipped = append(res.Skipped, m)
	}

	if len(res.Matched) == 0 {
		first := res.Skipped[0]
		return res, &UnresolvedError{Input: first.Input, BestMatch: first, Threshold: r.threshold}
	}
	return res, nil
}

func matchKey(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
