package predict

import (
	"fmt"
	"math"
	"sort"
)

// gapEpsilon absorbs float noise from probability*100 so a gap of exactly
// MaxGap is still inside the band.
const gapEpsilon = 1e-9

// Classifier scores a batch of feature vectors over a fixed, ordered label space.
type Classifier interface {
	PredictProba(batch [][]float64) ([][]float64, error)
	NumFeatures() int
	NumLabels() int
}

type LabelDecoder interface {
	Decode(index int) (string, error)
}

type Candidate struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

type Prediction struct {
	Disease    string      `json:"disease"`
	Confidence float64     `json:"confidence"`
	Others     []Candidate `json:"others"`
}

// Ranking is the top-K view of one classifier call. Prediction is nil when the
// primary candidate did not clear the confidence gate.
type Ranking struct {
	Top        []Candidate `json:"top"`
	Prediction *Prediction `json:"prediction,omitempty"`
}

func (r Ranking) LowConfidence() bool { return r.Prediction == nil }

// Rank scores vec and applies the confidence gate and the competitor band.
func Rank(clf Classifier, dec LabelDecoder, vec []float64, p Policy) (Ranking, error) {
	if len(vec) != clf.NumFeatures() {
		return Ranking{}, fmt.Errorf("%w: vector has %d features, classifier expects %d",
			ErrShapeMismatch, len(vec), clf.NumFeatures())
	}

	probs, err := clf.PredictProba([][]float64{vec})
	if err != nil {
		return Ranking{}, fmt.Errorf("score feature vector: %w", err)
	}
	if len(probs) != 1 {
		return Ranking{}, fmt.Errorf("%w: got %d rows for a batch of one", ErrBadScores, len(probs))
	}
	dist := probs[0]
	if len(dist) != clf.NumLabels() || len(dist) == 0 {
		return Ranking{}, fmt.Errorf("%w: got %d probabilities for %d labels", ErrBadScores, len(dist), clf.NumLabels())
	}
	for i, v := range dist {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Ranking{}, fmt.Errorf("%w: probability %v at label %d", ErrBadScores, v, i)
		}
	}

	order := make([]int, len(dist))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dist[order[a]] > dist[order[b]]
	})
	if len(order) > p.TopK {
		order = order[:p.TopK]
	}

	top := make([]Candidate, 0, len(order))
	for _, idx := range order {
		name, err := dec.Decode(idx)
		if err != nil {
			return Ranking{}, fmt.Errorf("decode label %d: %w", idx, err)
		}
		top = append(top, Candidate{Disease: name, Confidence: dist[idx] * 100})
	}

	ranking := Ranking{Top: top}
	primary := top[0]
	if primary.Confidence < p.MinConfidence {
		return ranking, nil
	}

	others := []Candidate{}
	for _, c := range top[1:] {
		if primary.Confidence-c.Confidence <= p.MaxGap+gapEpsilon {
			others = append(others, c)
		}
	}
	ranking.Prediction = &Prediction{
		Disease:    primary.Disease,
		Confidence: primary.Confidence,
		Others:     others,
	}
	return ranking, nil
}
