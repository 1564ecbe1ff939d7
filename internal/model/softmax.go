package model

import (
	"errors"
	"fmt"
	"math"
)

var ErrShapeMismatch = errors.New("feature vector shape mismatch")

// Softmax is a multinomial logistic regression: softmax(W·x + b).
type Softmax struct {
	weights [][]float64
	bias    []float64
}

func NewSoftmax(weights [][]float64, bias []float64) (*Softmax, error) {
	if len(weights) == 0 || len(weights) != len(bias) {
		return nil, fmt.Errorf("%w: %d weight rows, %d bias terms", ErrInvalidBundle, len(weights), len(bias))
	}
	features := len(weights[0])
	w := make([][]float64, len(weights))
	for i, row := range weights {
		if len(row) != features {
			return nil, fmt.Errorf("%w: ragged weight row %d", ErrInvalidBundle, i)
		}
		w[i] = append([]float64(nil), row...)
	}
	return &Softmax{weights: w, bias: append([]float64(nil), bias...)}, nil
}

func (s *Softmax) NumFeatures() int { return len(s.weights[0]) }

func (s *Softmax) NumLabels() int { return len(s.weights) }

// PredictProba scores each vector in the batch. A vector of the wrong length
// fails the whole batch.
func (s *Softmax) PredictProba(batch [][]float64) ([][]float64, error) {
	out := make([][]float64, len(batch))
	for n, x := range batch {
		if len(x) != s.NumFeatures() {
			return nil, fmt.Errorf("%w: vector %d has %d features, model expects %d",
				ErrShapeMismatch, n, len(x), s.NumFeatures())
		}
		out[n] = s.score(x)
	}
	return out, nil
}

func (s *Softmax) score(x []float64) []float64 {
	logits := make([]float64, len(s.weights))
	maxLogit := math.Inf(-1)
	for k, row := range s.weights {
		z := s.bias[k]
		for i, v := range x {
			if v != 0 {
				z += row[i] * v
			}
		}
		logits[k] = z
		if z > maxLogit {
			maxLogit = z
		}
	}

	var sum float64
	for k, z := range logits {
		e := math.Exp(z - maxLogit)
		logits[k] = e
		sum += e
	}
	for k := range logits {
		logits[k] /= sum
	}
	return logits
}
