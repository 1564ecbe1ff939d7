package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const BundleVersion = 2

var (
	ErrUnsupportedVersion = errors.New("unsupported bundle version")
	ErrInvalidBundle      = errors.New("invalid model bundle")
	ErrVocabularyMismatch = errors.New("vocabulary does not match model features")
)

// Bundle is the on-disk form of a trained symptom classifier.
type Bundle struct {
	Version    int         `json:"version"`
	Vocabulary []string    `json:"vocabulary"`
	Labels     []string    `json:"labels"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
}

// Model is a validated bundle ready for inference.
type Model struct {
	Vocabulary []string
	Classifier *Softmax
	Decoder    Labels
}

func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model bundle: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func Decode(r io.Reader) (*Model, error) {
	var b Bundle
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode model bundle: %w", err)
	}
	return FromBundle(b)
}

func FromBundle(b Bundle) (*Model, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	vocab := make([]string, len(b.Vocabulary))
	copy(vocab, b.Vocabulary)

	clf, err := NewSoftmax(b.Weights, b.Bias)
	if err != nil {
		return nil, err
	}

	return &Model{
		Vocabulary: vocab,
		Classifier: clf,
		Decoder:    NewLabels(b.Labels),
	}, nil
}

// Validate checks that every dimension of the bundle agrees with every other.
func (b Bundle) Validate() error {
	if b.Version != BundleVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, b.Version, BundleVersion)
	}
	if len(b.Vocabulary) == 0 {
		return fmt.Errorf("%w: empty vocabulary", ErrInvalidBundle)
	}
	if err := checkUnique("vocabulary", b.Vocabulary); err != nil {
		return err
	}
	if len(b.Labels) == 0 {
		return fmt.Errorf("%w: empty label set", ErrInvalidBundle)
	}
	if err := checkUnique("label", b.Labels); err != nil {
		return err
	}
	if len(b.Weights) != len(b.Labels) {
		return fmt.Errorf("%w: %d weight rows for %d labels", ErrInvalidBundle, len(b.Weights), len(b.Labels))
	}
	if len(b.Bias) != len(b.Labels) {
		return fmt.Errorf("%w: %d bias terms for %d labels", ErrInvalidBundle, len(b.Bias), len(b.Labels))
	}
	for i, row := range b.Weights {
		if len(row) != len(b.Vocabulary) {
			return fmt.Errorf("%w: weight row %d (%s) has %d features, vocabulary has %d",
				ErrInvalidBundle, i, b.Labels[i], len(row), len(b.Vocabulary))
		}
	}
	return nil
}

func checkUnique(kind string, values []string) error {
	seen := make(map[string]int, len(values))
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: blank %s at index %d", ErrInvalidBundle, kind, i)
		}
		if j, ok := seen[v]; ok {
			return fmt.Errorf("%w: duplicate %s %q at index %d and %d", ErrInvalidBundle, kind, v, j, i)
		}
		seen[v] = i
	}
	return nil
}
