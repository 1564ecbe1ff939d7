package model

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrUnknownLabel = errors.New("label index out of range")

// Labels maps classifier output indices back to disease names.
type Labels struct {
	names []string
}

func NewLabels(names []string) Labels {
	return Labels{names: append([]string(nil), names...)}
}

func (l Labels) Decode(index int) (string, error) {
	if index < 0 || index >= len(l.names) {
		return "", fmt.Errorf("%w: %d (have %d labels)", ErrUnknownLabel, index, len(l.names))
	}
	return l.names[index], nil
}

func (l Labels) Len() int { return len(l.names) }

// LoadVocabulary reads one symptom name per line. Blank lines and lines
// starting with '#' are ignored.
func LoadVocabulary(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	var vocab []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		vocab = append(vocab, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return vocab, nil
}

// CheckVocabulary rejects an external vocabulary that cannot line up with the
// model's feature columns.
func (m *Model) CheckVocabulary(vocab []string) error {
	if len(vocab) != m.Classifier.NumFeatures() {
		return fmt.Errorf("%w: vocabulary has %d entries, model expects %d",
			ErrVocabularyMismatch, len(vocab), m.Classifier.NumFeatures())
	}
	if err := checkUnique("vocabulary", vocab); err != nil {
		return err
	}
	return nil
}

// WithVocabulary returns a copy of the model using vocab for feature order.
func (m *Model) WithVocabulary(vocab []string) (*Model, error) {
	if err := m.CheckVocabulary(vocab); err != nil {
		return nil, err
	}
	cp := *m
	cp.Vocabulary = append([]string(nil), vocab...)
	return &cp, nil
}
