package predict

import (
	"errors"
	"fmt"
)

var (
	ErrSymptomNotFound = errors.New("symptom not found")
	ErrNoSymptoms      = errors.New("no symptoms to match")
	ErrBlankSymptom    = errors.New("blank symptom")
	ErrTooManySymptoms = errors.New("too many symptoms")
	ErrUnknownSymptom  = errors.New("symptom is not in the vocabulary")
	ErrShapeMismatch   = errors.New("feature vector does not match classifier input")
	ErrBadScores       = errors.New("classifier returned invalid scores")
)

// UnresolvedError reports the input that fell below the match threshold and
// the closest vocabulary entry it reached.
type UnresolvedError struct {
	Input     string
	BestMatch Match
	Threshold int
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("symptom %q not found (closest %q scored %d, need %d)",
		e.Input, e.BestMatch.Symptom, e.BestMatch.Score, e.Threshold)
}

func (e *UnresolvedError) Unwrap() error { return ErrSymptomNotFound }
