package predict

import "fmt"

const (
	DefaultMinMatchScore = 70
	DefaultMinConfidence = 75.0
	DefaultMaxGap        = 15.0
	DefaultTopK          = 5
	DefaultMaxSymptoms   = 10
)

// Policy holds the tunable thresholds of the matching and ranking pipeline.
type Policy struct {
	MinMatchScore int     `yaml:"min_match_score" json:"minMatchScore"`
	MinConfidence float64 `yaml:"min_confidence" json:"minConfidence"`
	MaxGap        float64 `yaml:"max_gap" json:"maxGap"`
	TopK          int     `yaml:"top_k" json:"topK"`
	MaxSymptoms   int     `yaml:"max_symptoms" json:"maxSymptoms"`
	// Strict aborts the whole matching pass on the first unresolved symptom.
	// When false, unresolved inputs are skipped and reported.
	Strict bool `yaml:"strict" json:"strict"`
}

func DefaultPolicy() Policy {
	return Policy{
		MinMatchScore: DefaultMinMatchScore,
		MinConfidence: DefaultMinConfidence,
		MaxGap:        DefaultMaxGap,
		TopK:          DefaultTopK,
		MaxSymptoms:   DefaultMaxSymptoms,
		Strict:        true,
	}
}

func (p Policy) Validate() error {
	if p.MinMatchScore < 0 || p.MinMatchScore > 100 {
		return fmt.Errorf("min match score must be within 0..100, got %d", p.MinMatchScore)
	}
	if p.MinConfidence < 0 || p.MinConfidence > 100 {
		return fmt.Errorf("min confidence must be within 0..100, got %.2f", p.MinConfidence)
	}
	if p.MaxGap < 0 {
		return fmt.Errorf("max gap must not be negative, got %.2f", p.MaxGap)
	}
	if p.TopK < 1 {
		return fmt.Errorf("top k must be at least 1, got %d", p.TopK)
	}
	if p.MaxSymptoms < 1 {
		return fmt.Errorf("max symptoms must be at least 1, got %d", p.MaxSymptoms)
	}
	return nil
}
