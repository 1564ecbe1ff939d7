package predict

import (
	"errors"
	"fmt"
	"log/slog"
)

type Status string

const (
	StatusPredicted       Status = "predicted"
	StatusLowConfidence   Status = "low_confidence"
	StatusSymptomNotFound Status = "symptom_not_found"
)

// Result is what one prediction request produces. Disease, Confidence and
// Others are only set when Status is StatusPredicted.
type Result struct {
	Status     Status      `json:"status"`
	Disease    string      `json:"disease,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
	Others     []Candidate `json:"others,omitempty"`
	Symptoms   []string    `json:"symptoms,omitempty"`
	Skipped    []Match     `json:"skipped,omitempty"`
	Unresolved *Match      `json:"unresolved,omitempty"`
	Message    string      `json:"message"`
}

// Engine holds the read-only resources of the prediction pipeline. It is
// safe for concurrent use once constructed.
type Engine struct {
	vocab    []string
	index    map[string]int
	resolver *Resolver
	suggest  []string
	clf      Classifier
	dec      LabelDecoder
	policy   Policy
	logger   *slog.Logger
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(vocab []string, clf Classifier, dec LabelDecoder, policy Policy, opts ...Option) (*Engine, error) {
	if clf == nil || dec == nil {
		return nil, errors.New("classifier and label decoder are required")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	if len(vocab) == 0 {
		return nil, errors.New("empty symptom vocabulary")
	}
	if len(vocab) != clf.NumFeatures() {
		return nil, fmt.Errorf("%w: vocabulary has %d symptoms, classifier expects %d features",
			ErrShapeMismatch, len(vocab), clf.NumFeatures())
	}

	v := append([]string(nil), vocab...)
	index := make(map[string]int, len(v))
	for i, s := range v {
		if _, dup := index[s]; dup {
			return nil, fmt.Errorf("duplicate vocabulary entry %q", s)
		}
		index[s] = i
	}

	e := &Engine{
		vocab:    v,
		index:    index,
		resolver: NewResolver(v, policy.MinMatchScore),
		clf:      clf,
		dec:      dec,
		policy:   policy,
		logger:   slog.Default(),
	}
	e.suggest = e.resolver.underscoreKeys()
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Policy() Policy { return e.policy }

func (e *Engine) Vocabulary() []string {
	return append([]string(nil), e.vocab...)
}

// Predict runs resolve, encode and rank for one set of raw symptom strings.
// An unresolved symptom or a low-confidence ranking is a valid Result; only
// malformed input or a classifier failure returns an error.
func (e *Engine) Predict(inputs []string) (Result, error) {
	if len(inputs) > e.policy.MaxSymptoms {
		return Result{}, fmt.Errorf("%w: got %d, limit is %d", ErrTooManySymptoms, len(inputs), e.policy.MaxSymptoms)
	}

	res, err := e.resolver.ResolveAll(inputs, e.policy.Strict)
	var unresolved *UnresolvedError
	if errors.As(err, &unresolved) {
		e.logger.Debug("symptom not resolved", "input", unresolved.Input,
			"closest", unresolved.BestMatch.Symptom, "score", unresolved.BestMatch.Score)
		m := unresolved.BestMatch
		return Result{
			Status:     StatusSymptomNotFound,
			Unresolved: &m,
			Skipped:    res.Skipped,
			Message:    fmt.Sprintf("Symptom %q not found. Please check the spelling or try another term.", unresolved.Input),
		}, nil
	}
	if err != nil {
		return Result{}, err
	}
	for _, s := range res.Skipped {
		e.logger.Debug("skipping unresolved symptom", "input", s.Input, "score", s.Score)
	}

	symptoms := res.Symptoms()
	vec, err := buildVector(symptoms, e.index, len(e.vocab))
	if err != nil {
		return Result{}, err
	}

	ranking, err := Rank(e.clf, e.dec, vec, e.policy)
	if err != nil {
		return Result{}, err
	}

	if ranking.LowConfidence() {
		return Result{
			Status:   StatusLowConfidence,
			Symptoms: symptoms,
			Skipped:  res.Skipped,
			Message:  "Confidence is too low for a prediction. Please add more symptoms.",
		}, nil
	}

	p := ranking.Prediction
	return Result{
		Status:     StatusPredicted,
		Disease:    p.Disease,
		Confidence: p.Confidence,
		Others:     p.Others,
		Symptoms:   symptoms,
		Skipped:    res.Skipped,
		Message:    fmt.Sprintf("Predicted %s with %.1f%% confidence.", p.Disease, p.Confidence),
	}, nil
}
