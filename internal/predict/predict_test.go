package predict_test

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/PredictNCure/internal/model"
	"github.com/Skufu/PredictNCure/internal/predict"
)

var skinVocab = []string{"itching", "skin_rash", "nodal_skin_eruptions"}

// fixedClassifier returns the same distribution for every vector and records
// the last vector it was asked to score.
type fixedClassifier struct {
	features int
	probs    []float64
	err      error
	last     []float64
}

func (f *fixedClassifier) PredictProba(batch [][]float64) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.last = append([]float64(nil), batch[0]...)
	return [][]float64{append([]float64(nil), f.probs...)}, nil
}

func (f *fixedClassifier) NumFeatures() int { return f.features }
func (f *fixedClassifier) NumLabels() int   { return len(f.probs) }

func labels(names ...string) model.Labels { return model.NewLabels(names) }

func newEngine(t *testing.T, clf predict.Classifier, dec predict.LabelDecoder, mutate ...func(*predict.Policy)) *predict.Engine {
	t.Helper()
	p := predict.DefaultPolicy()
	for _, m := range mutate {
		m(&p)
	}
	e, err := predict.NewEngine(skinVocab, clf, dec, p)
	require.NoError(t, err)
	return e
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 100, predict.Similarity("skin rash", "skin_rash"))
	assert.Equal(t, 100, predict.Similarity("Skin-Rash ", "skin_rash"))
	assert.GreaterOrEqual(t, predict.Similarity("itchin", "itching"), 70)
	assert.GreaterOrEqual(t, predict.Similarity("nodal skin eruption", "nodal_skin_eruptions"), 70)
	assert.Less(t, predict.Similarity("zzzznotasymptom", "itching"), 70)
	assert.Equal(t, 0, predict.Similarity("", "itching"))
}

func TestResolve(t *testing.T) {
	m := predict.Resolve("skin rash", skinVocab)
	assert.Equal(t, "skin_rash", m.Symptom)
	assert.Equal(t, 100, m.Score)

	m = predict.Resolve("itchin", skinVocab)
	assert.Equal(t, "itching", m.Symptom)

	m = predict.Resolve("anything", nil)
	assert.Empty(t, m.Symptom)
	assert.Zero(t, m.Score)
}

func TestResolveAcceptanceIsMonotonic(t *testing.T) {
	target := "continuous_sneezing"
	resolver := predict.NewResolver([]string{target}, predict.DefaultMinMatchScore)

	prevScore := 101
	rejected := false
	for k := 0; k <= len(target); k++ {
		input := target[:len(target)-k] + strings.Repeat("x", k)
		m := resolver.Best(input)
		assert.LessOrEqual(t, m.Score, prevScore, "score must not grow as the input drifts further (k=%d)", k)
		prevScore = m.Score

		accepted := resolver.Accepts(m)
		if rejected {
			assert.False(t, accepted, "k=%d accepted after a closer input was rejected", k)
		}
		if !accepted {
			rejected = true
		}
	}
	assert.True(t, rejected)
}

func TestResolveAll(t *testing.T) {
	resolver := predict.NewResolver(skinVocab, predict.DefaultMinMatchScore)

	t.Run("strict aborts and discards matches", func(t *testing.T) {
		res, err := resolver.ResolveAll([]string{"itchin", "zzzznotasymptom", "skin rash"}, true)
		var unresolved *predict.UnresolvedError
		require.ErrorAs(t, err, &unresolved)
		assert.ErrorIs(t, err, predict.ErrSymptomNotFound)
		assert.Equal(t, "zzzznotasymptom", unresolved.Input)
		assert.Empty(t, res.Matched)
	})

	t.Run("lenient skips and continues", func(t *testing.T) {
		res, err := resolver.ResolveAll([]string{"itchin", "zzzznotasymptom", "skin rash"}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"itching", "skin_rash"}, res.Symptoms())
		require.Len(t, res.Skipped, 1)
		assert.Equal(t, "zzzznotasymptom", res.Skipped[0].Input)
	})

	t.Run("lenient with nothing resolved", func(t *testing.T) {
		_, err := resolver.ResolveAll([]string{"zzzznotasymptom"}, false)
		assert.ErrorIs(t, err, predict.ErrSymptomNotFound)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		res, err := resolver.ResolveAll([]string{"itching", "itchin"}, true)
		require.NoError(t, err)
		assert.Len(t, res.Matched, 2)
		assert.Equal(t, []string{"itching"}, res.Symptoms())
	})

	t.Run("blank input", func(t *testing.T) {
		_, err := resolver.ResolveAll([]string{"itching", "  "}, true)
		assert.ErrorIs(t, err, predict.ErrBlankSymptom)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := resolver.ResolveAll(nil, true)
		assert.ErrorIs(t, err, predict.ErrNoSymptoms)
	})
}

func TestBuildVector(t *testing.T) {
	vec, err := predict.BuildVector([]string{"nodal_skin_eruptions", "itching"}, skinVocab)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1}, vec)

	_, err = predict.BuildVector([]string{"headache"}, skinVocab)
	assert.ErrorIs(t, err, predict.ErrUnknownSymptom)
}

func TestRank(t *testing.T) {
	dec := labels("Fungal infection", "Allergy", "GERD", "Acne", "Psoriasis", "Impetigo")
	policy := predict.DefaultPolicy()

	tests := []struct {
		name       string
		probs      []float64
		wantLow    bool
		wantTop    int
		wantOthers []string
	}{
		{
			name:       "close competitor inside band",
			probs:      []float64{0.82, 0.70, 0.05, 0.03, 0.02, 0.01},
			wantTop:    5,
			wantOthers: []string{"Allergy"},
		},
		{
			name:       "gap of exactly fifteen is included",
			probs:      []float64{0.05, 0.80, 0.65, 0.0, 0.0, 0.0},
			wantTop:    5,
			wantOthers: []string{"GERD"},
		},
		{
			name:       "no competitor",
			probs:      []float64{0.02, 0.01, 0.95, 0.01, 0.005, 0.005},
			wantTop:    5,
			wantOthers: []string{},
		},
		{
			name:    "below confidence gate",
			probs:   []float64{0.60, 0.30, 0.05, 0.03, 0.01, 0.01},
			wantLow: true,
			wantTop: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf := &fixedClassifier{features: 3, probs: tt.probs}
			ranking, err := predict.Rank(clf, dec, []float64{1, 1, 0}, policy)
			require.NoError(t, err)
			assert.Len(t, ranking.Top, tt.wantTop)
			for i := 1; i < len(ranking.Top); i++ {
				assert.GreaterOrEqual(t, ranking.Top[i-1].Confidence, ranking.Top[i].Confidence)
			}
			if tt.wantLow {
				assert.True(t, ranking.LowConfidence())
				return
			}
			require.NotNil(t, ranking.Prediction)
			got := make([]string, 0, len(ranking.Prediction.Others))
			for _, o := range ranking.Prediction.Others {
				got = append(got, o.Disease)
			}
			assert.Equal(t, tt.wantOthers, got)
		})
	}
}

func TestRankErrors(t *testing.T) {
	dec := labels("A", "B")
	policy := predict.DefaultPolicy()

	t.Run("vector length", func(t *testing.T) {
		clf := &fixedClassifier{features: 3, probs: []float64{0.9, 0.1}}
		_, err := predict.Rank(clf, dec, []float64{1, 0}, policy)
		assert.ErrorIs(t, err, predict.ErrShapeMismatch)
	})

	t.Run("classifier failure", func(t *testing.T) {
		boom := errors.New("boom")
		clf := &fixedClassifier{features: 2, probs: []float64{0.9, 0.1}, err: boom}
		_, err := predict.Rank(clf, dec, []float64{1, 0}, policy)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("negative probability", func(t *testing.T) {
		clf := &fixedClassifier{features: 2, probs: []float64{1.1, -0.1}}
		_, err := predict.Rank(clf, dec, []float64{1, 0}, policy)
		assert.ErrorIs(t, err, predict.ErrBadScores)
	})

	t.Run("label outside decoder", func(t *testing.T) {
		clf := &fixedClassifier{features: 2, probs: []float64{0.1, 0.1, 0.8}}
		_, err := predict.Rank(clf, dec, []float64{1, 0}, policy)
		assert.ErrorIs(t, err, model.ErrUnknownLabel)
	})
}

func TestRankNeverReportsBelowThreshold(t *testing.T) {
	const nLabels = 8
	names := make([]string, nLabels)
	for i := range names {
		names[i] = fmt.Sprintf("disease-%d", i)
	}
	dec := labels(names...)
	policy := predict.DefaultPolicy()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		probs := make([]float64, nLabels)
		var sum float64
		for j := range probs {
			// Skew some draws so both outcomes are exercised.
			probs[j] = rng.Float64()
			if j == i%nLabels {
				probs[j] *= float64(rng.Intn(40) + 1)
			}
			sum += probs[j]
		}
		for j := range probs {
			probs[j] /= sum
		}

		clf := &fixedClassifier{features: 3, probs: probs}
		ranking, err := predict.Rank(clf, dec, []float64{0, 1, 0}, policy)
		require.NoError(t, err)

		if ranking.LowConfidence() {
			assert.Less(t, ranking.Top[0].Confidence, policy.MinConfidence)
			continue
		}
		p := ranking.Prediction
		assert.GreaterOrEqual(t, p.Confidence, policy.MinConfidence)
		for _, o := range p.Others {
			assert.NotEqual(t, p.Disease, o.Disease)
			assert.LessOrEqual(t, o.Confidence, p.Confidence)
			assert.LessOrEqual(t, p.Confidence-o.Confidence, policy.MaxGap+1e-6)
		}
	}
}

func TestEnginePredict(t *testing.T) {
	dec := labels("Fungal infection", "Allergy", "GERD", "Acne")

	t.Run("predicts with close competitor", func(t *testing.T) {
		clf := &fixedClassifier{features: 3, probs: []float64{0.82, 0.70, 0.10, 0.05}}
		e := newEngine(t, clf, dec)

		res, err := e.Predict([]string{"itchin", "skin rash", "nodal skin eruption"})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 1, 1}, clf.last)
		assert.Equal(t, predict.StatusPredicted, res.Status)
		assert.Equal(t, "Fungal infection", res.Disease)
		assert.InDelta(t, 82.0, res.Confidence, 1e-9)
		require.Len(t, res.Others, 1)
		assert.Equal(t, "Allergy", res.Others[0].Disease)
		assert.InDelta(t, 70.0, res.Others[0].Confidence, 1e-9)
	})

	t.Run("single symptom below confidence", func(t *testing.T) {
		clf := &fixedClassifier{features: 3, probs: []float64{0.60, 0.20, 0.15, 0.05}}
		e := newEngine(t, clf, dec)

		res, err := e.Predict([]string{"itchin"})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 0, 0}, clf.last)
		assert.Equal(t, predict.StatusLowConfidence, res.Status)
		assert.Empty(t, res.Disease)
		assert.Empty(t, res.Others)
	})

	t.Run("unknown symptom", func(t *testing.T) {
		clf := &fixedClassifier{features: 3, probs: []float64{0.9, 0.05, 0.03, 0.02}}
		e := newEngine(t, clf, dec)

		res, err := e.Predict([]string{"zzzznotasymptom"})
		require.NoError(t, err)
		assert.Equal(t, predict.StatusSymptomNotFound, res.Status)
		require.NotNil(t, res.Unresolved)
		assert.Equal(t, "zzzznotasymptom", res.Unresolved.Input)
		assert.Less(t, res.Unresolved.Score, 70)
		assert.Empty(t, res.Disease)
		assert.Nil(t, clf.last, "classifier must not be called")
	})

	t.Run("lenient mode predicts on the remainder", func(t *testing.T) {
		clf := &fixedClassifier{features: 3, probs: []float64{0.9, 0.05, 0.03, 0.02}}
		e := newEngine(t, clf, dec, func(p *predict.Policy) { p.Strict = false })

		res, err := e.Predict([]string{"itching", "zzzznotasymptom"})
		require.NoError(t, err)
		assert.Equal(t, predict.StatusPredicted, res.Status)
		assert.Len(t, res.Skipped, 1)
		assert.Equal(t, []string{"itching"}, res.Symptoms)
	})

	t.Run("too many symptoms", func(t *testing.T) {
		clf := &fixedClassifier{features: 3, probs: []float64{0.9, 0.05, 0.03, 0.02}}
		e := newEngine(t, clf, dec, func(p *predict.Policy) { p.MaxSymptoms = 2 })

		_, err := e.Predict([]string{"itching", "skin rash", "nodal skin eruptions"})
		assert.ErrorIs(t, err, predict.ErrTooManySymptoms)
	})

	t.Run("classifier failure surfaces", func(t *testing.T) {
		clf := &fixedClassifier{features: 3, probs: []float64{0.9, 0.1}, err: model.ErrShapeMismatch}
		e := newEngine(t, clf, dec)

		_, err := e.Predict([]string{"itching"})
		assert.ErrorIs(t, err, model.ErrShapeMismatch)
	})
}

func TestNewEngineRejectsShapeMismatch(t *testing.T) {
	clf := &fixedClassifier{features: 4, probs: []float64{1}}
	_, err := predict.NewEngine(skinVocab, clf, labels("A"), predict.DefaultPolicy())
	assert.ErrorIs(t, err, predict.ErrShapeMismatch)

	_, err = predict.NewEngine([]string{"a", "a"}, &fixedClassifier{features: 2, probs: []float64{1}}, labels("A"), predict.DefaultPolicy())
	assert.Error(t, err)

	bad := predict.DefaultPolicy()
	bad.TopK = 0
	_, err = predict.NewEngine(skinVocab, &fixedClassifier{features: 3, probs: []float64{1}}, labels("A"), bad)
	assert.Error(t, err)
}

func TestEngineWithBundle(t *testing.T) {
	m, err := model.Load("../model/testdata/bundle.json")
	require.NoError(t, err)

	e, err := predict.NewEngine(m.Vocabulary, m.Classifier, m.Decoder, predict.DefaultPolicy())
	require.NoError(t, err)

	res, err := e.Predict([]string{"itching", "skin rash", "nodal skin eruptions"})
	require.NoError(t, err)
	assert.Equal(t, predict.StatusPredicted, res.Status)
	assert.Equal(t, "Fungal infection", res.Disease)
	assert.Empty(t, res.Others)

	res, err = e.Predict([]string{"itching"})
	require.NoError(t, err)
	assert.Equal(t, predict.StatusLowConfidence, res.Status)
}

func TestSuggest(t *testing.T) {
	clf := &fixedClassifier{features: 3, probs: []float64{1}}
	e := newEngine(t, clf, labels("A"))

	assert.Equal(t, skinVocab, e.Suggest("", 0))
	assert.Equal(t, skinVocab[:2], e.Suggest("", 2))

	got := e.Suggest("skin", 10)
	assert.Contains(t, got, "skin_rash")
	assert.Contains(t, got, "nodal_skin_eruptions")
	assert.NotContains(t, got, "itching")

	got = e.Suggest("skin rash", 10)
	require.NotEmpty(t, got)
	assert.Equal(t, "skin_rash", got[0])

	assert.Len(t, e.Suggest("s", 1), 1)
}
