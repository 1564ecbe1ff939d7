package predict

import "fmt"

// BuildVector one-hot encodes symptoms in vocabulary order.
func BuildVector(symptoms []string, vocab []string) ([]float64, error) {
	index := make(map[string]int, len(vocab))
	for i, v := range vocab {
		index[v] = i
	}
	return buildVector(symptoms, index, len(vocab))
}

func buildVector(symptoms []string, index map[string]int, size int) ([]float64, error) {
	vec := make([]float64, size)
	for _, s := range symptoms {
		i, ok := index[s]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSymptom, s)
		}
		vec[i] = 1
	}
	return vec, nil
}
