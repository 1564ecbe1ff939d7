package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Skufu/PredictNCure/internal/predict"
)

// LoadPolicy overlays the YAML file at path onto base. Keys absent from the
// file keep their base value.
func LoadPolicy(path string, base predict.Policy) (predict.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read policy file: %w", err)
	}

	p := base
	if err := yaml.Unmarshal(data, &p); err != nil {
		return base, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return base, fmt.Errorf("policy file %s: %w", path, err)
	}
	return p, nil
}
