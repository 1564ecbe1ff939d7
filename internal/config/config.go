package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Skufu/PredictNCure/internal/info"
	"github.com/Skufu/PredictNCure/internal/predict"
)

type Config struct {
	Port        string
	GinMode     string
	DatabaseURL string
	EnableDB    bool
	AdminToken  string

	ModelPath  string
	VocabPath  string
	PolicyPath string
	InfoDir    string
	InfoFiles  info.Sources

	// MinSymptoms is enforced at the request boundary only; the ranker itself
	// accepts any non-empty set.
	MinSymptoms int
	Policy      predict.Policy
}

// Load reads .env (if present) and the process environment. A YAML policy
// file, when configured, overrides the built-in thresholds; STRICT_MATCH and
// MIN_SYMPTOMS override both.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "release"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		EnableDB:    strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
		AdminToken:  os.Getenv("ADMIN_TOKEN"),
		ModelPath:   getEnv("MODEL_PATH", "data/disease_model.json"),
		VocabPath:   os.Getenv("VOCAB_PATH"),
		PolicyPath:  os.Getenv("POLICY_PATH"),
		InfoDir:     getEnv("INFO_DIR", "data"),
		Policy:      predict.DefaultPolicy(),
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	cfg.InfoFiles = info.DefaultSources(cfg.InfoDir)
	for cat, key := range map[info.Category]string{
		info.Medications: "MEDICATIONS_PATH",
		info.Diets:       "DIETS_PATH",
		info.Precautions: "PRECAUTIONS_PATH",
		info.Workout:     "WORKOUT_PATH",
	} {
		if v := os.Getenv(key); v != "" {
			cfg.InfoFiles[cat] = v
		}
	}

	if cfg.PolicyPath != "" {
		p, err := LoadPolicy(cfg.PolicyPath, cfg.Policy)
		if err != nil {
			return nil, err
		}
		cfg.Policy = p
	}

	if v := os.Getenv("STRICT_MATCH"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("STRICT_MATCH: %w", err)
		}
		cfg.Policy.Strict = strict
	}

	minSymptoms, err := strconv.Atoi(getEnv("MIN_SYMPTOMS", "3"))
	if err != nil {
		return nil, fmt.Errorf("MIN_SYMPTOMS: %w", err)
	}
	cfg.MinSymptoms = minSymptoms

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if c.MinSymptoms < 1 || c.MinSymptoms > c.Policy.MaxSymptoms {
		return fmt.Errorf("MIN_SYMPTOMS must be within 1..%d, got %d", c.Policy.MaxSymptoms, c.MinSymptoms)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	c.ModelPath = filepath.Clean(c.ModelPath)
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
