package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Skufu/PredictNCure/internal/app"
	"github.com/Skufu/PredictNCure/internal/config"
	"github.com/Skufu/PredictNCure/internal/info"
	"github.com/Skufu/PredictNCure/internal/predict"
)

type rootFlags struct {
	model   string
	vocab   string
	infoDir string
	policy  string
	verbose bool

	// set by predict --lenient
	lenient bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "predictctl",
		Short:         "Match symptoms and rank likely diseases",
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.model, "model", "data/disease_model.json", "Path to the model bundle")
	pf.StringVar(&flags.vocab, "vocab", "", "Symptom vocabulary file (must match the model's features)")
	pf.StringVar(&flags.infoDir, "info-dir", "data", "Directory holding the disease info tables")
	pf.StringVar(&flags.policy, "policy", "", "YAML file overriding the decision thresholds")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log resource loading to stderr")

	root.AddCommand(newPredictCmd(flags))
	root.AddCommand(newInfoCmd(flags))
	root.AddCommand(newSymptomsCmd(flags))
	return root
}

// load builds the engine and catalog from the persistent flags.
func (f *rootFlags) load(cmd *cobra.Command) (*app.Resources, error) {
	p := predict.DefaultPolicy()
	if f.policy != "" {
		var err error
		if p, err = config.LoadPolicy(f.policy, p); err != nil {
			return nil, err
		}
	}
	if f.lenient {
		p.Strict = false
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return app.Load(cmd.Context(), app.Options{
		ModelPath: f.model,
		VocabPath: f.vocab,
		InfoFiles: info.DefaultSources(f.infoDir),
		Policy:    p,
		Logger:    logger,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
