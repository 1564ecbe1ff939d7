package main

import (
	"github.com/spf13/cobra"

	"github.com/Skufu/PredictNCure/internal/info"
	"github.com/Skufu/PredictNCure/internal/predict"
)

type predictOutput struct {
	predict.Result
	Info *info.Details `json:"info,omitempty"`
}

func newPredictCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict <symptom>...",
		Short: "Predict a disease from free-text symptoms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := flags.load(cmd)
			if err != nil {
				return err
			}

			result, err := res.Engine.Predict(args)
			if err != nil {
				return err
			}

			out := predictOutput{Result: result}
			if result.Status == predict.StatusPredicted {
				details := res.Catalog.Lookup(result.Disease)
				out.Info = &details
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&flags.lenient, "lenient", false, "Skip unrecognised symptoms instead of failing")
	return cmd
}
