package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newInfoCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info <disease>",
		Short: "Show medications, diets, precautions and workouts for a disease",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res.Catalog.Lookup(strings.Join(args, " ")))
		},
	}
}
