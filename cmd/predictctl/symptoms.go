package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSymptomsCmd(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "symptoms [query]",
		Short: "List vocabulary symptoms, ranked against an optional query",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := flags.load(cmd)
			if err != nil {
				return err
			}
			for _, s := range res.Engine.Suggest(strings.Join(args, " "), limit) {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of symptoms to print (0 for all)")
	return cmd
}
