package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/mars-weather/internal/mars"
)

func newSolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sol <date>",
		Short: "Print the Martian sol for an Earth date",
		Long:  "Converts YYYY-MM-DD (midnight UTC) or an RFC 3339 timestamp to the sol counted from the Curiosity landing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := mars.ParseDate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mars.SolFor(ts))
			return nil
		},
	}
}
