package main

import (
	"fmt"

	"github.com/danmuck/cpmdl/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cpmdl %s\n", version.Get(cmd.Context(), a.runner))
		},
	}
}
