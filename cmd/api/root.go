package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command of the API binary.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "travel-api",
		Short:         "Travel app authentication API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
