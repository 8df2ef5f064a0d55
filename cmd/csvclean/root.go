package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "csvclean",
		Short:         "Validate and normalize semicolon-delimited files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newCleanCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
