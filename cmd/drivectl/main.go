package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/drivebox/cmd/drivectl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "drivectl",
		Short:        "Administration tools for drivebox",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.UsageCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
