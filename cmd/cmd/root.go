package cmd

import (
	"github.com/fatforensics/fat16recover/internal/env"
	"github.com/spf13/cobra"
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   env.AppName,
		Short: env.AppName + " - FAT16 forensic recovery tool",
	}

	rootCmd.AddCommand(DefineScanCommand())
	rootCmd.AddCommand(DefineRecoverCommand())
	rootCmd.AddCommand(DefineMountCommand())

	return rootCmd.Execute()
}
