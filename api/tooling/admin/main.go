// This program performs administrative tasks for the reporting service.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var build = "develop"

func main() {
	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "Administrative tasks for the reporting service",
		Version:       build,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migratePINsCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(hashPINCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: "), err)
		os.Exit(1)
	}
}
