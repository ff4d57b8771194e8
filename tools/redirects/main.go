// Command redirects wires the kernel's go:redirect-from annotated functions
// into a kernel image. The rt0 code patches each redirected Go runtime
// function with a jump to its replacement using the table written by
// populate-table.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootDir string

var rootCmd = &cobra.Command{
	Use:           "redirects",
	Short:         "Manage the kernel redirect table",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if matches, _ := filepath.Glob(filepath.Join(rootDir, "kernel")); len(matches) != 1 {
			return errors.New("this tool must be run from the kernel root folder")
		}
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of redirect table entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		redirects, err := findRedirects(rootDir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d", len(redirects))
		return nil
	},
}

var populateTableCmd = &cobra.Command{
	Use:   "populate-table <kernel image>",
	Short: "Resolve redirect targets and write the redirect table into a kernel image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		redirects, err := findRedirects(rootDir)
		if err != nil {
			return err
		}

		if err = elfResolveRedirectSymbols(redirects, args[0]); err != nil {
			return err
		}

		return elfWriteRedirectTable(redirects, args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "kernel root folder containing go.mod")
	rootCmd.AddCommand(countCmd, populateTableCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[redirects] error: %s\n", err.Error())
		os.Exit(1)
	}
}
