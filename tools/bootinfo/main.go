// Command bootinfo generates synthetic multiboot2 boot information blocks and
// renders the boot report that the kernel prints for them, without booting a
// virtual machine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bootinfo",
	Short: "Generate and inspect multiboot2 boot information blocks",
	Long: `bootinfo works with the boot information blocks that a multiboot2
compliant boot loader hands to the kernel.

Commands:
  gen       Encode a block described by a YAML/TOML file
  render    Print the boot report the kernel would display for a block`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newGenCmd(), newRenderCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[bootinfo] error: %s\n", err.Error())
		os.Exit(1)
	}
}
