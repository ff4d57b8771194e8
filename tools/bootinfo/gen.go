package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newGenCmd() *cobra.Command {
	var configPath, outPath string

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Encode a boot information block described by a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadBlobConfig(configPath)
			if err != nil {
				return err
			}

			data := encodeBlob(cfg)
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write block: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML or TOML file describing the block")
	cmd.Flags().StringVar(&outPath, "out", "info.bin", "output file")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
