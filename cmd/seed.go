/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/adminboard/apiserver/config"
	"github.com/adminboard/apiserver/internal/server"
	"github.com/spf13/cobra"
)

// seedCmd represents the seed command.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Inspect the demonstration data loaded at startup",
}

var seedPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the seed that the server would load, as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		seed, err := server.LoadSeed(cfg.Store)
		if err != nil {
			return fmt.Errorf("load seed: %w", err)
		}
		data, err := seed.Marshal()
		if err != nil {
			return fmt.Errorf("marshal seed: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedPrintCmd)
}
