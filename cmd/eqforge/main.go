// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the eqforge CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the eqforge CLI.
var rootCmd = &cobra.Command{
	Use:   "eqforge",
	Short: "Batch-render LaTeX equations to SVG assets",
	Long: `eqforge renders a list of LaTeX equations into standalone SVG images by
driving an external typesetting engine (tectonic) and PDF-to-SVG converter
(pdftocairo). Output files are named by equation id; an existing SVG marks
its equation as already built, so re-runs only render new equations.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./eqforge.yaml or ~/.config/eqforge/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("eqforge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "eqforge"))
		}
	}

	viper.SetEnvPrefix("EQFORGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
