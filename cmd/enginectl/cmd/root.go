/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelforge/enginecore/pkg/config"
	"github.com/kestrelforge/enginecore/pkg/di"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "enginectl",
	Short: "enginecore - reflection, archive and task scheduling toolchain",
	Long: `enginectl operates the type registry, the binary archive engine, the
asset store and the declarative task scheduler that make up enginecore.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
}

// loadContainer loads (bootstrapping if necessary) the configuration named
// by the --config flag and wires a fresh di.Container from it.
func loadContainer(cmd *cobra.Command) (*di.Container, *config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	var cfg *config.Config
	var err error
	if config.ConfigExists(configPath) {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.BootstrapConfig(configPath, "")
	}
	if err != nil {
		return nil, nil, err
	}

	c, err := di.NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}
