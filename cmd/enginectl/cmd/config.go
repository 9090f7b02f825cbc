/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelforge/enginecore/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage enginecore configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a configuration file with a generated admin API key",
	Long: `Create a new enginecore configuration file with a freshly generated
admin API key, mirroring this codebase's existing key-bootstrapping
convention.

Examples:
  enginectl config init
  enginectl config init --data-dir ./mydata --force`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
			return
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			cmd.Printf("Error bootstrapping config: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Configuration created at %s\n", configPath)
		cmd.Printf("Admin API key: %s\n", cfg.Security.AdminAPIKey)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().String("data-dir", "./data", "Data directory for the asset store")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}
