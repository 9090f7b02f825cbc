/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelforge/enginecore/pkg/engineapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the administrative HTTP API server",
	Long: `Start enginecore's administrative HTTP API: the type registry dump,
the asset store's PUT/GET surface, the schedule plan/execute endpoints and
Prometheus metrics.

Examples:
  enginectl serve
  enginectl serve --config ./custom-config.yaml --port 9000`,
	Run: func(cmd *cobra.Command, args []string) {
		c, cfg, err := loadContainer(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer c.Close()

		port, _ := cmd.Flags().GetInt("port")
		if port != 0 {
			cfg.Port = port
		}
		bind, _ := cmd.Flags().GetString("bind")
		if bind != "" {
			cfg.Bind = bind
		}

		serverConfig := engineapi.ServerConfig{
			Port:   cfg.Port,
			Bind:   cfg.Bind,
			APIKey: cfg.Security.AdminAPIKey,
		}

		if err := engineapi.StartServer(c.APIDeps(), serverConfig); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Port to listen on (default: config's port)")
	serveCmd.Flags().String("bind", "", "Address to bind to (default: config's bind)")
}
