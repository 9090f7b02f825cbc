/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kestrelforge/enginecore/pkg/config"
)

const unitName = "enginecore.service"

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage enginecore as a systemd service",
	Long: `Manage enginecore as a systemd service, for production deployments
where the administrative API and scheduler should run under supervision
with automatic restart on failure.`,
}

var installServiceCmd = &cobra.Command{
	Use:   "install",
	Short: "Install enginecore as a systemd service",
	Long: `Install enginecore as a systemd service.

This will:
- Create or reuse an existing configuration file
- Generate a systemd unit file
- Enable and optionally start the service

Examples:
  enginectl service install
  enginectl service install --data-dir /var/lib/enginecore --user enginecore`,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		configPath, _ := cmd.Flags().GetString("config")
		user, _ := cmd.Flags().GetString("user")
		port, _ := cmd.Flags().GetInt("port")
		startNow, _ := cmd.Flags().GetBool("start")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if os.Geteuid() != 0 {
			cmd.Printf("Error: service install requires root privileges\n")
			cmd.Printf("Run with: sudo enginectl service install\n")
			os.Exit(1)
		}

		cmd.Printf("Installing enginecore systemd service...\n")

		var cfg *config.Config
		var err error

		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				cmd.Printf("Error loading config: %v\n", err)
				os.Exit(1)
			}
			cmd.Printf("Loaded existing configuration\n")
		} else {
			cfg, err = config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				cmd.Printf("Error bootstrapping config: %v\n", err)
				os.Exit(1)
			}
			cmd.Printf("Created new configuration at %s\n", configPath)
		}

		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if port != 8080 {
			cfg.Port = port
		}

		if err := config.SaveConfig(cfg, configPath); err != nil {
			cmd.Printf("Error saving config: %v\n", err)
			os.Exit(1)
		}

		if err := createSystemdUnit(cfg, configPath, user); err != nil {
			cmd.Printf("Error creating systemd unit: %v\n", err)
			os.Exit(1)
		}

		if err := runSystemctlCommand("daemon-reload"); err != nil {
			cmd.Printf("Error reloading systemd: %v\n", err)
			os.Exit(1)
		}

		if err := runSystemctlCommand("enable", unitName); err != nil {
			cmd.Printf("Error enabling service: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Service enabled successfully\n")

		if startNow {
			if err := runSystemctlCommand("start", unitName); err != nil {
				cmd.Printf("Error starting service: %v\n", err)
				os.Exit(1)
			}
			cmd.Printf("Service started successfully\n")
		}

		cmd.Printf("\nenginecore service installed.\n")
		cmd.Printf("Service: %s\n", unitName)
		cmd.Printf("Config: %s\n", configPath)
		cmd.Printf("Data: %s\n", cfg.DataDir)
		cmd.Printf("Port: %d\n", cfg.Port)

		if !startNow {
			cmd.Printf("\nTo start the service: sudo systemctl start %s\n", unitName)
		}
		cmd.Printf("To check status: sudo systemctl status %s\n", unitName)
		cmd.Printf("To view logs: sudo journalctl -u %s -f\n", unitName)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the enginecore service",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSystemctlCommand("start", unitName); err != nil {
			cmd.Printf("Error starting service: %v\n", err)
			os.Exit(1)
		}
		cmd.Printf("enginecore service started\n")
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the enginecore service",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSystemctlCommand("stop", unitName); err != nil {
			cmd.Printf("Error stopping service: %v\n", err)
			os.Exit(1)
		}
		cmd.Printf("enginecore service stopped\n")
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the enginecore service",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSystemctlCommand("restart", unitName); err != nil {
			cmd.Printf("Error restarting service: %v\n", err)
			os.Exit(1)
		}
		cmd.Printf("enginecore service restarted\n")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show enginecore service status",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSystemctlCommand("status", unitName); err != nil {
			cmd.Printf("Error getting service status: %v\n", err)
			os.Exit(1)
		}
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show enginecore service logs",
	Long: `Show enginecore service logs using journalctl.

Examples:
  enginectl service logs
  enginectl service logs -f  # Follow logs`,
	Run: func(cmd *cobra.Command, args []string) {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("lines")

		journalArgs := []string{"-u", unitName}
		if follow {
			journalArgs = append(journalArgs, "-f")
		}
		if lines > 0 {
			journalArgs = append(journalArgs, fmt.Sprintf("-n%d", lines))
		}

		if err := runCommand("journalctl", journalArgs...); err != nil {
			cmd.Printf("Error getting service logs: %v\n", err)
			os.Exit(1)
		}
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the enginecore service",
	Run: func(cmd *cobra.Command, args []string) {
		if os.Geteuid() != 0 {
			cmd.Printf("Error: service uninstall requires root privileges\n")
			cmd.Printf("Run with: sudo enginectl service uninstall\n")
			os.Exit(1)
		}

		cmd.Printf("Uninstalling enginecore service...\n")

		_ = runSystemctlCommand("stop", unitName)

		if err := runSystemctlCommand("disable", unitName); err != nil {
			cmd.Printf("Warning: could not disable service: %v\n", err)
		}

		unitPath := "/etc/systemd/system/" + unitName
		if _, err := os.Stat(unitPath); err == nil {
			if err := os.Remove(unitPath); err != nil {
				cmd.Printf("Error removing unit file: %v\n", err)
				os.Exit(1)
			}
		}

		if err := runSystemctlCommand("daemon-reload"); err != nil {
			cmd.Printf("Error reloading systemd: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("enginecore service uninstalled\n")
		cmd.Printf("Note: configuration and data files were not removed\n")
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)

	serviceCmd.AddCommand(installServiceCmd)
	serviceCmd.AddCommand(startCmd)
	serviceCmd.AddCommand(stopCmd)
	serviceCmd.AddCommand(restartCmd)
	serviceCmd.AddCommand(statusCmd)
	serviceCmd.AddCommand(logsCmd)
	serviceCmd.AddCommand(uninstallCmd)

	installServiceCmd.Flags().String("data-dir", "/var/lib/enginecore", "Data directory for the service")
	installServiceCmd.Flags().String("config", "", "Path to config file")
	installServiceCmd.Flags().String("user", "enginecore", "User to run the service as")
	installServiceCmd.Flags().Int("port", 8080, "Port for the service")
	installServiceCmd.Flags().Bool("start", true, "Start the service after installation")

	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")
}

func createSystemdUnit(cfg *config.Config, configPath, user string) error {
	unitContent := fmt.Sprintf(`[Unit]
Description=enginecore administrative server
After=network-online.target
Wants=network-online.target

[Service]
User=%s
Group=%s
ExecStart=/usr/local/bin/enginectl serve --config %s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%s
ReadWritePaths=%s

[Install]
WantedBy=multi-user.target
`, user, user, configPath, cfg.DataDir, filepath.Dir(configPath))

	unitPath := "/etc/systemd/system/" + unitName
	return os.WriteFile(unitPath, []byte(unitContent), 0600)
}

func runSystemctlCommand(args ...string) error {
	return runCommand("systemctl", args...)
}

func runCommand(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
