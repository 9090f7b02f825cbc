/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelforge/enginecore/pkg/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Compute or run a task schedule",
}

var schedulePlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a schedule for --phase and print the resolved task order",
	Run: func(cmd *cobra.Command, args []string) {
		runSchedule(cmd, false)
	},
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute a schedule for --phase and execute it",
	Run: func(cmd *cobra.Command, args []string) {
		runSchedule(cmd, true)
	},
}

func runSchedule(cmd *cobra.Command, execute bool) {
	c, cfg, err := loadContainer(cmd)
	if err != nil {
		cmd.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	phase, _ := cmd.Flags().GetUint32("phase")
	if phase == 0 {
		phase = cfg.Scheduler.DefaultPhaseMask
	}

	if err := c.Scheduler.CalculateSchedule(scheduler.TickMask(phase)); err != nil {
		cmd.Printf("Error computing schedule: %v\n", err)
		os.Exit(1)
	}

	for _, name := range c.Scheduler.Schedule() {
		cmd.Println(name)
	}

	if execute {
		c.Scheduler.ExecuteSchedule(nil)
	}
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(schedulePlanCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)

	schedulePlanCmd.Flags().Uint32("phase", 0, "Phase bitmask (default: config's default_phase_mask)")
	scheduleRunCmd.Flags().Uint32("phase", 0, "Phase bitmask (default: config's default_phase_mask)")
}
