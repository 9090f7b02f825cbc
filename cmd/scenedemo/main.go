// Command scenedemo is a small worked example of the reflection and
// archive engines: character/place/group reference notes, the same
// domain the original lore tool tracked, backed here by a reflected
// Class schema, the binary archive format, and pkg/assetstore instead
// of free-form JSON over a raw key/value store.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

type demoConfig struct {
	ProjectDir string
	Format     string
	Quiet      bool
	Yes        bool
}

var (
	cliConfig demoConfig
	sceneDB   *SceneStore
	rootCmd   *cobra.Command
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "scenedemo",
		Short: "Manage reflected character/place/group reference notes",
		Long: `A worked example of the reflection and archive engines: create,
browse and update character, place and group reference notes, stored as
reflected Records archived through the binary wire format.

Examples:
  scenedemo character create "John Doe" --summary "A brave knight"
  scenedemo place list
  scenedemo group get merchants-guild`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			sceneDB, err = OpenSceneStore(filepath.Join(getProjectDir(), ".scenedemo"))
			if err != nil {
				return fmt.Errorf("failed to open scene store: %w", err)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if sceneDB != nil {
				return sceneDB.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cliConfig.ProjectDir, "project", "p", ".", "path to project directory")
	rootCmd.PersistentFlags().StringVarP(&cliConfig.Format, "format", "o", "table", "output format (table or json)")
	rootCmd.PersistentFlags().BoolVarP(&cliConfig.Quiet, "quiet", "q", false, "suppress non-essential messages")
	rootCmd.PersistentFlags().BoolVarP(&cliConfig.Yes, "yes", "y", false, "assume 'yes' for prompts")

	if cwd, err := os.Getwd(); err == nil {
		cliConfig.ProjectDir = cwd
	}

	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(placeCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(relationshipCmd)
}

func getProjectDir() string {
	if filepath.IsAbs(cliConfig.ProjectDir) {
		return cliConfig.ProjectDir
	}
	abs, err := filepath.Abs(cliConfig.ProjectDir)
	if err != nil {
		return cliConfig.ProjectDir
	}
	return abs
}
