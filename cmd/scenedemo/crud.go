package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newKindCommands builds the create/get/list/update/delete subcommand
// tree shared by character, place and group — the three registered
// classes differ only in their name, so the CRUD wiring around them is
// generated once instead of copy-pasted three times.
func newKindCommands(kind entityKind) *cobra.Command {
	use := strings.ToLower(string(kind))
	parent := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Manage %ss", use),
	}

	create := &cobra.Command{
		Use:   "create <name> [flags]",
		Short: fmt.Sprintf("Create a new %s", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			e, err := newEntity(kind, sceneDB.registry, name)
			if err != nil {
				return err
			}
			e.Summary, _ = cmd.Flags().GetString("summary")
			e.Details, _ = cmd.Flags().GetString("details")
			e.Aka = stringsToAny(splitCSV(mustFlag(cmd, "aka")))
			e.Tags = stringsToAny(splitCSV(mustFlag(cmd, "tags")))

			if err := sceneDB.PutEntity(e); err != nil {
				return fmt.Errorf("failed to create %s: %w", use, err)
			}
			if !cliConfig.Quiet {
				fmt.Printf("Created %s %q with ID %q\n", use, name, e.ID)
			}
			return nil
		},
	}
	create.Flags().String("summary", "", use+" summary")
	create.Flags().String("aka", "", "Alternative names (comma-separated)")
	create.Flags().String("tags", "", "Tags (comma-separated)")
	create.Flags().String("details", "", "Detailed description")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Get a %s by ID", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := sceneDB.GetEntity(kind, args[0])
			if err != nil {
				return err
			}
			return outputEntity(e)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %ss", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			entities, err := sceneDB.ListEntities(kind)
			if err != nil {
				return err
			}
			return outputEntities(entities)
		},
	}

	update := &cobra.Command{
		Use:   "update <id> [flags]",
		Short: fmt.Sprintf("Update a %s", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := sceneDB.GetEntity(kind, args[0])
			if err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetString("summary"); v != "" {
				e.Summary = v
			}
			if v, _ := cmd.Flags().GetString("aka"); v != "" {
				e.Aka = stringsToAny(splitCSV(v))
			}
			if v, _ := cmd.Flags().GetString("tags"); v != "" {
				e.Tags = stringsToAny(splitCSV(v))
			}
			if v, _ := cmd.Flags().GetString("details"); v != "" {
				e.Details = v
			}
			if err := sceneDB.PutEntity(e); err != nil {
				return fmt.Errorf("failed to update %s: %w", use, err)
			}
			if !cliConfig.Quiet {
				fmt.Printf("Updated %s %q\n", use, args[0])
			}
			return nil
		},
	}
	update.Flags().String("summary", "", use+" summary")
	update.Flags().String("aka", "", "Alternative names (comma-separated)")
	update.Flags().String("tags", "", "Tags (comma-separated)")
	update.Flags().String("details", "", "Detailed description")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !cliConfig.Yes {
				fmt.Printf("Are you sure you want to delete %s %q? (y/N): ", use, id)
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" && strings.ToLower(response) != "yes" {
					fmt.Println("Deletion cancelled")
					return nil
				}
			}
			if err := sceneDB.DeleteEntity(kind, id); err != nil {
				return err
			}
			if !cliConfig.Quiet {
				fmt.Printf("Deleted %s %q\n", use, id)
			}
			return nil
		},
	}

	parent.AddCommand(create, get, list, update, del)
	return parent
}

func mustFlag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
