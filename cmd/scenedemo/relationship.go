package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var relationshipCmd = &cobra.Command{
	Use:   "relationship",
	Short: "Manage relationships between entities",
	Long:  `Create, list and remove directed relationships between reference notes.`,
}

var relationshipCreateCmd = &cobra.Command{
	Use:   "create <from_kind>:<from_id> <relation> <to_kind>:<to_id>",
	Short: "Create a relationship between two entities",
	Long: `Create a relationship between two entities. The relationship is stored
as a link on the source entity's Links field.

Examples:
  scenedemo relationship create character:john-doe friend character:jane-smith
  scenedemo relationship create character:john-doe located_in place:winterfell`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromKind, fromID, err := parseEntitySpec(args[0])
		if err != nil {
			return fmt.Errorf("invalid from entity: %w", err)
		}
		relation := args[1]
		toKind, toID, err := parseEntitySpec(args[2])
		if err != nil {
			return fmt.Errorf("invalid to entity: %w", err)
		}

		if !sceneDB.EntityExists(toKind, toID) {
			return fmt.Errorf("target entity %s:%s does not exist", toKind, toID)
		}

		from, err := sceneDB.GetEntity(fromKind, fromID)
		if err != nil {
			return err
		}

		l := link{Kind: toKind, ID: toID, Relation: relation}
		for _, raw := range anyToStrings(from.Links) {
			if raw == l.String() {
				return fmt.Errorf("relationship already exists")
			}
		}
		from.Links = append(from.Links, l.String())

		if err := sceneDB.PutEntity(from); err != nil {
			return fmt.Errorf("failed to create relationship: %w", err)
		}
		if !cliConfig.Quiet {
			fmt.Printf("Created relationship: %s:%s --[%s]--> %s:%s\n", fromKind, fromID, relation, toKind, toID)
		}
		return nil
	},
}

var relationshipListCmd = &cobra.Command{
	Use:   "list <kind>:<id>",
	Short: "List all relationships for an entity",
	Long: `List all relationships (outgoing and incoming) for a given entity.

Examples:
  scenedemo relationship list character:john-doe`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id, err := parseEntitySpec(args[0])
		if err != nil {
			return err
		}
		e, err := sceneDB.GetEntity(kind, id)
		if err != nil {
			return err
		}
		incoming, err := sceneDB.FindReferencing(kind, id)
		if err != nil {
			return err
		}

		fmt.Printf("Entity: %s:%s (%s)\n", kind, id, e.Name)
		if e.Summary != "" {
			fmt.Printf("Summary: %s\n", e.Summary)
		}
		fmt.Println()

		outgoing := anyToStrings(e.Links)
		if len(outgoing) > 0 {
			fmt.Println("Outgoing relationships:")
			for _, raw := range outgoing {
				l, err := parseLink(raw)
				if err != nil {
					continue
				}
				fmt.Printf("  --[%s]--> %s:%s\n", l.Relation, l.Kind, l.ID)
			}
		} else {
			fmt.Println("No outgoing relationships")
		}
		fmt.Println()

		if len(incoming) > 0 {
			fmt.Println("Incoming relationships:")
			for _, r := range incoming {
				fmt.Printf("  <--[%s]-- %s:%s\n", r.Link.Relation, r.From.Kind(), r.From.ID)
			}
		} else {
			fmt.Println("No incoming relationships")
		}
		return nil
	},
}

var relationshipDeleteCmd = &cobra.Command{
	Use:   "delete <from_kind>:<from_id> <relation> <to_kind>:<to_id>",
	Short: "Delete a relationship between two entities",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromKind, fromID, err := parseEntitySpec(args[0])
		if err != nil {
			return fmt.Errorf("invalid from entity: %w", err)
		}
		relation := args[1]
		toKind, toID, err := parseEntitySpec(args[2])
		if err != nil {
			return fmt.Errorf("invalid to entity: %w", err)
		}

		if !cliConfig.Yes {
			fmt.Printf("Are you sure you want to delete the relationship %s:%s --[%s]--> %s:%s? (y/N): ",
				fromKind, fromID, relation, toKind, toID)
			var response string
			fmt.Scanln(&response)
			if strings.ToLower(response) != "y" && strings.ToLower(response) != "yes" {
				fmt.Println("Deletion cancelled")
				return nil
			}
		}

		from, err := sceneDB.GetEntity(fromKind, fromID)
		if err != nil {
			return err
		}
		target := (link{Kind: toKind, ID: toID, Relation: relation}).String()
		var kept []string
		found := false
		for _, raw := range anyToStrings(from.Links) {
			if raw == target {
				found = true
				continue
			}
			kept = append(kept, raw)
		}
		if !found {
			return fmt.Errorf("relationship not found")
		}
		from.Links = stringsToAny(kept)

		if err := sceneDB.PutEntity(from); err != nil {
			return fmt.Errorf("failed to delete relationship: %w", err)
		}
		if !cliConfig.Quiet {
			fmt.Printf("Deleted relationship: %s:%s --[%s]--> %s:%s\n", fromKind, fromID, relation, toKind, toID)
		}
		return nil
	},
}

func parseEntitySpec(spec string) (entityKind, string, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid entity specification: %s (expected format: kind:id)", spec)
	}
	kind, err := parseKind(parts[0])
	if err != nil {
		return "", "", err
	}
	return kind, parts[1], nil
}

func init() {
	relationshipCmd.AddCommand(relationshipCreateCmd)
	relationshipCmd.AddCommand(relationshipListCmd)
	relationshipCmd.AddCommand(relationshipDeleteCmd)
}
