package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// entityView is the JSON/table projection of an entity — a plain,
// exported-field struct rather than *entity itself, since entity
// embeds reflect.Base and stores Aka/Tags/Links as []any (the shape
// pkg/databind's vector codec produces), neither of which is a display
// format worth exposing directly.
type entityView struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Aka       []string  `json:"aka,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Details   string    `json:"details,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Links     []string  `json:"links,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func viewOf(e *entity) entityView {
	return entityView{
		ID:        e.ID,
		Kind:      string(e.Kind()),
		Name:      e.Name,
		Aka:       anyToStrings(e.Aka),
		Summary:   e.Summary,
		Details:   e.Details,
		Tags:      anyToStrings(e.Tags),
		Links:     anyToStrings(e.Links),
		CreatedAt: time.Unix(int64(e.CreatedAt), 0).UTC(),
		UpdatedAt: time.Unix(int64(e.UpdatedAt), 0).UTC(),
	}
}

func outputEntity(e *entity) error {
	if cliConfig.Format == "json" {
		return outputJSON(viewOf(e))
	}
	return outputEntityTable(viewOf(e))
}

func outputEntities(entities []*entity) error {
	views := make([]entityView, len(entities))
	for i, e := range entities {
		views[i] = viewOf(e)
	}
	if cliConfig.Format == "json" {
		return outputJSON(views)
	}
	return outputEntitiesTable(views)
}

func outputEntityTable(v entityView) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID:\t%s\n", v.ID)
	fmt.Fprintf(w, "Kind:\t%s\n", v.Kind)
	fmt.Fprintf(w, "Name:\t%s\n", v.Name)
	if len(v.Aka) > 0 {
		fmt.Fprintf(w, "AKA:\t%s\n", strings.Join(v.Aka, ", "))
	}
	if v.Summary != "" {
		fmt.Fprintf(w, "Summary:\t%s\n", v.Summary)
	}
	if v.Details != "" {
		fmt.Fprintf(w, "Details:\t%s\n", v.Details)
	}
	if len(v.Tags) > 0 {
		fmt.Fprintf(w, "Tags:\t%s\n", strings.Join(v.Tags, ", "))
	}
	if len(v.Links) > 0 {
		fmt.Fprintf(w, "Links:\t%d relationships\n", len(v.Links))
	}
	fmt.Fprintf(w, "Created:\t%s\n", v.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Updated:\t%s\n", v.UpdatedAt.Format(time.RFC3339))
	return nil
}

func outputEntitiesTable(views []entityView) error {
	if len(views) == 0 {
		fmt.Println("No entities found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "ID\tNAME\tKIND\tSUMMARY\tTAGS\tUPDATED")

	for _, v := range views {
		summary := v.Summary
		if len(summary) > 50 {
			summary = summary[:47] + "..."
		}
		tags := strings.Join(v.Tags, ", ")
		if len(tags) > 30 {
			tags = tags[:27] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Name, v.Kind, summary, tags, v.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
