package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

// Execute implements the go-flags Commander interface for NotesCommand.
func (c *NotesCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for notes command")
	}

	e, cleanup, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.run(context.Background(), e)
}

func (c *NotesCommand) run(ctx context.Context, e *env) error {
	col, err := fetch(ctx, e, enquiry.StatusAll)
	if err != nil {
		return err
	}

	lead, ok := findLead(col.Leads, c.ID)
	if !ok {
		return fmt.Errorf("enquiry not found: %s", c.ID)
	}

	if c.globals != nil && c.globals.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"id":             lead.ID,
			"name":           lead.Name,
			"specialEnquiry": lead.SpecialEnquiry,
		})
	}

	fmt.Printf("%s (%s)\n", lead.Name, orDash(lead.Email))
	if lead.Project != "" {
		fmt.Printf("Project: %s\n", lead.Project)
	}
	fmt.Println()
	if lead.HasNote() {
		fmt.Println(lead.SpecialEnquiry)
	} else {
		fmt.Println("No message")
	}
	return nil
}
