package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

// listJSON is the JSON output structure for the list command.
type listJSON struct {
	Leads     []enquiry.Lead `json:"leads"`
	Shown     int            `json:"shown"`
	Matched   int            `json:"matched"`
	Stats     enquiry.Stats  `json:"stats"`
	Stale     bool           `json:"stale"`
	FetchedAt string         `json:"fetched_at"`
}

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	e, cleanup, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.run(context.Background(), e)
}

func (c *ListCommand) run(ctx context.Context, e *env) error {
	criteria, err := c.criteria(e.location())
	if err != nil {
		return err
	}

	col, err := fetch(ctx, e, criteria.Status)
	if err != nil {
		return err
	}

	matched := enquiry.Filter(col.Leads, criteria, e.today())
	shown := matched
	if c.Limit > 0 && len(shown) > c.Limit {
		shown = shown[:c.Limit]
	}

	if c.globals != nil && c.globals.JSON {
		out := listJSON{
			Leads:     shown,
			Shown:     len(shown),
			Matched:   len(matched),
			Stats:     col.Stats,
			Stale:     col.Stale,
			FetchedAt: col.FetchedAt.UTC().Format(time.RFC3339),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if col.Stale {
		fmt.Printf("Showing enquiries last fetched %s (backend unavailable)\n\n", col.FetchedAt.In(e.location()).Format("2006-01-02 15:04"))
	}
	printStatsLine(col.Stats)
	fmt.Println()

	if len(shown) == 0 {
		fmt.Println("No enquiries match the current filters.")
		return nil
	}

	layout := dateLayout(e)
	for i, l := range shown {
		fmt.Printf("%d. %s [%s]\n", i+1, l.Name, l.Status.Label())
		fmt.Printf("   %s · %s\n", orDash(l.Email), orDash(l.Phone))

		meta := l.CreatedAt.In(e.location()).Format(layout)
		if l.Project != "" {
			meta += " · " + l.Project
		}
		if l.HasNote() {
			meta += " · has notes"
		}
		fmt.Printf("   %s · id %s\n", meta, l.ID)

		if i < len(shown)-1 {
			fmt.Println()
		}
	}

	if len(shown) < len(matched) {
		fmt.Printf("\nShowing %d of %d matching enquiries.\n", len(shown), len(matched))
	}
	return nil
}

func printStatsLine(s enquiry.Stats) {
	fmt.Printf("Total: %s  No Response: %s  Contacted: %s  Interested: %s  Converted: %s\n",
		formatNumber(s.Total), formatNumber(s.NotResponded), formatNumber(s.Contacted),
		formatNumber(s.Interested), formatNumber(s.Converted))
}

func dateLayout(e *env) string {
	if e.cfg != nil && e.cfg.Export.DateLayout != "" {
		return e.cfg.Export.DateLayout
	}
	return enquiry.DefaultDateLayout
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
