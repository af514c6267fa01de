package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

// statsJSON is the JSON output structure for the stats command.
type statsJSON struct {
	Version string        `json:"version"`
	Filter  string        `json:"filter"`
	Stats   enquiry.Stats `json:"stats"`
	Stale   bool          `json:"stale"`
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	e, cleanup, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.run(context.Background(), e)
}

func (c *StatsCommand) run(ctx context.Context, e *env) error {
	filter, err := enquiry.ParseStatusFilter(c.Status)
	if err != nil {
		return fmt.Errorf("--status: %w", err)
	}

	col, err := fetch(ctx, e, filter)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statsJSON{Version: c.version, Filter: string(filter), Stats: col.Stats, Stale: col.Stale})
	}

	fmt.Println("Project Enquiries")
	fmt.Println("=================")
	fmt.Printf("%-14s %s\n", "Total:", formatNumber(col.Stats.Total))
	for _, st := range enquiry.Statuses() {
		n := col.Stats.Count(st)
		if col.Stats.Total > 0 {
			pct := float64(n) / float64(col.Stats.Total) * 100
			fmt.Printf("%-14s %s (%.1f%%)\n", st.Label()+":", formatNumber(n), pct)
		} else {
			fmt.Printf("%-14s %s\n", st.Label()+":", formatNumber(n))
		}
	}
	if col.Stale {
		fmt.Println()
		fmt.Println("Backend unavailable: counts are from the last successful fetch.")
	}
	return nil
}
