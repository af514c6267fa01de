package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	e, cleanup, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.run(context.Background(), e)
}

func (c *PruneCommand) run(ctx context.Context, e *env) error {
	age, err := parseDuration(c.OlderThan)
	if err != nil {
		return fmt.Errorf("invalid --older-than value: %w", err)
	}
	cutoff := e.today().Add(-age)

	var n int64
	if c.DryRun {
		n, err = e.store.CountBefore(ctx, cutoff)
	} else {
		n, err = e.store.PruneBefore(ctx, cutoff)
	}
	if err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"dry_run": c.DryRun,
			"cutoff":  cutoff.UTC().Format(time.RFC3339),
			"count":   n,
		})
	}

	if c.DryRun {
		fmt.Printf("Would prune %d enquiries older than %s.\n", n, formatDurationHuman(age))
		return nil
	}
	fmt.Printf("Pruned %d enquiries older than %s.\n", n, formatDurationHuman(age))
	return nil
}
