package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

// Execute implements the go-flags Commander interface for SetStatusCommand.
func (c *SetStatusCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for set-status command")
	}
	if c.Status == "" {
		return fmt.Errorf("--status is required for set-status command")
	}

	e, cleanup, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.run(context.Background(), e)
}

// run sends the update and then refetches whether or not it succeeded, so
// the cached collection reflects what the backend actually holds.
func (c *SetStatusCommand) run(ctx context.Context, e *env) error {
	st, err := enquiry.ParseStatus(c.Status)
	if err != nil {
		return err
	}

	updateErr := e.api.UpdateStatus(ctx, c.ID, st)
	col, fetchErr := fetch(ctx, e, enquiry.StatusAll)
	if fetchErr != nil {
		e.log.WithError(fetchErr).Warn("refetch after status update failed")
	}

	if updateErr != nil {
		return fmt.Errorf("failed to update status: %w", updateErr)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{"id": c.ID, "status": st}
		if col != nil {
			out["stats"] = col.Stats
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Printf("Status of %s set to %s.\n", c.ID, st.Label())
	if col != nil {
		printStatsLine(col.Stats)
	}
	return nil
}
