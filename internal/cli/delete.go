package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for delete command")
	}

	e, cleanup, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.run(context.Background(), e)
}

func (c *DeleteCommand) run(ctx context.Context, e *env) error {
	if !c.Force {
		ok, err := confirm(e.in, "Are you sure you want to delete this enquiry? [y/N]: ", "y")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("aborted: enquiry not deleted")
		}
	}

	deleteErr := e.api.Delete(ctx, c.ID)
	col, fetchErr := fetch(ctx, e, enquiry.StatusAll)
	if fetchErr != nil {
		e.log.WithError(fetchErr).Warn("refetch after delete failed")
	}

	if deleteErr != nil {
		return fmt.Errorf("failed to delete enquiry: %w", deleteErr)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{"id": c.ID, "deleted": true}
		if col != nil {
			out["stats"] = col.Stats
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Printf("Deleted enquiry %s.\n", c.ID)
	if col != nil {
		printStatsLine(col.Stats)
	}
	return nil
}
