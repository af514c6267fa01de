package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	e, cleanup, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.run(context.Background(), e)
}

func (c *PurgeCommand) run(ctx context.Context, e *env) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("⚠ WARNING: This will permanently delete ALL local enquiry data.")
		fmt.Println("  - Enquiries stored by the local backend")
		fmt.Println("  - Cached fetch snapshots")
		fmt.Println("  - The audit log")
		fmt.Println()
		fmt.Println("This action cannot be undone.")
		fmt.Println()

		ok, err := confirm(e.in, `Type "PURGE" to confirm: `, "PURGE")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	if err := e.store.PurgeAll(ctx); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"purged":  true,
			"message": "all data deleted",
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Println("Purged all data. The local store is empty.")
	return nil
}
