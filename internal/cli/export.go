package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	e, cleanup, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.run(context.Background(), e)
}

func (c *ExportCommand) run(ctx context.Context, e *env) error {
	if c.Stdout && c.Out != "" {
		return fmt.Errorf("--stdout and --out are mutually exclusive")
	}

	criteria, err := c.criteria(e.location())
	if err != nil {
		return err
	}

	col, err := fetch(ctx, e, criteria.Status)
	if err != nil {
		return err
	}

	now := e.today()
	rows := enquiry.Filter(col.Leads, criteria, now)

	opts := enquiry.ExportOptions{
		DateLayout: dateLayout(e),
		Location:   e.location(),
	}
	if c.LegacyQuotes || (e.cfg != nil && e.cfg.Export.LegacyQuotes) {
		opts.Quote = enquiry.QuoteLegacy
	}

	if c.Stdout {
		return enquiry.WriteCSV(os.Stdout, rows, opts)
	}

	path := c.Out
	if path == "" {
		dir := "."
		if e.cfg != nil && e.cfg.Export.Dir != "" {
			dir = e.cfg.Export.Dir
		}
		path = filepath.Join(dir, enquiry.ExportFilename(criteria, now))
	}

	if err := writeExport(path, rows, opts); err != nil {
		return err
	}
	e.log.WithField("path", path).WithField("rows", len(rows)).Debug("export written")

	if c.globals != nil && c.globals.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"path":  path,
			"rows":  len(rows),
			"stale": col.Stale,
		})
	}

	fmt.Printf("Exported %d enquiries to %s\n", len(rows), path)
	return nil
}

func writeExport(path string, rows []enquiry.Lead, opts enquiry.ExportOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := enquiry.WriteCSV(f, rows, opts); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	return f.Close()
}
