package enquiry

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// CSVContentType is the MIME type of an export.
const CSVContentType = "text/csv"

// DefaultDateLayout is the short en-US calendar date used in exports.
const DefaultDateLayout = "1/2/2006"

// exportHeader is the fixed column order of an export.
var exportHeader = []string{"Name", "Email", "Phone", "Project", "Special Enquiry", "Status", "Date"}

// QuoteMode selects how embedded double quotes are written.
type QuoteMode int

const (
	// QuoteEscaped doubles embedded quotes per RFC 4180.
	QuoteEscaped QuoteMode = iota
	// QuoteLegacy wraps fields in quotes without escaping, matching the
	// dashboard's historical output.
	QuoteLegacy
)

// ExportOptions controls date rendering and quoting.
type ExportOptions struct {
	DateLayout string
	Location   *time.Location
	Quote      QuoteMode
}

func (o ExportOptions) withDefaults() ExportOptions {
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// WriteCSV writes the header and one quoted row per lead. An empty slice
// produces the header line alone.
func WriteCSV(w io.Writer, leads []Lead, opts ExportOptions) error {
	opts = opts.withDefaults()
	bw := bufio.NewWriter(w)

	if err := writeRow(bw, exportHeader, opts.Quote); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, l := range leads {
		if err := writeRow(bw, exportRow(l, opts), opts.Quote); err != nil {
			return fmt.Errorf("write row %s: %w", l.ID, err)
		}
	}
	return bw.Flush()
}

// ExportCSV renders leads to a string.
func ExportCSV(leads []Lead, opts ExportOptions) string {
	var sb strings.Builder
	// strings.Builder never fails a write.
	_ = WriteCSV(&sb, leads, opts)
	return sb.String()
}

func exportRow(l Lead, opts ExportOptions) []string {
	return []string{
		l.Name,
		l.Email,
		l.Phone,
		placeholder(l.Project),
		placeholder(l.SpecialEnquiry),
		string(l.Status),
		l.CreatedAt.In(opts.Location).Format(opts.DateLayout),
	}
}

func placeholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func writeRow(w *bufio.Writer, fields []string, mode QuoteMode) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if mode == QuoteEscaped {
			f = strings.ReplaceAll(f, `"`, `""`)
		}
		if _, err := w.WriteString(`"` + f + `"`); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// ExportFilename names an export after the active filters and the current
// date: project-enquiries_<date><_status>_<YYYY-MM-DD>.csv.
func ExportFilename(c Criteria, now time.Time) string {
	status := ""
	if !c.Status.IsAll() {
		status = "_" + string(c.Status)
	}
	return fmt.Sprintf("project-enquiries_%s%s_%s.csv", dateLabel(c), status, now.Format("2006-01-02"))
}

func dateLabel(c Criteria) string {
	switch f := ParseDateFilter(string(c.Date)); f {
	case DateAll:
		return "all-time"
	case DateCustom:
		if c.Custom.Complete() {
			return c.Custom.Start.Format("2006-01-02") + "_to_" + c.Custom.End.Format("2006-01-02")
		}
		return string(f)
	default:
		return string(f)
	}
}
