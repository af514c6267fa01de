package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
	DBPath  string `long:"db-path" description:"Override the local SQLite database path"`
}

// CriteriaFlags are the dashboard filters shared by list, stats and export.
type CriteriaFlags struct {
	Status string `long:"status" description:"Status filter: all | not_responded | contacted | interested | converted" default:"all"`
	Search string `long:"search" description:"Case-insensitive match on name, email, phone or project"`
	Date   string `long:"date" description:"Date filter: all | today | tomorrow | week | month | year | custom" default:"all"`
	From   string `long:"from" description:"Custom range start (YYYY-MM-DD)"`
	To     string `long:"to" description:"Custom range end, inclusive (YYYY-MM-DD)"`
}

// ListCommand prints the filtered enquiry table.
type ListCommand struct {
	CriteriaFlags
	Limit int `long:"limit" description:"Maximum rows to print (0 = all)" default:"0"`

	globals *GlobalFlags
	version string
}

// StatsCommand prints the aggregate counts per status.
type StatsCommand struct {
	Status string `long:"status" description:"Status the collection was fetched with" default:"all"`

	globals *GlobalFlags
	version string
}

// ExportCommand writes the filtered enquiries as CSV.
type ExportCommand struct {
	CriteriaFlags
	Out          string `long:"out" description:"Output file (default: generated name in export.dir)"`
	Stdout       bool   `long:"stdout" description:"Write CSV to stdout instead of a file"`
	LegacyQuotes bool   `long:"legacy-quotes" description:"Wrap fields in quotes without escaping embedded quotes"`

	globals *GlobalFlags
	version string
}

// SetStatusCommand moves one enquiry to a new stage.
type SetStatusCommand struct {
	ID     string `long:"id" description:"Enquiry ID (required)"`
	Status string `long:"status" description:"New status (required)"`

	globals *GlobalFlags
	version string
}

// DeleteCommand removes one enquiry after confirmation.
type DeleteCommand struct {
	ID    string `long:"id" description:"Enquiry ID (required)"`
	Force bool   `long:"force" description:"Skip confirmation prompt"`

	globals *GlobalFlags
	version string
}

// NotesCommand shows the special enquiry text of one lead.
type NotesCommand struct {
	ID string `long:"id" description:"Enquiry ID (required)"`

	globals *GlobalFlags
	version string
}

// SubmitCommand posts a landing-page enquiry and prints the thank-you screen.
type SubmitCommand struct {
	Name           string `long:"name" description:"Visitor name (required)"`
	Email          string `long:"email" description:"Visitor email"`
	Phone          string `long:"phone" description:"Visitor phone"`
	Project        string `long:"project" description:"Project of interest"`
	SpecialEnquiry string `long:"message" description:"Special enquiry text"`

	globals *GlobalFlags
	version string
}

// ServeCommand runs the local enquiries backend.
type ServeCommand struct {
	Host string `long:"host" description:"Override listen host"`
	Port int    `long:"port" description:"Override listen port"`

	globals *GlobalFlags
	version string
}

// PruneCommand deletes stored enquiries older than a cutoff.
type PruneCommand struct {
	OlderThan string `long:"older-than" description:"Age cutoff (e.g., 90d, 12w)" default:"365d"`
	DryRun    bool   `long:"dry-run" description:"Show what would be pruned without deleting"`

	globals *GlobalFlags
	version string
}

// PurgeCommand deletes ALL local data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}
