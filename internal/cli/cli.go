package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	List      *ListCommand
	Stats     *StatsCommand
	Export    *ExportCommand
	SetStatus *SetStatusCommand
	Delete    *DeleteCommand
	Notes     *NotesCommand
	Submit    *SubmitCommand
	Serve     *ServeCommand
	Prune     *PruneCommand
	Purge     *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "enquiries"
	parser.LongDescription = "Review, filter, export and manage project enquiries from the landing page."

	cmds := &commands{
		List:      &ListCommand{globals: &globals, version: version},
		Stats:     &StatsCommand{globals: &globals, version: version},
		Export:    &ExportCommand{globals: &globals, version: version},
		SetStatus: &SetStatusCommand{globals: &globals, version: version},
		Delete:    &DeleteCommand{globals: &globals, version: version},
		Notes:     &NotesCommand{globals: &globals, version: version},
		Submit:    &SubmitCommand{globals: &globals, version: version},
		Serve:     &ServeCommand{globals: &globals, version: version},
		Prune:     &PruneCommand{globals: &globals, version: version},
		Purge:     &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("list", "List enquiries", "Fetch enquiries and print those matching the status, search and date filters.", cmds.List)
	parser.AddCommand("stats", "Show enquiry counts by status", "Show the total number of enquiries and the count for each status.", cmds.Stats)
	parser.AddCommand("export", "Export filtered enquiries as CSV", "Write the enquiries matching the current filters to a CSV file.", cmds.Export)
	parser.AddCommand("set-status", "Change the status of an enquiry", "Move one enquiry to a new status and refresh the collection.", cmds.SetStatus)
	parser.AddCommand("delete", "Delete an enquiry", "Delete one enquiry after confirmation and refresh the collection.", cmds.Delete)
	parser.AddCommand("notes", "Show the special enquiry of a lead", "Print the free-text special enquiry a visitor left with their enquiry.", cmds.Notes)
	parser.AddCommand("submit", "Submit a landing-page enquiry", "Submit an enquiry as the landing-page form does and print the thank-you screen.", cmds.Submit)
	parser.AddCommand("serve", "Run the enquiries backend", "Serve the project-enquiries REST API over the local SQLite store.", cmds.Serve)
	parser.AddCommand("prune", "Delete old enquiries", "Delete enquiries in the local store older than a cutoff.", cmds.Prune)
	parser.AddCommand("purge", "Delete ALL local data", "Delete ALL local enquiry data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the enquiries CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("enquiries %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
