package cli

import (
	"strings"
	"testing"

	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	var err error
	output := captureOutput(t, func() {
		err = RunWithArgs("0.1.0-test", []string{"--version"})
	})

	assert.NoError(t, err)
	assert.Equal(t, "enquiries 0.1.0-test", strings.TrimSpace(output))
}

// parseOnly builds the parser with command execution disabled so tests can
// inspect how flags bind without touching config or the network.
func parseOnly(t *testing.T, args ...string) (*GlobalFlags, *commands, goflags.Commander) {
	t.Helper()
	parser, globals, cmds := buildParser("test")
	var ran goflags.Commander
	parser.CommandHandler = func(cmd goflags.Commander, args []string) error {
		ran = cmd
		return nil
	}
	_, err := parser.ParseArgs(args)
	require.NoError(t, err)
	return globals, cmds, ran
}

func TestSubcommandsRecognized(t *testing.T) {
	for _, name := range []string{"list", "stats", "export", "set-status", "delete", "notes", "submit", "serve", "prune", "purge"} {
		t.Run(name, func(t *testing.T) {
			_, _, ran := parseOnly(t, name)
			assert.NotNil(t, ran)
		})
	}
}

func TestListFlagsBind(t *testing.T) {
	globals, cmds, ran := parseOnly(t, "--json", "--db-path", "/tmp/e.db", "list",
		"--status", "contacted", "--search", "palm", "--from", "2024-03-01", "--to", "2024-03-03", "--limit", "5")

	assert.Same(t, cmds.List, ran)
	assert.True(t, globals.JSON)
	assert.Equal(t, "/tmp/e.db", globals.DBPath)
	assert.Equal(t, "contacted", cmds.List.Status)
	assert.Equal(t, "palm", cmds.List.Search)
	assert.Equal(t, "all", cmds.List.Date, "date defaults to all")
	assert.Equal(t, "2024-03-01", cmds.List.From)
	assert.Equal(t, 5, cmds.List.Limit)
}

func TestExportFlagsBind(t *testing.T) {
	_, cmds, ran := parseOnly(t, "export", "--date", "week", "--stdout", "--legacy-quotes")

	assert.Same(t, cmds.Export, ran)
	assert.Equal(t, "week", cmds.Export.Date)
	assert.Equal(t, "all", cmds.Export.Status)
	assert.True(t, cmds.Export.Stdout)
	assert.True(t, cmds.Export.LegacyQuotes)
}

func TestUnknownSubcommandErrors(t *testing.T) {
	parser, _, _ := buildParser("test")
	parser.Options &^= goflags.PrintErrors
	_, err := parser.ParseArgs([]string{"frobnicate"})
	assert.Error(t, err)
}

func TestRequiredIDFlags(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"set-status", "--status", "contacted"}, "--id is required"},
		{[]string{"set-status", "--id", "a1"}, "--status is required"},
		{[]string{"delete"}, "--id is required"},
		{[]string{"notes"}, "--id is required"},
		{[]string{"purge"}, "purge requires --all flag for safety"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			var err error
			captureOutput(t, func() {
				err = RunWithArgs("test", tt.args)
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
