package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/enquiry-desk/internal/client"
	"github.com/runnerr0/enquiry-desk/internal/config"
	"github.com/runnerr0/enquiry-desk/internal/enquiry"
	"github.com/runnerr0/enquiry-desk/internal/logging"
	"github.com/runnerr0/enquiry-desk/internal/storage"
)

// leadAPI is the slice of the backend client the commands use.
type leadAPI interface {
	List(ctx context.Context, filter enquiry.StatusFilter) (*client.ListResult, error)
	UpdateStatus(ctx context.Context, id string, status enquiry.Status) error
	Delete(ctx context.Context, id string) error
	Submit(ctx context.Context, sub enquiry.Submission) (*enquiry.Lead, error)
}

// env bundles what a command needs at run time. Tests build one directly.
type env struct {
	cfg   *config.Config
	log   *logrus.Logger
	api   leadAPI
	store storage.Store
	loc   *time.Location
	now   func() time.Time
	in    io.Reader
}

// location is the zone calendar filters and displayed dates use.
func (e *env) location() *time.Location {
	if e.loc == nil {
		return time.Local
	}
	return e.loc
}

// today returns the current time in the configured location.
func (e *env) today() time.Time {
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	return now().In(e.location())
}

// loadConfig reads --config when given, otherwise the default path
// (creating it on first run).
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	if g != nil && g.Config != "" {
		return config.Load(g.Config)
	}
	return config.LoadOrCreate()
}

// newEnv loads config, sets up logging, the backend client and the local
// store. The returned func closes the store.
func newEnv(g *GlobalFlags) (*env, func(), error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if g != nil && g.Verbose {
		level = "debug"
	}
	log := logging.New(level, cfg.Logging.JSON, nil)

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	dbPath, err := resolveDBPath(g, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create database directory: %w", err)
	}

	store, closeStore, err := storage.Open(context.Background(), dbPath)
	if err != nil {
		return nil, nil, err
	}

	e := &env{
		cfg:   cfg,
		log:   log,
		api:   client.New(cfg.API, log),
		store: store,
		loc:   loc,
		now:   time.Now,
		in:    os.Stdin,
	}
	cleanup := func() {
		if err := closeStore(); err != nil {
			log.WithError(err).Warn("closing database")
		}
	}
	return e, cleanup, nil
}

// resolveDBPath prefers --db-path over the configured storage location.
func resolveDBPath(g *GlobalFlags, cfg *config.Config) (string, error) {
	if g != nil && g.DBPath != "" {
		return g.DBPath, nil
	}
	return cfg.DBPath()
}

// criteria converts the shared filter flags into enquiry.Criteria. A --from
// or --to without --date selects the custom range.
func (f CriteriaFlags) criteria(loc *time.Location) (enquiry.Criteria, error) {
	status, err := enquiry.ParseStatusFilter(f.Status)
	if err != nil {
		return enquiry.Criteria{}, fmt.Errorf("--status: %w", err)
	}

	c := enquiry.Criteria{
		Status: status,
		Search: f.Search,
		Date:   enquiry.ParseDateFilter(f.Date),
	}

	if f.From != "" {
		if c.Custom.Start, err = enquiry.ParseCalendarDate(f.From, loc); err != nil {
			return enquiry.Criteria{}, fmt.Errorf("--from: %w", err)
		}
	}
	if f.To != "" {
		if c.Custom.End, err = enquiry.ParseCalendarDate(f.To, loc); err != nil {
			return enquiry.Criteria{}, fmt.Errorf("--to: %w", err)
		}
	}
	if (f.From != "" || f.To != "") && c.Date == enquiry.DateAll {
		c.Date = enquiry.DateCustom
	}

	return c, nil
}

// collection is one loaded set of enquiries and the stats that go with it.
type collection struct {
	Leads     []enquiry.Lead
	Stats     enquiry.Stats
	Stale     bool
	FetchedAt time.Time
}

// fetch loads the collection for filter from the backend and caches it.
// When the backend is unreachable it falls back to the last cached
// snapshot for the same filter and marks the result stale.
func fetch(ctx context.Context, e *env, filter enquiry.StatusFilter) (*collection, error) {
	res, err := e.api.List(ctx, filter)
	if err == nil {
		col := &collection{
			Leads:     res.Leads,
			Stats:     enquiry.ResolveStats(res.Stats, res.Leads),
			FetchedAt: e.today(),
		}
		if e.store != nil {
			snap := &storage.Snapshot{Filter: filter, Leads: res.Leads, Stats: res.Stats, FetchedAt: col.FetchedAt}
			if saveErr := e.store.SaveSnapshot(ctx, snap); saveErr != nil {
				e.log.WithError(saveErr).Warn("could not cache fetched enquiries")
			}
		}
		return col, nil
	}

	if e.store == nil {
		return nil, fmt.Errorf("fetch enquiries: %w", err)
	}
	snap, snapErr := e.store.LoadSnapshot(ctx, filter)
	if snapErr != nil {
		if !errors.Is(snapErr, storage.ErrNotFound) {
			e.log.WithError(snapErr).Warn("could not read cached enquiries")
		}
		return nil, fmt.Errorf("fetch enquiries: %w", err)
	}

	e.log.WithError(err).WithField("fetched_at", snap.FetchedAt.Format(time.RFC3339)).
		Warn("backend unavailable, showing last fetched enquiries")
	return &collection{
		Leads:     snap.Leads,
		Stats:     enquiry.ResolveStats(snap.Stats, snap.Leads),
		Stale:     true,
		FetchedAt: snap.FetchedAt,
	}, nil
}

// findLead looks an ID up in the current collection.
func findLead(leads []enquiry.Lead, id string) (enquiry.Lead, bool) {
	for _, l := range leads {
		if l.ID == id {
			return l, true
		}
	}
	return enquiry.Lead{}, false
}

// confirm prints prompt and reads one line, returning true only when it
// equals want.
func confirm(in io.Reader, prompt, want string) (bool, error) {
	fmt.Print(prompt)
	if in == nil {
		in = os.Stdin
	}
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false, fmt.Errorf("aborted: no input received")
	}
	return strings.TrimSpace(scanner.Text()) == want, nil
}

// parseDuration parses a human-friendly duration string like "30d", "7d", "24h", "2w".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration: empty string")
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]

	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration: %q (use d, h, w, or m suffix)", s)
	}
}

// formatDurationHuman formats a duration into a human-readable string like "30 days".
func formatDurationHuman(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	hours := int(d.Hours())
	if hours > 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}

// formatNumber formats an int with comma separators.
func formatNumber(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
