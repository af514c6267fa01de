package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/enquiry-desk/internal/config"
	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

func TestCriteriaFlags(t *testing.T) {
	f := CriteriaFlags{Status: "Interested", Search: "palm", Date: "month"}
	c, err := f.criteria(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, enquiry.FilterFor(enquiry.StatusInterested), c.Status)
	assert.Equal(t, "palm", c.Search)
	assert.Equal(t, enquiry.DateMonth, c.Date)
}

func TestCriteriaFlags_FromToImplyCustom(t *testing.T) {
	f := CriteriaFlags{Status: "all", From: "2024-03-01"}
	c, err := f.criteria(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, enquiry.DateCustom, c.Date)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), c.Custom.Start)
	assert.True(t, c.Custom.End.IsZero())
}

func TestCriteriaFlags_UnknownDateMeansAll(t *testing.T) {
	c, err := CriteriaFlags{Status: "all", Date: "fortnight"}.criteria(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, enquiry.DateAll, c.Date)
}

func TestCriteriaFlags_BadDate(t *testing.T) {
	_, err := CriteriaFlags{Status: "all", To: "03/01/2024"}.criteria(time.UTC)
	assert.ErrorContains(t, err, "--to")
}

func TestResolveDBPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = "/var/lib/enquiries"

	p, err := resolveDBPath(&GlobalFlags{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/enquiries/enquiries.db", p)

	p, err = resolveDBPath(&GlobalFlags{DBPath: "/tmp/override.db"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", p)
}

func TestEnvToday_UsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	e := &env{loc: ist, now: func() time.Time { return wednesday }}
	assert.Equal(t, ist, e.today().Location())
	assert.Equal(t, 20, e.today().Hour())
}
