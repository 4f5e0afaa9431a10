package provider

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/atlas/internal/config"
	"github.com/jask/atlas/internal/logging"
)

func testConfig() config.Config {
	return config.Config{
		API:    config.APIConfig{CountriesBaseURL: "https://example.test/v3.1/"},
		HTTP:   config.HTTPConfig{Timeout: 2 * time.Second, LookupCacheTTL: time.Minute},
		Search: config.SearchConfig{MaxSuggestions: 8},
	}
}

func TestNewBuildsProductionBundle(t *testing.T) {
	t.Parallel()

	p, err := New(testConfig(), logging.Discard())
	require.NoError(t, err)

	rc, ok := p.Countries.(*RestCountries)
	require.True(t, ok)
	require.Equal(t, "https://example.test/v3.1", rc.baseURL)
	require.Equal(t, 2*time.Second, rc.http.Timeout)
	require.IsType(t, &SyntheticCities{}, p.Cities)

	rows, err := p.Visas.VisaRequirements(context.Background(), "GB")
	require.NoError(t, err)
	require.Len(t, rows, 6)
}

func TestNewLoadsVisaTableFromConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Visa.TablePath = writeVisaTable(t, "[[passport]]\ncode = \"IE\"\n[[passport.destination]]\ncountry = \"France\"\nrequirement = \"visa-free\"\n")

	p, err := New(cfg, logging.Discard())
	require.NoError(t, err)
	rows, err := p.Visas.VisaRequirements(context.Background(), "IE")
	require.NoError(t, err)
	require.Equal(t, "France", rows[0].Country)
}

func TestNewFailsOnMissingVisaTable(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Visa.TablePath = filepath.Join(t.TempDir(), "missing.toml")
	_, err := New(cfg, logging.Discard())
	require.Error(t, err)
}
