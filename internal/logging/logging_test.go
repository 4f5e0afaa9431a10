package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jask/atlas/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "atlas.log")
	logger, closer, err := New(config.LogConfig{Path: path, Level: "debug"})
	require.NoError(t, err)

	logger.WithFields(logrus.Fields{"country": "Germany", "generation": 3}).Debug("cascade settled")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "cascade settled", entry["msg"])
	require.Equal(t, "debug", entry["level"])
	require.Equal(t, "Germany", entry["country"])
	require.EqualValues(t, 3, entry["generation"])
}

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "atlas.log")
	logger, closer, err := New(config.LogConfig{Path: path, Level: "warn"})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "hidden")
	require.Contains(t, string(raw), "shown")
}

func TestNewRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, _, err := New(config.LogConfig{Path: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	require.ErrorContains(t, err, "log level")

	_, _, err = New(config.LogConfig{Level: "info"})
	require.ErrorContains(t, err, "log path")
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		Discard().WithField("k", "v").Error("dropped")
	})
}
