package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemscope/internal/shared/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithLogs(t, args...)
	return out, err
}

// runWithLogs also returns what the command logged to stderr.
func runWithLogs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("GEMSCOPE_CONFIG", "")

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr

	err := app.Run(append([]string{"gemscope"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestSummary(t *testing.T) {
	dataset := testutil.WriteDiamondsCSV(t)

	t.Run("text", func(t *testing.T) {
		out, err := run(t, "--dataset", dataset, "summary")
		require.NoError(t, err)
		assert.Contains(t, out, "STAGE")
		assert.Contains(t, out, "segment")
		assert.Contains(t, out, "price = ")
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "--dataset", dataset, "summary", "--format", "json")
		require.NoError(t, err)

		var got struct {
			Stages []struct {
				Stage string `json:"stage"`
				Rows  int    `json:"rows"`
			} `json:"stages"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got.Stages, 5)
		assert.Equal(t, 12, got.Stages[0].Rows)
		assert.Equal(t, 4, got.Stages[4].Rows)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := run(t, "--dataset", dataset, "summary", "--format", "yaml")
		assert.ErrorContains(t, err, "unknown format")
	})

	t.Run("missing dataset", func(t *testing.T) {
		_, err := run(t, "--dataset", filepath.Join(t.TempDir(), "none.csv"), "summary")
		assert.Error(t, err)
	})
}

func TestDescribe(t *testing.T) {
	dataset := testutil.WriteDiamondsCSV(t)

	out, err := run(t, "--dataset", dataset, "describe", "--subset", "cleaned")
	require.NoError(t, err)
	assert.Contains(t, out, "count=9")
	assert.Contains(t, out, "carat")

	_, err = run(t, "--dataset", dataset, "describe", "--subset", "raw")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dataset := testutil.WriteDiamondsCSV(t)

	t.Run("csv", func(t *testing.T) {
		dir := t.TempDir()
		out, err := run(t, "--dataset", dataset, "export", "--out", dir)
		require.NoError(t, err)

		for _, name := range []string{"cleaned.csv", "color-clarity.csv", "segment.csv", "aggregates.csv"} {
			assert.FileExists(t, filepath.Join(dir, name))
			assert.Contains(t, out, name)
		}

		data, err := os.ReadFile(filepath.Join(dir, "segment.csv"))
		require.NoError(t, err)
		// header plus four rows
		assert.Equal(t, 5, strings.Count(string(data), "\n"))
	})

	t.Run("xlsx", func(t *testing.T) {
		dir := t.TempDir()
		_, err := run(t, "--dataset", dataset, "export", "--format", "xlsx", "--out", dir)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "gemscope.xlsx"))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, "--dataset", dataset, "export", "--format", "parquet", "--out", t.TempDir())
		assert.ErrorContains(t, err, "unknown format")
	})
}

func TestCharts(t *testing.T) {
	dataset := testutil.WriteDiamondsCSV(t)
	dir := t.TempDir()

	out, err := run(t, "--dataset", dataset, "charts", "--format", "svg", "--out", dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	for _, e := range entries {
		assert.True(t, strings.HasSuffix(e.Name(), ".svg"), e.Name())
		assert.Contains(t, out, e.Name())
	}

	_, err = run(t, "--dataset", dataset, "charts", "--format", "gif", "--out", dir)
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	dataset := testutil.WriteDiamondsCSV(t)
	cfgPath := testutil.WriteFile(t, "gemscope.yaml", "logging:\n  level: error\n")

	tests := []struct {
		name     string
		args     []string
		wantInfo bool
	}{
		{"config file level kept", []string{"--config", cfgPath}, false},
		{"flag overrides config file", []string{"--config", cfgPath, "--log-level", "info"}, true},
		{"default level", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(append([]string{}, tt.args...), "--dataset", dataset, "summary")
			_, logs, err := runWithLogs(t, args...)
			require.NoError(t, err)

			if tt.wantInfo {
				assert.Contains(t, logs, "dataset loaded")
				assert.Contains(t, logs, `"trace_id"`, "each run is tagged with a trace ID")
			} else {
				assert.NotContains(t, logs, `"level":"INFO"`)
			}
		})
	}
}
