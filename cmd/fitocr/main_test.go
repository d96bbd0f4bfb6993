package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fitocr/pkg/extract"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExtractCmd_Transcript(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "t.txt")
	require.NoError(t, os.WriteFile(text, []byte("1:10:00\nTempo totale\n1:00:00\nTempo di allenamento\n8,4 km\n612 kcal"), 0o644))
	cfg := filepath.Join(dir, "missing.toml")

	out, err := runCLI(t, "extract", "--config", cfg, "--variant", "training", "--text", text)
	require.NoError(t, err, out)
	var rec extract.Record
	require.NoError(t, yaml.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "1:10:00", rec.TotalTime)
	assert.Equal(t, "10:00", rec.Pause)
	assert.Equal(t, "8.4", rec.DistanceKM)
	assert.Equal(t, "612", rec.Calories)

	out, err = runCLI(t, "extract", "--config", cfg, "--text", text, "--explain")
	require.NoError(t, err, out)
	var ex extract.Explanation
	require.NoError(t, yaml.Unmarshal([]byte(out), &ex))
	assert.Equal(t, "direct", ex.CalorieLayer)
	assert.Empty(t, ex.Record.Pause)
}

func TestExtractCmd_Errors(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "missing.toml")
	_, err := runCLI(t, "extract", "--config", cfg)
	assert.Error(t, err)

	_, err = runCLI(t, "extract", "--config", cfg, "--variant", "zig", "--text", "-")
	assert.Error(t, err)
}

func TestBatchCmd_SidecarTranscripts(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "images")
	require.NoError(t, os.Mkdir(in, 0o755))
	img := filepath.Join(in, "2024-03-09.1 Corsa Parco - Casa.png")
	require.NoError(t, os.WriteFile(img, []byte("not decoded"), 0o644))
	require.NoError(t, os.WriteFile(img+".txt", []byte("41:00\nTempo totale\n5,2 km\n410 kcal"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.png"), nil, 0o644))

	output := filepath.Join(dir, "out.yaml")
	ledger := filepath.Join(dir, "seen.db")
	args := []string{"batch", "--config", filepath.Join(dir, "missing.toml"), "--input", in, "--output", output, "--ledger", ledger, "--workers", "2"}
	out, err := runCLI(t, args...)
	require.NoError(t, err, out)

	b, err := os.ReadFile(output)
	require.NoError(t, err)
	var rows []map[string]string
	require.NoError(t, yaml.Unmarshal(b, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-09", rows[0]["date"])
	assert.Equal(t, "Corsa", rows[0]["mode"])
	assert.Equal(t, "41:00", rows[0]["total_time"])
	assert.Equal(t, "410", rows[0]["calories"])

	// A second run skips the ledgered file but still writes its row.
	out, err = runCLI(t, args...)
	require.NoError(t, err, out)
	b, err = os.ReadFile(output)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(b, &rows))
	assert.Len(t, rows, 1)
}
