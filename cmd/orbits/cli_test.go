package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarviz/orbits/internal/config"
	"github.com/solarviz/orbits/internal/storage/file"
)

func writeTestConfig(t *testing.T, outDir string) string {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf(`{
		"logsDir": %q,
		"storage": { "type": "html", "outputDir": %q }
	}`, filepath.Join(dir, "logs"), outDir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0644))
	return dir
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(viper.Reset)
	root, cleanup := newRootCmd()
	defer cleanup()
	root.SetArgs(args)
	return root.Execute()
}

func TestRender_JSON(t *testing.T) {
	t.Setenv("START_TIME", "2024-01-01T00:00:00")
	t.Setenv("END_TIME", "2024-03-01T00:00:00")
	t.Setenv("NUM_STEPS", "5")

	outDir := t.TempDir()
	cfgDir := writeTestConfig(t, outDir)

	err := execute(t, "render",
		"--config-dir", cfgDir,
		"--env-file", filepath.Join(cfgDir, "missing.env"),
		"--format", "json")
	require.NoError(t, err)

	path := filepath.Join(outDir, "orbits_20240101_000000_20240301_000000.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc file.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Times, 5)
	assert.Len(t, doc.Planets, 8)
	require.NotNil(t, doc.Figure)
	assert.Len(t, doc.Figure.Frames, 5)
}

func TestRender_DefaultCommandWritesHTML(t *testing.T) {
	t.Setenv("START_TIME", "JD 2451545.0")
	t.Setenv("END_TIME", "JD 2451545.0")
	t.Setenv("NUM_STEPS", "1")

	outDir := t.TempDir()
	cfgDir := writeTestConfig(t, outDir)

	require.NoError(t, execute(t, "--config-dir", cfgDir, "--env-file", filepath.Join(cfgDir, ".env")))

	matches, err := filepath.Glob(filepath.Join(outDir, "orbits_*.html"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestRender_EnvFile(t *testing.T) {
	for _, name := range []string{"START_TIME", "END_TIME", "NUM_STEPS"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	outDir := t.TempDir()
	cfgDir := writeTestConfig(t, outDir)
	envFile := filepath.Join(cfgDir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("START_TIME=2000-01-01\nEND_TIME=2000-01-02\nNUM_STEPS=2\n"), 0644))

	require.NoError(t, execute(t, "render", "--config-dir", cfgDir, "--env-file", envFile, "--path", filepath.Join(outDir, "page.html")))
	assert.FileExists(t, filepath.Join(outDir, "page.html"))
}

func TestRender_MissingRunSettings(t *testing.T) {
	for _, name := range []string{"START_TIME", "END_TIME", "NUM_STEPS"} {
		t.Setenv(name, "")
	}

	cfgDir := writeTestConfig(t, t.TempDir())
	err := execute(t, "render", "--config-dir", cfgDir, "--env-file", filepath.Join(cfgDir, ".env"))
	require.Error(t, err)

	var cfgErr *config.Error
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Setenv("START_TIME", "2024-01-01")
	t.Setenv("END_TIME", "2024-01-02")
	t.Setenv("NUM_STEPS", "2")

	cfgDir := writeTestConfig(t, t.TempDir())
	err := execute(t, "render", "--config-dir", cfgDir, "--env-file", filepath.Join(cfgDir, ".env"), "--format", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}
