package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personality_insights/internal/workspace"
)

// isolateWorkspace points PID_WORKSPACE at an empty temp dir so a real
// ~/PersonalityInsights/configs/settings.json cannot leak into the test.
func isolateWorkspace(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), WorkspaceDirName)
	t.Setenv("PID_WORKSPACE", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolateWorkspace(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultResultsURL, cfg.ResultsURL)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultLogMode, cfg.LogMode)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, filepath.Join(cfg.Workspace, DatabaseFileName), cfg.DBPath)
	assert.Positive(t, cfg.Workers)
}

func TestLoadFileThenEnv(t *testing.T) {
	isolateWorkspace(t)
	path := filepath.Join(t.TempDir(), "pid.yaml")
	body := "results_url: https://results.example.org/\nfetch_timeout: 3s\nworkers: 2\nlisten_addr: \":9000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("PID_WORKERS", "7")
	t.Setenv("PID_DB_PATH", "/tmp/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://results.example.org", cfg.ResultsURL)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
}

func TestLoadErrors(t *testing.T) {
	isolateWorkspace(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	t.Setenv("PID_WORKERS", "many")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidateRejectsBadURL(t *testing.T) {
	isolateWorkspace(t)
	t.Setenv("PID_RESULTS_URL", "ftp://results.example.org")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestAllowedOriginsFromEnv(t *testing.T) {
	isolateWorkspace(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultFrontendOrigin}, cfg.AllowedOrigins)

	t.Setenv("PID_ALLOWED_ORIGINS", "https://a.example.org,https://b.example.org")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.AllowedOrigins)
}

func TestLoadWorkspaceSettingsLayer(t *testing.T) {
	dir := isolateWorkspace(t)
	_, err := workspace.EnsureAt(dir)
	require.NoError(t, err)
	settings := `{"theme": "dark", "results_url": "https://settings.example.org/"}`
	require.NoError(t, os.WriteFile(workspace.SettingsPath(dir), []byte(settings), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://settings.example.org", cfg.ResultsURL)
	assert.Equal(t, "dark", cfg.Theme)

	path := filepath.Join(t.TempDir(), "pid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("results_url: https://file.example.org\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.org", cfg.ResultsURL)
	assert.Equal(t, "dark", cfg.Theme)

	t.Setenv("PID_RESULTS_URL", "https://env.example.org")
	t.Setenv("PID_THEME", "light")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.org", cfg.ResultsURL)
	assert.Equal(t, "light", cfg.Theme)
}

func TestLoadRejectsCorruptSettings(t *testing.T) {
	dir := isolateWorkspace(t)
	_, err := workspace.EnsureAt(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(workspace.SettingsPath(dir), []byte("{not json"), 0o644))

	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace settings")
}
