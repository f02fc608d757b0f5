package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 10001, cfg.App.Port)
	assert.Equal(t, ".", cfg.Files.StateDir)
	assert.Equal(t, 2*time.Second, cfg.Batch.UpdatePacing)
	assert.Equal(t, time.Second, cfg.Batch.RestorePacing)
	assert.Equal(t, 5*time.Second, cfg.Batch.RetryBackoff)
	assert.Equal(t, 1, cfg.Batch.MaxRetries)
	assert.Equal(t, 10000, cfg.Quota.DailyLimit)
	assert.Equal(t, 50, cfg.Quota.Costs["videos.update"])
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.Freshness)
	assert.Equal(t, filepath.Join(".", "videos_cache.json"), cfg.Paths().ItemCache)
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"files": {"stateDir": "/var/lib/ytbulkedit"},
		"batch": {"updatePacing": "3s"},
		"cache": {"backend": "redis"},
		"youtube": {"tokenFile": "/secrets/token.json"}
	}`), 0o644))
	t.Setenv("YTBULK_QUOTA_DAILYLIMIT", "500")
	t.Setenv("APP_PORT", "9000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/ytbulkedit", cfg.Files.StateDir)
	assert.Equal(t, 3*time.Second, cfg.Batch.UpdatePacing)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 500, cfg.Quota.DailyLimit)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "/secrets/token.json", cfg.Paths().Token)
	assert.Equal(t, "/var/lib/ytbulkedit/backup.json", cfg.Paths().Backup)
}

func TestLoadConfig_RejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cache": {"backend": "memcached"}}`), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "cache.backend")
}

func TestLoadEnvFromFile_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("YTBULK_TEST_A=from-file\nYTBULK_TEST_B=\"quoted\"\n"), 0o644))
	t.Setenv("YTBULK_TEST_A", "from-env")
	t.Setenv("YTBULK_TEST_B", "")
	os.Unsetenv("YTBULK_TEST_B")

	LoadEnvFromFile(path, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "from-env", os.Getenv("YTBULK_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("YTBULK_TEST_B"))
}

func TestGetYouTubeConfig_Precedence(t *testing.T) {
	cfg := &Config{App: App{Port: 8123}, Files: Files{StateDir: "/state"}}
	cfg.YouTube.ClientID = "from-config"
	cfg.YouTube.ClientSecret = "YOUR_CLIENT_SECRET"
	t.Setenv("YOUTUBE_CLIENT_ID", "from-env")
	t.Setenv("YOUTUBE_CLIENT_SECRET", "")

	yt := GetYouTubeConfig(cfg)

	assert.Equal(t, "from-env", yt.ClientID)
	assert.Equal(t, "", yt.ClientSecret)
	assert.Equal(t, "http://localhost:8123/auth/youtube/callback", yt.RedirectURL)
	assert.Equal(t, "/state/token.json", yt.TokenFile)
	assert.Equal(t, "/state/credentials.json", yt.CredentialsFile)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
