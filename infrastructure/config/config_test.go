package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	require.NoError(t, err)

	assert.Equal(t, "chrome", cfg.Browser)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.True(t, cfg.RecordFailedLocators)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := `[webrunner]
browser = firefox-headless
base_url = https://example.com
timeout = 10s
poll_interval = 100ms
screenshots_dir = out/shots
log_level = debug
show_actions = true
driver_port = 4545
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "firefox-headless", cfg.Browser)
	assert.Equal(t, "https://example.com", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "out/shots", cfg.ScreenshotsDir)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.ShowActions)
	assert.Equal(t, 4545, cfg.DriverPort)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("[webrunner]\nbrowser = chrome\n"), 0o644))

	t.Setenv("WEBRUNNER_BROWSER", "safari")
	t.Setenv("WEBRUNNER_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "safari", cfg.Browser)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("[webrunner]\nlog_level = loud\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[webrunner]\ntimeout = 0s\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestCaptureCoordinatesEnabled(t *testing.T) {
	for _, v := range []string{"true", "T", "1", "TRUE"} {
		t.Setenv(CaptureCoordinatesEnv, v)
		assert.True(t, CaptureCoordinatesEnabled(), v)
	}
	for _, v := range []string{"", "false", "0", "yes"} {
		t.Setenv(CaptureCoordinatesEnv, v)
		assert.False(t, CaptureCoordinatesEnabled(), v)
	}
}

func TestDefaultFollowsCaptureFlag(t *testing.T) {
	t.Setenv(CaptureCoordinatesEnv, "true")
	assert.True(t, Default().CaptureCoordinates)

	t.Setenv(CaptureCoordinatesEnv, "")
	assert.False(t, Default().CaptureCoordinates)
}
