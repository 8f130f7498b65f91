package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

const (
	section = "webrunner"

	// CaptureCoordinatesEnv enables coordinate capture mode
	CaptureCoordinatesEnv = "update_coordinates"
	envPrefix             = "WEBRUNNER_"
)

// Config holds the runner settings
type Config struct {
	Browser         string
	BaseURL         string
	Headless        bool
	Timeout         time.Duration
	PollInterval    time.Duration
	ActionDelay     time.Duration
	ImplicitWait    int
	ScreenshotsDir  string
	DownloadsDir    string
	AllureDir       string
	CoordinatesFile string
	FailedLocators  string
	DebuggerAddress string
	RemoteURL       string
	RemoteBrowser   string
	DriverPath      string
	DriverPort      int
	LogLevel        logrus.Level
	ShowActions     bool
	// RecordFailedLocators writes locators that time out to FailedLocators
	RecordFailedLocators bool
	CaptureCoordinates   bool
}

// Default returns the built-in settings. Capture mode still follows the
// update_coordinates environment flag.
func Default() *Config {
	return &Config{
		Browser:              "chrome",
		Timeout:              30 * time.Second,
		PollInterval:         500 * time.Millisecond,
		ActionDelay:          time.Second,
		ScreenshotsDir:       "screenshots",
		DownloadsDir:         "downloads",
		AllureDir:            "allure-results",
		CoordinatesFile:      "test_data/coordinates.ini",
		FailedLocators:       "test_data/failed_xpaths.ini",
		DebuggerAddress:      "localhost:9221",
		LogLevel:             logrus.InfoLevel,
		RecordFailedLocators: true,
		CaptureCoordinates:   CaptureCoordinatesEnabled(),
	}
}

// Load reads .env (optional), then the INI file at path (optional), then
// WEBRUNNER_* environment overrides.
func Load(path string) (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	cfg := Default()

	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	sec := file.Section(section)
	applyOverrides(sec)

	cfg.Browser = sec.Key("browser").MustString(cfg.Browser)
	cfg.BaseURL = sec.Key("base_url").MustString(cfg.BaseURL)
	cfg.Headless = sec.Key("headless").MustBool(cfg.Headless)
	cfg.Timeout = sec.Key("timeout").MustDuration(cfg.Timeout)
	cfg.PollInterval = sec.Key("poll_interval").MustDuration(cfg.PollInterval)
	cfg.ActionDelay = sec.Key("action_delay").MustDuration(cfg.ActionDelay)
	cfg.ImplicitWait = sec.Key("implicit_wait").MustInt(cfg.ImplicitWait)
	cfg.ScreenshotsDir = sec.Key("screenshots_dir").MustString(cfg.ScreenshotsDir)
	cfg.DownloadsDir = sec.Key("downloads_dir").MustString(cfg.DownloadsDir)
	cfg.AllureDir = sec.Key("allure_dir").MustString(cfg.AllureDir)
	cfg.CoordinatesFile = sec.Key("coordinates_file").MustString(cfg.CoordinatesFile)
	cfg.FailedLocators = sec.Key("failed_locators_file").MustString(cfg.FailedLocators)
	cfg.DebuggerAddress = sec.Key("debugger_address").MustString(cfg.DebuggerAddress)
	cfg.RemoteURL = sec.Key("remote_url").MustString(cfg.RemoteURL)
	cfg.RemoteBrowser = sec.Key("remote_browser").MustString(cfg.RemoteBrowser)
	cfg.DriverPath = sec.Key("driver_path").MustString(cfg.DriverPath)
	cfg.DriverPort = sec.Key("driver_port").MustInt(cfg.DriverPort)
	cfg.ShowActions = sec.Key("show_actions").MustBool(cfg.ShowActions)
	cfg.RecordFailedLocators = sec.Key("record_failed_locators").MustBool(cfg.RecordFailedLocators)

	if level := sec.Key("log_level").String(); level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log_level: %w", err)
		}
		cfg.LogLevel = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides copies WEBRUNNER_<KEY> environment values onto the section
func applyOverrides(sec *ini.Section) {
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		sec.Key(key).SetValue(value)
	}
}

// Validate checks values that would make every wait fail
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.ActionDelay < 0 {
		return fmt.Errorf("action_delay must not be negative, got %s", c.ActionDelay)
	}
	return nil
}

// CaptureCoordinatesEnabled reports whether update_coordinates is set to
// true, t or 1 (any case)
func CaptureCoordinatesEnabled() bool {
	switch strings.ToLower(os.Getenv(CaptureCoordinatesEnv)) {
	case "true", "t", "1":
		return true
	}
	return false
}

// NewLogger builds the process logger
func NewLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}
