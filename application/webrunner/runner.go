// Package webrunner is the helper layer UI tests drive a browser through:
// it locates elements with bounded waits, wraps interactions with logging,
// failure screenshots and report steps, and persists coordinates and
// failed locators between runs.
package webrunner

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"
	"webrunner/infrastructure/browser"
	"webrunner/infrastructure/config"
	"webrunner/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

const (
	launchAttempts = 3
	clickAttempts  = 3

	runStartedLayout = "02/01/2006 15:04:05"
)

// Launcher starts a browser session
type Launcher func(opts browser.LaunchOptions, logger logrus.FieldLogger) (interfaces.Driver, error)

// WebRunner drives one browser session
type WebRunner struct {
	cfg      *config.Config
	logger   logrus.FieldLogger
	reporter interfaces.Reporter
	launch   Launcher

	coordinates    *storage.CoordinatesStore
	failedLocators *storage.FailedLocatorStore

	launchDelay time.Duration
	clickDelay  time.Duration
	now         func() time.Time

	mu     sync.RWMutex
	driver interfaces.Driver
}

// Option customises a WebRunner
type Option func(*WebRunner)

// WithLauncher replaces the browser launcher
func WithLauncher(l Launcher) Option {
	return func(w *WebRunner) { w.launch = l }
}

// WithDriver starts the runner with an existing session
func WithDriver(d interfaces.Driver) Option {
	return func(w *WebRunner) { w.driver = d }
}

// WithCoordinatesStore replaces the coordinates INI file
func WithCoordinatesStore(s interfaces.Store) Option {
	return func(w *WebRunner) { w.coordinates = storage.NewCoordinatesStore(s) }
}

// WithFailedLocatorStore replaces the failed locators INI file
func WithFailedLocatorStore(s interfaces.Store) Option {
	return func(w *WebRunner) { w.failedLocators = storage.NewFailedLocatorStore(s) }
}

// WithRetryDelays sets the pause between launch attempts and between click attempts
func WithRetryDelays(launch, click time.Duration) Option {
	return func(w *WebRunner) {
		w.launchDelay = launch
		w.clickDelay = click
	}
}

// New creates a WebRunner. A nil cfg uses config.Default and a nil
// reporter discards steps.
func New(cfg *config.Config, logger logrus.FieldLogger, reporter interfaces.Reporter, opts ...Option) *WebRunner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if reporter == nil {
		reporter = interfaces.NopReporter{}
	}

	w := &WebRunner{
		cfg:            cfg,
		logger:         logger,
		reporter:       reporter,
		launch:         browser.Launch,
		coordinates:    storage.NewCoordinatesStore(storage.NewINIStore(cfg.CoordinatesFile)),
		failedLocators: storage.NewFailedLocatorStore(storage.NewINIStore(cfg.FailedLocators)),
		launchDelay:    time.Second,
		clickDelay:     500 * time.Millisecond,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Config returns the runner settings
func (w *WebRunner) Config() *config.Config {
	return w.cfg
}

// Driver returns the current session, or nil before OpenBrowser
func (w *WebRunner) Driver() interfaces.Driver {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.driver
}

// SetDriver attaches an existing session
func (w *WebRunner) SetDriver(d interfaces.Driver) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.driver = d
}

// detachDriver clears and returns the current session
func (w *WebRunner) detachDriver() interfaces.Driver {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := w.driver
	w.driver = nil
	return d
}

func (w *WebRunner) session() (interfaces.Driver, error) {
	d := w.Driver()
	if d == nil {
		return nil, ErrNoDriver
	}
	return d, nil
}

// OpenBrowser launches the named browser, retrying failed launches
func (w *WebRunner) OpenBrowser(ctx context.Context, name string) (interfaces.Driver, error) {
	w.logger.Infof("Run started at ||%s||", w.now().Format(runStartedLayout))

	b, err := entities.ParseBrowser(name)
	if err != nil {
		w.logger.WithField("browser", name).Error("Failed to configure browser")
		return nil, fmt.Errorf("%w: %v", ErrBrowserConfiguration, err)
	}

	opts := w.launchOptions(b)
	logger := w.logger.WithField("browser", string(b))

	// the open session holds the driver port the new one needs
	if old := w.detachDriver(); old != nil {
		logger.Warn("Closing the open browser before launching a new one")
		if err := old.Quit(); err != nil {
			logger.WithError(err).Warn("Failed to close previous browser")
		}
	}

	var driver interfaces.Driver
	err = Retry(ctx, launchAttempts, w.launchDelay, func() error {
		d, err := w.launch(opts, logger)
		if err != nil {
			logger.WithError(err).Warn("Browser launch attempt failed")
			return err
		}
		driver = d
		return nil
	})
	if err != nil {
		logger.WithError(err).Errorf("Failed to open %s browser", b)
		return nil, fmt.Errorf("%w: %s: %v", ErrBrowserConfiguration, b, err)
	}

	if w.cfg.ImplicitWait > 0 {
		if err := driver.SetImplicitWait(w.cfg.ImplicitWait); err != nil {
			logger.WithError(err).Warn("Failed to set implicit wait")
		}
	}

	w.SetDriver(driver)
	logger.Infof("%s browser launched successfully", b)
	return driver, nil
}

func (w *WebRunner) launchOptions(b entities.Browser) browser.LaunchOptions {
	downloads := w.cfg.DownloadsDir
	if downloads != "" {
		if abs, err := filepath.Abs(downloads); err == nil {
			downloads = abs
		}
	}
	return browser.LaunchOptions{
		Browser:         b,
		DriverPath:      w.cfg.DriverPath,
		DriverPort:      w.cfg.DriverPort,
		RemoteURL:       w.cfg.RemoteURL,
		RemoteBrowser:   w.cfg.RemoteBrowser,
		DebuggerAddress: w.cfg.DebuggerAddress,
		DownloadDir:     downloads,
		Headless:        w.cfg.Headless || b.IsHeadless(),
	}
}

// NavigateToURL loads url in the current window
func (w *WebRunner) NavigateToURL(ctx context.Context, url string) error {
	d, err := w.session()
	if err != nil {
		return err
	}
	logger := w.logger.WithField("url", url)
	if err := d.Get(url); err != nil {
		logger.WithError(err).Errorf("Failed to navigate to %s", url)
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	logger.Infof("Navigated to %s", url)
	return nil
}

// TearDown quits the browser. It is a no-op without a session.
func (w *WebRunner) TearDown(ctx context.Context) error {
	d := w.detachDriver()
	if d == nil {
		return nil
	}
	if err := d.Quit(); err != nil {
		w.logger.WithError(err).Error("Failed to close browser")
		w.reporter.Step("Failed to close browser", entities.StepBroken, err)
		return fmt.Errorf("teardown failed: %w", err)
	}
	w.logger.Info("Browser closed successfully")
	w.reporter.Step("Browser closed successfully", entities.StepPassed, nil)
	return nil
}
