package browser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

const (
	defaultChromeDriverPort = 9515
	defaultGeckoDriverPort  = 4444
	defaultSafariDriverPort = 4445
	defaultDebuggerAddress  = "localhost:9221"
)

// LaunchOptions describes how to start a browser session
type LaunchOptions struct {
	Browser entities.Browser
	// DriverPath is the chromedriver/geckodriver binary; looked up on PATH when empty
	DriverPath string
	DriverPort int
	// BinaryPath overrides the Chrome binary
	BinaryPath      string
	RemoteURL       string
	RemoteBrowser   string
	DebuggerAddress string
	DownloadDir     string
	// Headless applies to Playwright browsers; WebDriver flavours encode it in the name
	Headless   bool
	WindowSize entities.Size
}

// Launch starts the browser named in opts and returns a driver for it
func Launch(opts LaunchOptions, logger logrus.FieldLogger) (interfaces.Driver, error) {
	if opts.WindowSize.Width == 0 || opts.WindowSize.Height == 0 {
		opts.WindowSize = entities.Size{Width: 1920, Height: 1080}
	}

	switch opts.Browser {
	case entities.BrowserChrome, entities.BrowserChromeHeadless, entities.BrowserChromeDebug:
		return launchChrome(opts, logger)
	case entities.BrowserFirefox, entities.BrowserFirefoxHeadless:
		return launchFirefox(opts, logger)
	case entities.BrowserSafari:
		return launchSafari(opts, logger)
	case entities.BrowserRemote:
		return launchRemote(opts, logger)
	case entities.BrowserPlaywrightChromium, entities.BrowserPlaywrightFirefox, entities.BrowserPlaywrightWebKit:
		return launchPlaywright(opts, logger)
	}
	return nil, fmt.Errorf("unsupported browser: %s", opts.Browser)
}

// chromeOptions builds chromedriver options for the chrome flavours
func chromeOptions(opts LaunchOptions) chrome.Capabilities {
	if opts.Browser == entities.BrowserChromeDebug {
		addr := opts.DebuggerAddress
		if addr == "" {
			addr = defaultDebuggerAddress
		}
		return chrome.Capabilities{DebuggerAddr: addr}
	}

	caps := chrome.Capabilities{
		Args: []string{
			"--no-sandbox",
			"--disable-gpu",
			"--start-maximized",
		},
	}
	if opts.Browser == entities.BrowserChromeHeadless {
		caps.Args = append(caps.Args,
			"--headless",
			fmt.Sprintf("--window-size=%d,%d", opts.WindowSize.Width, opts.WindowSize.Height),
		)
	}
	if opts.DownloadDir != "" {
		caps.Prefs = map[string]interface{}{
			"download.default_directory":   opts.DownloadDir,
			"download.prompt_for_download": false,
			"download.directory_upgrade":   true,
		}
	}
	if opts.BinaryPath != "" {
		caps.Path = opts.BinaryPath
	}
	return caps
}

// firefoxOptions builds geckodriver options for the firefox flavours
func firefoxOptions(opts LaunchOptions) firefox.Capabilities {
	if opts.Browser == entities.BrowserFirefoxHeadless {
		return firefox.Capabilities{Args: []string{"--headless"}}
	}

	prefs := map[string]interface{}{
		"browser.link.open_newwindow.restriction": 0,
		"browser.link.open_newwindow":             1,
	}
	if opts.DownloadDir != "" {
		prefs["browser.download.folderList"] = 2
		prefs["browser.download.manager.showWhenStarting"] = false
		prefs["browser.download.dir"] = opts.DownloadDir
		prefs["browser.download.useDownloadDir"] = true
		prefs["browser.helperApps.neverAsk.saveToDisk"] = "attachment/csv"
	}
	return firefox.Capabilities{Prefs: prefs}
}

func launchChrome(opts LaunchOptions, logger logrus.FieldLogger) (interfaces.Driver, error) {
	driverPath, err := findDriver("chromedriver", opts.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	if opts.BinaryPath == "" {
		opts.BinaryPath = findChromeBinary()
	}
	if opts.BinaryPath != "" {
		logger.Infof("Using Chrome binary at: %s", opts.BinaryPath)
	}

	port := opts.DriverPort
	if port == 0 {
		port = defaultChromeDriverPort
	}
	service, err := selenium.NewChromeDriverService(driverPath, port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chromeOptions(opts))

	urlPrefix := fmt.Sprintf("http://localhost:%d", port)
	wd, err := selenium.NewRemote(caps, urlPrefix)
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return NewSeleniumDriver(wd, service, urlPrefix, logger), nil
}

func launchFirefox(opts LaunchOptions, logger logrus.FieldLogger) (interfaces.Driver, error) {
	driverPath, err := findDriver("geckodriver", opts.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find geckodriver: %w", err)
	}
	logger.Infof("Using GeckoDriver at: %s", driverPath)

	port := opts.DriverPort
	if port == 0 {
		port = defaultGeckoDriverPort
	}
	service, err := selenium.NewGeckoDriverService(driverPath, port)
	if err != nil {
		return nil, fmt.Errorf("failed to start geckodriver: %w", err)
	}

	caps := selenium.Capabilities{"browserName": "firefox"}
	caps.AddFirefox(firefoxOptions(opts))

	urlPrefix := fmt.Sprintf("http://localhost:%d", port)
	wd, err := selenium.NewRemote(caps, urlPrefix)
	if err != nil {
		service.Stop()
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return NewSeleniumDriver(wd, service, urlPrefix, logger), nil
}

// launchSafari connects to a running `safaridriver --port <port>`
func launchSafari(opts LaunchOptions, logger logrus.FieldLogger) (interfaces.Driver, error) {
	port := opts.DriverPort
	if port == 0 {
		port = defaultSafariDriverPort
	}

	caps := selenium.Capabilities{"browserName": "safari"}
	urlPrefix := fmt.Sprintf("http://localhost:%d", port)
	wd, err := selenium.NewRemote(caps, urlPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to safaridriver on port %d: %w", port, err)
	}
	return NewSeleniumDriver(wd, nil, urlPrefix, logger), nil
}

func launchRemote(opts LaunchOptions, logger logrus.FieldLogger) (interfaces.Driver, error) {
	if opts.RemoteURL == "" {
		return nil, fmt.Errorf("remote browser requires a hub URL")
	}
	name := opts.RemoteBrowser
	if name == "" {
		name = "chrome"
	}
	logger.Infof("Connecting to remote %s at: %s", name, opts.RemoteURL)

	caps := selenium.Capabilities{"browserName": name}
	wd, err := selenium.NewRemote(caps, opts.RemoteURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote webdriver: %w", err)
	}
	return NewSeleniumDriver(wd, nil, opts.RemoteURL, logger), nil
}

func launchPlaywright(opts LaunchOptions, logger logrus.FieldLogger) (interfaces.Driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.DownloadDir != "" {
		launchOptions.DownloadsPath = playwright.String(opts.DownloadDir)
	}

	var browserType playwright.BrowserType
	switch opts.Browser {
	case entities.BrowserPlaywrightFirefox:
		browserType = pw.Firefox
	case entities.BrowserPlaywrightWebKit:
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
		launchOptions.Args = []string{
			"--no-sandbox",
			"--disable-gpu",
			"--disable-dev-shm-usage",
		}
	}

	browser, err := browserType.Launch(launchOptions)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.WindowSize.Width,
			Height: opts.WindowSize.Height,
		},
		AcceptDownloads:   playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	logger.Infof("Launched playwright %s (headless: %t)", browserType.Name(), opts.Headless)
	return newPlaywrightDriver(pw, browser, context, page, logger), nil
}

var chromeBinaryPaths = []string{
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	"/usr/bin/google-chrome",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// findDriver - finds a WebDriver executable: explicit path, BROWSER_DRIVER_PATH,
// common install locations, then PATH
func findDriver(name, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("%s not found at %s", name, explicit)
	}

	var candidates []string
	if path := os.Getenv("BROWSER_DRIVER_PATH"); path != "" && filepath.Base(path) == name {
		candidates = append(candidates, path)
	}
	candidates = append(candidates,
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/usr/bin", name),
		filepath.Join("/opt/homebrew/bin", name),
		filepath.Join(os.Getenv("HOME"), "bin", name),
	)

	if path := lookupExecutable(candidates, name); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("%s not found. Please install it or set BROWSER_DRIVER_PATH environment variable", name)
}

// findChromeBinary - CHROME_BINARY_PATH, the usual install locations, then
// PATH; empty lets chromedriver pick
func findChromeBinary() string {
	var candidates []string
	if path := os.Getenv("CHROME_BINARY_PATH"); path != "" {
		candidates = append(candidates, path)
	}
	candidates = append(candidates, chromeBinaryPaths...)
	return lookupExecutable(candidates, "google-chrome", "chromium", "chromium-browser")
}

// lookupExecutable - first existing candidate path, else the first name found on PATH
func lookupExecutable(candidates []string, names ...string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
