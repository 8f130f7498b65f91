package entities

import (
	"fmt"
	"strings"
)

// Browser is a launchable browser flavour
type Browser string

const (
	BrowserChrome             Browser = "chrome"
	BrowserChromeHeadless     Browser = "chrome-headless"
	BrowserChromeDebug        Browser = "chrome-debug"
	BrowserFirefox            Browser = "firefox"
	BrowserFirefoxHeadless    Browser = "firefox-headless"
	BrowserSafari             Browser = "safari"
	BrowserRemote             Browser = "remote"
	BrowserPlaywrightChromium Browser = "playwright-chromium"
	BrowserPlaywrightFirefox  Browser = "playwright-firefox"
	BrowserPlaywrightWebKit   Browser = "playwright-webkit"
)

var knownBrowsers = []Browser{
	BrowserChrome,
	BrowserChromeHeadless,
	BrowserChromeDebug,
	BrowserFirefox,
	BrowserFirefoxHeadless,
	BrowserSafari,
	BrowserRemote,
	BrowserPlaywrightChromium,
	BrowserPlaywrightFirefox,
	BrowserPlaywrightWebKit,
}

// ParseBrowser resolves a case-insensitive browser name
func ParseBrowser(name string) (Browser, error) {
	b := Browser(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range knownBrowsers {
		if b == k {
			return b, nil
		}
	}
	return "", fmt.Errorf("unsupported browser: %s", name)
}

// IsPlaywright reports whether the browser runs on the Playwright backend
func (b Browser) IsPlaywright() bool {
	return strings.HasPrefix(string(b), "playwright-")
}

// IsHeadless reports whether the flavour runs without a window
func (b Browser) IsHeadless() bool {
	return strings.HasSuffix(string(b), "-headless")
}
