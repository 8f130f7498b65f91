package webrunner

import (
	"errors"
	"fmt"
)

var (
	// ErrBrowserConfiguration is returned when a browser cannot be configured or started
	ErrBrowserConfiguration = errors.New("browser configuration failed")
	// ErrElementNotFound is returned when a locator resolves to nothing in time
	ErrElementNotFound = errors.New("element not found")
	ErrTimeout         = errors.New("timed out")
	ErrNavigation      = errors.New("navigation failed")
	// ErrNoDriver is returned by any browser operation before OpenBrowser or SetDriver
	ErrNoDriver      = errors.New("no browser session")
	ErrNoCoordinates = errors.New("no stored coordinates")
)

// ActionError reports a failed browser action
type ActionError struct {
	Op      string
	Locator string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Locator == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Locator, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
