package interfaces

import (
	"webrunner/domain/entities"
)

// Driver defines the browser session a WebRunner drives. Implementations
// wrap a WebDriver session or a Playwright page.
type Driver interface {
	// Get navigates the current window to a URL
	Get(url string) error

	// CurrentURL returns the current page URL
	CurrentURL() (string, error)

	// Title returns the current page title
	Title() (string, error)

	// FindElement resolves a locator to a single element without waiting
	FindElement(locator entities.Locator) (Element, error)

	// FindElements resolves a locator to all matching elements without waiting.
	// No match is an empty slice, not an error.
	FindElements(locator entities.Locator) ([]Element, error)

	// ActiveElement returns the focused element
	ActiveElement() (Element, error)

	// ExecuteScript runs a script body where arguments[i] are the given args.
	// Element arguments are passed as DOM nodes.
	ExecuteScript(script string, args ...interface{}) (interface{}, error)

	// Screenshot captures the viewport as PNG
	Screenshot() ([]byte, error)

	// WindowSize returns the viewport size
	WindowSize() (entities.Size, error)

	// WindowHandles lists open windows in opening order
	WindowHandles() ([]string, error)

	// SwitchWindow focuses a window by handle
	SwitchWindow(handle string) error

	// CloseWindow closes a window by handle
	CloseWindow(handle string) error

	// MoveMouse moves the pointer to a viewport position
	MoveMouse(p entities.Point) error

	// ClickMouse clicks at the current pointer position
	ClickMouse() error

	// KeyDown presses and holds a key
	KeyDown(key entities.Key) error

	// KeyUp releases a key
	KeyUp(key entities.Key) error

	// DragAndDrop drags source onto target
	DragAndDrop(source, target Element) error

	// AlertText returns the text of the open alert, if any
	AlertText() (string, error)

	// AcceptAlert accepts the open alert
	AcceptAlert() error

	// DismissAlert dismisses the open alert
	DismissAlert() error

	// SetImplicitWait sets the backend's own implicit element wait
	SetImplicitWait(seconds int) error

	// Quit ends the session and releases the browser
	Quit() error
}

// Element is a resolved DOM node
type Element interface {
	Click() error
	SendKeys(text string) error
	Clear() error
	Hover() error
	// SetFiles sets the files of an <input type=file>
	SetFiles(paths ...string) error

	Text() (string, error)
	Attribute(name string) (string, error)
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	IsSelected() (bool, error)
	Rect() (entities.Rect, error)

	FindElements(locator entities.Locator) ([]Element, error)
}
