package mock

import (
	"sync"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"
)

// Element is a mock DOM node
type Element struct {
	mu sync.Mutex

	Label      string
	TextValue  string
	Attributes map[string]string
	Displayed  bool
	Enabled    bool
	Selected   bool
	Bounds     entities.Rect

	// ClickFailures makes the next N clicks fail with ClickErr
	ClickFailures int
	ClickErr      error

	Value  string
	Files  []string
	Clicks int
	Hovers int

	children map[key][]*Element
}

// NewElement creates a visible, enabled element
func NewElement(label string) *Element {
	return &Element{
		Label:      label,
		Attributes: make(map[string]string),
		Displayed:  true,
		Enabled:    true,
		children:   make(map[key][]*Element),
	}
}

// WithText sets the visible text
func (e *Element) WithText(text string) *Element {
	e.TextValue = text
	return e
}

// WithAttribute sets an attribute
func (e *Element) WithAttribute(name, value string) *Element {
	e.Attributes[name] = value
	return e
}

// WithBounds sets the bounding box
func (e *Element) WithBounds(x, y, width, height int) *Element {
	e.Bounds = entities.Rect{
		Point: entities.Point{X: x, Y: y},
		Size:  entities.Size{Width: width, Height: height},
	}
	return e
}

// AddChild registers nested elements for a locator
func (e *Element) AddChild(locator entities.Locator, elems ...*Element) *Element {
	e.children[keyOf(locator)] = append(e.children[keyOf(locator)], elems...)
	return e
}

// SetDisplayed toggles visibility
func (e *Element) SetDisplayed(displayed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Displayed = displayed
}

// SetEnabled toggles the enabled state
func (e *Element) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Enabled = enabled
}

// ClickCount returns how many clicks succeeded
func (e *Element) ClickCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Clicks
}

func (e *Element) Click() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ClickFailures > 0 {
		e.ClickFailures--
		return e.ClickErr
	}
	e.Clicks++
	return nil
}

func (e *Element) SendKeys(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Value += text
	return nil
}

func (e *Element) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Value = ""
	return nil
}

func (e *Element) Hover() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Hovers++
	return nil
}

func (e *Element) SetFiles(paths ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Files = append(e.Files, paths...)
	return nil
}

func (e *Element) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.TextValue, nil
}

func (e *Element) Attribute(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Attributes[name], nil
}

func (e *Element) IsDisplayed() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Displayed, nil
}

func (e *Element) IsEnabled() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Enabled, nil
}

func (e *Element) IsSelected() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Selected, nil
}

func (e *Element) Rect() (entities.Rect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Bounds, nil
}

func (e *Element) FindElements(locator entities.Locator) ([]interfaces.Element, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return toInterfaces(e.children[keyOf(locator)]), nil
}
