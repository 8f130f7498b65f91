// Package mock provides a scripted in-memory driver for testing without a
// real browser.
package mock

import (
	"errors"
	"fmt"
	"sync"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"
)

// ErrNoSuchElement is returned by FindElement when nothing matches
var ErrNoSuchElement = errors.New("no such element")

// ErrNoAlert is returned by alert calls when no alert is open
var ErrNoAlert = errors.New("no alert open")

type key struct {
	by    entities.Strategy
	value string
}

func keyOf(l entities.Locator) key {
	return key{by: l.By, value: l.Value}
}

// ScriptCall records one ExecuteScript invocation
type ScriptCall struct {
	Script string
	Args   []interface{}
}

// Driver is a mock implementation of interfaces.Driver. Elements are
// registered per locator; a registration can be delayed by a number of
// lookups to simulate content that renders late.
type Driver struct {
	mu sync.Mutex

	URL       string
	PageTitle string
	Window    entities.Size
	PNG       []byte

	// ScriptHandler answers ExecuteScript; nil returns (nil, nil)
	ScriptHandler func(script string, args []interface{}) (interface{}, error)

	GetErr        error
	ScreenshotErr error
	QuitErr       error

	Handles []string
	Current string
	Alert   *string

	Mouse        entities.Point
	MouseClicks  int
	KeysDown     []entities.Key
	KeysUp       []entities.Key
	Drags        [][2]*Element
	Scripts      []ScriptCall
	Visited      []string
	Closed       []string
	ImplicitWait int
	Quitted      bool
	Active       *Element

	elements    map[key][]*Element
	appearAfter map[key]int
	lookups     map[key]int
}

// New creates a mock driver with one window and a 1000x800 viewport
func New() *Driver {
	return &Driver{
		Window:      entities.Size{Width: 1000, Height: 800},
		PNG:         []byte("\x89PNG\r\n\x1a\nmock"),
		Handles:     []string{"window-1"},
		Current:     "window-1",
		elements:    make(map[key][]*Element),
		appearAfter: make(map[key]int),
		lookups:     make(map[key]int),
	}
}

// Add registers elements for a locator
func (d *Driver) Add(locator entities.Locator, elems ...*Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[keyOf(locator)] = append(d.elements[keyOf(locator)], elems...)
}

// AddAfter registers elements that only resolve after the given number of lookups
func (d *Driver) AddAfter(locator entities.Locator, lookups int, elems ...*Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[keyOf(locator)] = append(d.elements[keyOf(locator)], elems...)
	d.appearAfter[keyOf(locator)] = lookups
}

// Remove drops every element registered for a locator
func (d *Driver) Remove(locator entities.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, keyOf(locator))
}

// Lookups returns how many times a locator was resolved
func (d *Driver) Lookups(locator entities.Locator) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lookups[keyOf(locator)]
}

// OpenAlert shows an alert with the given text
func (d *Driver) OpenAlert(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Alert = &text
}

func (d *Driver) resolve(locator entities.Locator) []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := keyOf(locator)
	d.lookups[k]++
	if d.lookups[k] <= d.appearAfter[k] {
		return nil
	}
	return d.elements[k]
}

func (d *Driver) Get(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.GetErr != nil {
		return d.GetErr
	}
	d.URL = url
	d.Visited = append(d.Visited, url)
	return nil
}

func (d *Driver) CurrentURL() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.URL, nil
}

func (d *Driver) Title() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.PageTitle, nil
}

func (d *Driver) FindElement(locator entities.Locator) (interfaces.Element, error) {
	elems := d.resolve(locator)
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, locator)
	}
	return elems[0], nil
}

func (d *Driver) FindElements(locator entities.Locator) ([]interfaces.Element, error) {
	return toInterfaces(d.resolve(locator)), nil
}

func (d *Driver) ActiveElement() (interfaces.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Active == nil {
		return nil, fmt.Errorf("%w: active element", ErrNoSuchElement)
	}
	return d.Active, nil
}

func (d *Driver) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	d.mu.Lock()
	d.Scripts = append(d.Scripts, ScriptCall{Script: script, Args: args})
	handler := d.ScriptHandler
	d.mu.Unlock()

	if handler == nil {
		return nil, nil
	}
	return handler(script, args)
}

func (d *Driver) Screenshot() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ScreenshotErr != nil {
		return nil, d.ScreenshotErr
	}
	return d.PNG, nil
}

func (d *Driver) WindowSize() (entities.Size, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Window, nil
}

func (d *Driver) WindowHandles() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Handles...), nil
}

func (d *Driver) SwitchWindow(handle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.Handles {
		if h == handle {
			d.Current = handle
			return nil
		}
	}
	return fmt.Errorf("no such window: %s", handle)
}

func (d *Driver) CloseWindow(handle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, h := range d.Handles {
		if h == handle {
			d.Handles = append(d.Handles[:i], d.Handles[i+1:]...)
			d.Closed = append(d.Closed, handle)
			return nil
		}
	}
	return fmt.Errorf("no such window: %s", handle)
}

func (d *Driver) MoveMouse(p entities.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Mouse = p
	return nil
}

func (d *Driver) ClickMouse() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.MouseClicks++
	return nil
}

func (d *Driver) KeyDown(k entities.Key) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.KeysDown = append(d.KeysDown, k)
	return nil
}

func (d *Driver) KeyUp(k entities.Key) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.KeysUp = append(d.KeysUp, k)
	return nil
}

func (d *Driver) DragAndDrop(source, target interfaces.Element) error {
	src, ok := source.(*Element)
	if !ok {
		return fmt.Errorf("drag source is not a mock element")
	}
	dst, ok := target.(*Element)
	if !ok {
		return fmt.Errorf("drop target is not a mock element")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Drags = append(d.Drags, [2]*Element{src, dst})
	return nil
}

func (d *Driver) AlertText() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Alert == nil {
		return "", ErrNoAlert
	}
	return *d.Alert, nil
}

func (d *Driver) AcceptAlert() error {
	return d.closeAlert()
}

func (d *Driver) DismissAlert() error {
	return d.closeAlert()
}

func (d *Driver) closeAlert() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Alert == nil {
		return ErrNoAlert
	}
	d.Alert = nil
	return nil
}

func (d *Driver) SetImplicitWait(seconds int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ImplicitWait = seconds
	return nil
}

func (d *Driver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.QuitErr != nil {
		return d.QuitErr
	}
	d.Quitted = true
	return nil
}

func toInterfaces(elems []*Element) []interfaces.Element {
	result := make([]interfaces.Element, 0, len(elems))
	for _, e := range elems {
		result = append(result, e)
	}
	return result
}
