package browser

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
)

const windowSizeScript = `return [window.innerWidth, window.innerHeight];`

// SeleniumDriver drives a WebDriver session through tebeka/selenium
type SeleniumDriver struct {
	wd      selenium.WebDriver
	service *selenium.Service
	actions *pointerActions
	// legacyPointer is set once the remote end rejects /actions
	legacyPointer atomic.Bool
	logger        logrus.FieldLogger
}

// NewSeleniumDriver wraps an existing WebDriver session opened against
// urlPrefix. service may be nil when the session lives on a remote hub.
func NewSeleniumDriver(wd selenium.WebDriver, service *selenium.Service, urlPrefix string, logger logrus.FieldLogger) *SeleniumDriver {
	return &SeleniumDriver{
		wd:      wd,
		service: service,
		actions: newPointerActions(urlPrefix, wd.SessionID()),
		logger:  logger,
	}
}

// WebDriver exposes the underlying session
func (s *SeleniumDriver) WebDriver() selenium.WebDriver {
	return s.wd
}

// Get - navigates browser to specified URL
func (s *SeleniumDriver) Get(url string) error {
	return s.wd.Get(url)
}

// CurrentURL - returns current page URL
func (s *SeleniumDriver) CurrentURL() (string, error) {
	return s.wd.CurrentURL()
}

// Title - returns current page title
func (s *SeleniumDriver) Title() (string, error) {
	return s.wd.Title()
}

// FindElement - resolves a locator to one element
func (s *SeleniumDriver) FindElement(locator entities.Locator) (interfaces.Element, error) {
	elem, err := s.wd.FindElement(seleniumBy(locator.By), locator.Value)
	if err != nil {
		return nil, err
	}
	return &seleniumElement{elem: elem, driver: s}, nil
}

// FindElements - resolves a locator to every matching element
func (s *SeleniumDriver) FindElements(locator entities.Locator) ([]interfaces.Element, error) {
	elems, err := s.wd.FindElements(seleniumBy(locator.By), locator.Value)
	if err != nil {
		return nil, err
	}
	return wrapSeleniumElements(elems, s), nil
}

// ActiveElement - returns the focused element
func (s *SeleniumDriver) ActiveElement() (interfaces.Element, error) {
	elem, err := s.wd.ActiveElement()
	if err != nil {
		return nil, err
	}
	return &seleniumElement{elem: elem, driver: s}, nil
}

// ExecuteScript - runs JavaScript with element arguments unwrapped to WebElements
func (s *SeleniumDriver) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	converted := make([]interface{}, len(args))
	for i, arg := range args {
		if el, ok := arg.(*seleniumElement); ok {
			converted[i] = el.elem
			continue
		}
		converted[i] = arg
	}
	return s.wd.ExecuteScript(script, converted)
}

// Screenshot - takes screenshot of current page
func (s *SeleniumDriver) Screenshot() ([]byte, error) {
	return s.wd.Screenshot()
}

// WindowSize - returns the inner size of the current window
func (s *SeleniumDriver) WindowSize() (entities.Size, error) {
	result, err := s.wd.ExecuteScript(windowSizeScript, nil)
	if err != nil {
		return entities.Size{}, fmt.Errorf("failed to read window size: %w", err)
	}
	return parseWindowSize(result)
}

// WindowHandles - lists open window handles
func (s *SeleniumDriver) WindowHandles() ([]string, error) {
	return s.wd.WindowHandles()
}

// SwitchWindow - focuses the window with the given handle
func (s *SeleniumDriver) SwitchWindow(handle string) error {
	return s.wd.SwitchWindow(handle)
}

// CloseWindow - closes the window with the given handle
func (s *SeleniumDriver) CloseWindow(handle string) error {
	return s.wd.CloseWindow(handle)
}

// pointer - performs steps as W3C actions. Sessions without an /actions
// endpoint run legacy instead, and keep doing so for the rest of the session.
func (s *SeleniumDriver) pointer(legacy func() error, steps ...pointerStep) error {
	if s.actions != nil && !s.legacyPointer.Load() {
		err := s.actions.perform(steps...)
		if !errors.Is(err, errActionsUnsupported) {
			return err
		}
		s.logger.Debug("Remote end has no actions endpoint, using legacy mouse commands")
		s.legacyPointer.Store(true)
	}
	return legacy()
}

// MoveMouse - moves the pointer to a viewport position
func (s *SeleniumDriver) MoveMouse(p entities.Point) error {
	return s.pointer(func() error {
		root, err := s.wd.FindElement(selenium.ByTagName, "html")
		if err != nil {
			return fmt.Errorf("document root not found: %w", err)
		}
		return root.MoveTo(p.X, p.Y)
	}, moveToViewport(p.X, p.Y))
}

// ClickMouse - clicks the left button at the pointer position
func (s *SeleniumDriver) ClickMouse() error {
	return s.pointer(func() error {
		return s.wd.Click(selenium.LeftButton)
	}, buttonDown(), buttonUp())
}

// KeyDown - presses and holds a key on the active element
func (s *SeleniumDriver) KeyDown(key entities.Key) error {
	return s.wd.KeyDown(seleniumKey(key))
}

// KeyUp - releases a key on the active element
func (s *SeleniumDriver) KeyUp(key entities.Key) error {
	return s.wd.KeyUp(seleniumKey(key))
}

// DragAndDrop - presses on the centre of source and releases on the centre of target
func (s *SeleniumDriver) DragAndDrop(source, target interfaces.Element) error {
	src, ok := source.(*seleniumElement)
	if !ok {
		return fmt.Errorf("drag source is not a webdriver element")
	}
	dst, ok := target.(*seleniumElement)
	if !ok {
		return fmt.Errorf("drop target is not a webdriver element")
	}

	from, err := elementOrigin(src.elem)
	if err != nil {
		return fmt.Errorf("drag source: %w", err)
	}
	to, err := elementOrigin(dst.elem)
	if err != nil {
		return fmt.Errorf("drop target: %w", err)
	}

	return s.pointer(func() error {
		return s.legacyDragAndDrop(src, dst)
	}, moveToElement(from), buttonDown(), moveToElement(to), buttonUp())
}

func (s *SeleniumDriver) legacyDragAndDrop(src, dst *seleniumElement) error {
	if err := src.moveToCenter(); err != nil {
		return fmt.Errorf("failed to move to drag source: %w", err)
	}
	if err := s.wd.ButtonDown(); err != nil {
		return fmt.Errorf("failed to press mouse button: %w", err)
	}
	if err := dst.moveToCenter(); err != nil {
		s.wd.ButtonUp()
		return fmt.Errorf("failed to move to drop target: %w", err)
	}
	return s.wd.ButtonUp()
}

// AlertText - returns the text of the open alert
func (s *SeleniumDriver) AlertText() (string, error) {
	return s.wd.AlertText()
}

// AcceptAlert - accepts the open alert
func (s *SeleniumDriver) AcceptAlert() error {
	return s.wd.AcceptAlert()
}

// DismissAlert - dismisses the open alert
func (s *SeleniumDriver) DismissAlert() error {
	return s.wd.DismissAlert()
}

// SetImplicitWait - sets the WebDriver implicit element wait
func (s *SeleniumDriver) SetImplicitWait(seconds int) error {
	return s.wd.SetImplicitWaitTimeout(time.Duration(seconds) * time.Second)
}

// Quit - closes browser and stops the driver service
func (s *SeleniumDriver) Quit() error {
	var quitErr error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			quitErr = fmt.Errorf("failed to quit session: %w", err)
		}
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			s.logger.Warnf("Failed to stop driver service: %v", err)
		}
	}
	return quitErr
}

type seleniumElement struct {
	elem   selenium.WebElement
	driver *SeleniumDriver
}

func wrapSeleniumElements(elems []selenium.WebElement, driver *SeleniumDriver) []interfaces.Element {
	result := make([]interfaces.Element, 0, len(elems))
	for _, elem := range elems {
		result = append(result, &seleniumElement{elem: elem, driver: driver})
	}
	return result
}

func (e *seleniumElement) Click() error {
	return e.elem.Click()
}

func (e *seleniumElement) SendKeys(text string) error {
	return e.elem.SendKeys(text)
}

func (e *seleniumElement) Clear() error {
	return e.elem.Clear()
}

func (e *seleniumElement) Hover() error {
	origin, err := elementOrigin(e.elem)
	if err != nil {
		return err
	}
	return e.driver.pointer(e.moveToCenter, moveToElement(origin))
}

// SetFiles - WebDriver takes multiple files as newline separated paths
func (e *seleniumElement) SetFiles(paths ...string) error {
	return e.elem.SendKeys(strings.Join(paths, "\n"))
}

func (e *seleniumElement) Text() (string, error) {
	return e.elem.Text()
}

func (e *seleniumElement) Attribute(name string) (string, error) {
	return e.elem.GetAttribute(name)
}

func (e *seleniumElement) IsDisplayed() (bool, error) {
	return e.elem.IsDisplayed()
}

func (e *seleniumElement) IsEnabled() (bool, error) {
	return e.elem.IsEnabled()
}

func (e *seleniumElement) IsSelected() (bool, error) {
	return e.elem.IsSelected()
}

func (e *seleniumElement) Rect() (entities.Rect, error) {
	loc, err := e.elem.Location()
	if err != nil {
		return entities.Rect{}, err
	}
	size, err := e.elem.Size()
	if err != nil {
		return entities.Rect{}, err
	}
	return entities.Rect{
		Point: entities.Point{X: loc.X, Y: loc.Y},
		Size:  entities.Size{Width: size.Width, Height: size.Height},
	}, nil
}

func (e *seleniumElement) FindElements(locator entities.Locator) ([]interfaces.Element, error) {
	elems, err := e.elem.FindElements(seleniumBy(locator.By), locator.Value)
	if err != nil {
		return nil, err
	}
	return wrapSeleniumElements(elems, e.driver), nil
}

// moveToCenter - legacy /moveto, offsets are from the element's top-left corner
func (e *seleniumElement) moveToCenter() error {
	size, err := e.elem.Size()
	if err != nil {
		return err
	}
	return e.elem.MoveTo(size.Width/2, size.Height/2)
}

// seleniumBy maps a strategy onto the WebDriver "using" value. The
// strategy names are the WebDriver ones, so this only guards unknowns.
func seleniumBy(by entities.Strategy) string {
	switch by {
	case entities.ByID:
		return selenium.ByID
	case entities.ByName:
		return selenium.ByName
	case entities.ByXPath:
		return selenium.ByXPATH
	case entities.ByClassName:
		return selenium.ByClassName
	case entities.ByTagName:
		return selenium.ByTagName
	case entities.ByLinkText:
		return selenium.ByLinkText
	case entities.ByPartialLinkText:
		return selenium.ByPartialLinkText
	default:
		return selenium.ByCSSSelector
	}
}

var seleniumKeys = map[entities.Key]string{
	entities.KeyEnter:      selenium.EnterKey,
	entities.KeyTab:        selenium.TabKey,
	entities.KeyEscape:     selenium.EscapeKey,
	entities.KeyBackspace:  selenium.BackspaceKey,
	entities.KeyDelete:     selenium.DeleteKey,
	entities.KeySpace:      selenium.SpaceKey,
	entities.KeyArrowUp:    selenium.UpArrowKey,
	entities.KeyArrowDown:  selenium.DownArrowKey,
	entities.KeyArrowLeft:  selenium.LeftArrowKey,
	entities.KeyArrowRight: selenium.RightArrowKey,
	entities.KeyHome:       selenium.HomeKey,
	entities.KeyEnd:        selenium.EndKey,
	entities.KeyPageUp:     selenium.PageUpKey,
	entities.KeyPageDown:   selenium.PageDownKey,
	entities.KeyShift:      selenium.ShiftKey,
	entities.KeyControl:    selenium.ControlKey,
	entities.KeyAlt:        selenium.AltKey,
	entities.KeyMeta:       selenium.MetaKey,
}

// seleniumKey returns the WebDriver code point for a named key; anything
// else is typed literally.
func seleniumKey(key entities.Key) string {
	if code, ok := seleniumKeys[key]; ok {
		return code
	}
	return string(key)
}

// parseWindowSize reads the [width, height] pair returned by windowSizeScript
func parseWindowSize(result interface{}) (entities.Size, error) {
	pair, ok := result.([]interface{})
	if !ok || len(pair) != 2 {
		return entities.Size{}, fmt.Errorf("unexpected window size result: %v", result)
	}
	width, wok := toInt(pair[0])
	height, hok := toInt(pair[1])
	if !wok || !hok {
		return entities.Size{}, fmt.Errorf("unexpected window size result: %v", result)
	}
	return entities.Size{Width: width, Height: height}, nil
}

// toInt - converts a JSON number to int
func toInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	}
	return 0, false
}
