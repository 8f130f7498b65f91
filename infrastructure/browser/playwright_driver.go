package browser

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

var (
	errNoSuchElement = errors.New("no such element")
	errNoAlert       = errors.New("no alert open")
)

type trackedPage struct {
	handle string
	page   playwright.Page
}

// PlaywrightDriver drives a Playwright browser context. Windows are the
// context's pages; new pages opened by the site are tracked automatically.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	logger  logrus.FieldLogger

	pagesMutex sync.Mutex
	page       playwright.Page
	pages      []trackedPage
	nextHandle int
	dialog     playwright.Dialog
}

func newPlaywrightDriver(pw *playwright.Playwright, browser playwright.Browser, context playwright.BrowserContext, page playwright.Page, logger logrus.FieldLogger) *PlaywrightDriver {
	d := &PlaywrightDriver{
		pw:      pw,
		browser: browser,
		context: context,
		logger:  logger,
	}
	d.track(page)
	d.page = page

	context.OnPage(func(newPage playwright.Page) {
		d.pagesMutex.Lock()
		defer d.pagesMutex.Unlock()
		d.track(newPage)
	})

	return d
}

// track registers a page under a new handle. Callers hold pagesMutex, except
// during construction.
func (d *PlaywrightDriver) track(page playwright.Page) {
	d.nextHandle++
	d.pages = append(d.pages, trackedPage{
		handle: fmt.Sprintf("page-%d", d.nextHandle),
		page:   page,
	})

	page.OnDialog(func(dialog playwright.Dialog) {
		d.pagesMutex.Lock()
		defer d.pagesMutex.Unlock()
		d.dialog = dialog
	})

	page.OnClose(func(closedPage playwright.Page) {
		d.pagesMutex.Lock()
		defer d.pagesMutex.Unlock()

		for i, p := range d.pages {
			if p.page == closedPage {
				d.pages = append(d.pages[:i], d.pages[i+1:]...)
				break
			}
		}

		if d.page == closedPage && len(d.pages) > 0 {
			d.page = d.pages[0].page
		}
	})
}

func (d *PlaywrightDriver) currentPage() playwright.Page {
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()
	return d.page
}

// Get - navigates the current page to the URL
func (d *PlaywrightDriver) Get(url string) error {
	_, err := d.currentPage().Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return err
}

// CurrentURL - returns the current page URL
func (d *PlaywrightDriver) CurrentURL() (string, error) {
	return d.currentPage().URL(), nil
}

// Title - returns the current page title
func (d *PlaywrightDriver) Title() (string, error) {
	return d.currentPage().Title()
}

// FindElement - resolves a locator to its first match
func (d *PlaywrightDriver) FindElement(locator entities.Locator) (interfaces.Element, error) {
	elems, err := d.FindElements(locator)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: %s", errNoSuchElement, locator)
	}
	return elems[0], nil
}

// FindElements - resolves a locator to every match
func (d *PlaywrightDriver) FindElements(locator entities.Locator) ([]interfaces.Element, error) {
	all, err := d.currentPage().Locator(playwrightSelector(locator)).All()
	if err != nil {
		return nil, err
	}
	return wrapLocators(all), nil
}

// ActiveElement - returns the focused element
func (d *PlaywrightDriver) ActiveElement() (interfaces.Element, error) {
	return d.FindElement(entities.CSS("*:focus"))
}

// ExecuteScript - runs a WebDriver style script body where arguments[i]
// are the given values
func (d *PlaywrightDriver) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	converted := make([]interface{}, len(args))
	for i, arg := range args {
		el, ok := arg.(*playwrightElement)
		if !ok {
			converted[i] = arg
			continue
		}
		handle, err := el.locator.ElementHandle()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve script argument %d: %w", i, err)
		}
		converted[i] = handle
	}
	return d.currentPage().Evaluate(wrapScript(script), converted)
}

// Screenshot - captures the viewport as PNG
func (d *PlaywrightDriver) Screenshot() ([]byte, error) {
	return d.currentPage().Screenshot()
}

// WindowSize - returns the viewport size
func (d *PlaywrightDriver) WindowSize() (entities.Size, error) {
	page := d.currentPage()
	if size := page.ViewportSize(); size != nil {
		return entities.Size{Width: size.Width, Height: size.Height}, nil
	}
	result, err := page.Evaluate(wrapScript(windowSizeScript), []interface{}{})
	if err != nil {
		return entities.Size{}, fmt.Errorf("failed to read window size: %w", err)
	}
	return parseWindowSize(result)
}

// WindowHandles - lists tracked pages in opening order
func (d *PlaywrightDriver) WindowHandles() ([]string, error) {
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()

	handles := make([]string, 0, len(d.pages))
	for _, p := range d.pages {
		handles = append(handles, p.handle)
	}
	return handles, nil
}

// SwitchWindow - makes the page with the handle current
func (d *PlaywrightDriver) SwitchWindow(handle string) error {
	d.pagesMutex.Lock()
	var target playwright.Page
	for _, p := range d.pages {
		if p.handle == handle {
			target = p.page
			d.page = target
			break
		}
	}
	count := len(d.pages)
	d.pagesMutex.Unlock()

	if target == nil {
		return fmt.Errorf("invalid window handle: %s (available windows: %d)", handle, count)
	}
	return target.BringToFront()
}

// CloseWindow - closes the page with the handle
func (d *PlaywrightDriver) CloseWindow(handle string) error {
	d.pagesMutex.Lock()
	var target playwright.Page
	for _, p := range d.pages {
		if p.handle == handle {
			target = p.page
			break
		}
	}
	d.pagesMutex.Unlock()

	if target == nil {
		return fmt.Errorf("invalid window handle: %s", handle)
	}
	return target.Close()
}

// MoveMouse - moves the pointer to a viewport position
func (d *PlaywrightDriver) MoveMouse(p entities.Point) error {
	return d.currentPage().Mouse().Move(float64(p.X), float64(p.Y))
}

// ClickMouse - clicks at the pointer position
func (d *PlaywrightDriver) ClickMouse() error {
	mouse := d.currentPage().Mouse()
	if err := mouse.Down(); err != nil {
		return err
	}
	return mouse.Up()
}

// KeyDown - presses and holds a key
func (d *PlaywrightDriver) KeyDown(key entities.Key) error {
	return d.currentPage().Keyboard().Down(string(key))
}

// KeyUp - releases a key
func (d *PlaywrightDriver) KeyUp(key entities.Key) error {
	return d.currentPage().Keyboard().Up(string(key))
}

// DragAndDrop - drags source onto target
func (d *PlaywrightDriver) DragAndDrop(source, target interfaces.Element) error {
	src, ok := source.(*playwrightElement)
	if !ok {
		return fmt.Errorf("drag source is not a playwright element")
	}
	dst, ok := target.(*playwrightElement)
	if !ok {
		return fmt.Errorf("drop target is not a playwright element")
	}
	return src.locator.DragTo(dst.locator)
}

func (d *PlaywrightDriver) pendingDialog() (playwright.Dialog, error) {
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()
	if d.dialog == nil {
		return nil, errNoAlert
	}
	return d.dialog, nil
}

func (d *PlaywrightDriver) clearDialog() {
	d.pagesMutex.Lock()
	d.dialog = nil
	d.pagesMutex.Unlock()
}

// AlertText - returns the message of the pending dialog
func (d *PlaywrightDriver) AlertText() (string, error) {
	dialog, err := d.pendingDialog()
	if err != nil {
		return "", err
	}
	return dialog.Message(), nil
}

// AcceptAlert - accepts the pending dialog
func (d *PlaywrightDriver) AcceptAlert() error {
	dialog, err := d.pendingDialog()
	if err != nil {
		return err
	}
	defer d.clearDialog()
	return dialog.Accept()
}

// DismissAlert - dismisses the pending dialog
func (d *PlaywrightDriver) DismissAlert() error {
	dialog, err := d.pendingDialog()
	if err != nil {
		return err
	}
	defer d.clearDialog()
	return dialog.Dismiss()
}

// SetImplicitWait - Playwright locators auto-wait per action, nothing to set
func (d *PlaywrightDriver) SetImplicitWait(int) error {
	return nil
}

// Quit - closes the context, the browser and the Playwright driver
func (d *PlaywrightDriver) Quit() error {
	var closeErr error

	if d.context != nil {
		if err := d.context.Close(); err != nil && !isClosedError(err) {
			closeErr = fmt.Errorf("failed to close context: %w", err)
		}
		d.context = nil
	}

	if d.browser != nil {
		if err := d.browser.Close(); err != nil && !isClosedError(err) {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; failed to close browser: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("failed to close browser: %w", err)
			}
		}
		d.browser = nil
	}

	if d.pw != nil {
		if err := d.pw.Stop(); err != nil {
			d.logger.Warnf("Failed to stop playwright: %v", err)
		}
		d.pw = nil
	}

	return closeErr
}

// isClosedError - closing an already closed target is not a failure
func isClosedError(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

type playwrightElement struct {
	locator playwright.Locator
}

func wrapLocators(locators []playwright.Locator) []interfaces.Element {
	result := make([]interfaces.Element, 0, len(locators))
	for _, l := range locators {
		result = append(result, &playwrightElement{locator: l})
	}
	return result
}

func (e *playwrightElement) Click() error {
	return e.locator.Click()
}

func (e *playwrightElement) SendKeys(text string) error {
	return e.locator.PressSequentially(text)
}

func (e *playwrightElement) Clear() error {
	return e.locator.Clear()
}

func (e *playwrightElement) Hover() error {
	return e.locator.Hover()
}

func (e *playwrightElement) SetFiles(paths ...string) error {
	return e.locator.SetInputFiles(paths)
}

func (e *playwrightElement) Text() (string, error) {
	return e.locator.InnerText()
}

func (e *playwrightElement) Attribute(name string) (string, error) {
	return e.locator.GetAttribute(name)
}

func (e *playwrightElement) IsDisplayed() (bool, error) {
	return e.locator.IsVisible()
}

func (e *playwrightElement) IsEnabled() (bool, error) {
	return e.locator.IsEnabled()
}

func (e *playwrightElement) IsSelected() (bool, error) {
	result, err := e.locator.Evaluate(`el => Boolean(el.selected || el.checked)`, nil)
	if err != nil {
		return false, err
	}
	selected, _ := result.(bool)
	return selected, nil
}

func (e *playwrightElement) Rect() (entities.Rect, error) {
	box, err := e.locator.BoundingBox()
	if err != nil {
		return entities.Rect{}, err
	}
	if box == nil {
		return entities.Rect{}, fmt.Errorf("element has no bounding box")
	}
	return entities.Rect{
		Point: entities.Point{X: int(box.X), Y: int(box.Y)},
		Size:  entities.Size{Width: int(box.Width), Height: int(box.Height)},
	}, nil
}

func (e *playwrightElement) FindElements(locator entities.Locator) ([]interfaces.Element, error) {
	all, err := e.locator.Locator(playwrightSelector(locator)).All()
	if err != nil {
		return nil, err
	}
	return wrapLocators(all), nil
}

// playwrightSelector translates a WebDriver style locator into a
// Playwright selector
func playwrightSelector(locator entities.Locator) string {
	v := locator.Value
	switch locator.By {
	case entities.ByXPath:
		return "xpath=" + v
	case entities.ByID:
		return fmt.Sprintf("css=[id=%q]", v)
	case entities.ByName:
		return fmt.Sprintf("css=[name=%q]", v)
	case entities.ByClassName:
		return "css=." + v
	case entities.ByTagName:
		return "css=" + v
	case entities.ByLinkText:
		return fmt.Sprintf("css=a:text-is(%q)", v)
	case entities.ByPartialLinkText:
		return fmt.Sprintf("css=a:has-text(%q)", v)
	default:
		return "css=" + v
	}
}

// wrapScript turns a script body using arguments[i] into a function
// expression taking the argument list
func wrapScript(script string) string {
	return "(args) => (function() {\n" + script + "\n}).apply(null, args)"
}
