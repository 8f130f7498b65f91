package webrunner

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"
)

var errNilElement = errors.New("element is nil")

var optionLocator = entities.Locator{By: entities.ByTagName, Value: "option"}

// Click - native click retried three times, then shows "Click: <functionName>"
// in the page overlay when show_actions is on
func (w *WebRunner) Click(ctx context.Context, el interfaces.Element, functionName string) error {
	if el == nil {
		return w.fail(ctx, "click", "", functionName, errNilElement)
	}
	if err := Retry(ctx, clickAttempts, w.clickDelay, el.Click); err != nil {
		return w.fail(ctx, "click", "", functionName, err)
	}
	w.logger.WithField("op", "click").Infof("Clicked element in %s", functionName)
	w.displayLog(ctx, "Click: "+functionName)
	return nil
}

// JSClick - clicks through script, bypassing overlays and hit testing
func (w *WebRunner) JSClick(ctx context.Context, el interfaces.Element) error {
	if err := w.execOn(el, clickScript); err != nil {
		return w.fail(ctx, "js click", "", "", err)
	}
	w.logger.WithField("op", "js click").Info("Clicked element via script")
	return nil
}

// WaitAndClick - waits for loc to be clickable and clicks it, falling back
// to a script click when the native click is refused
func (w *WebRunner) WaitAndClick(ctx context.Context, loc entities.Locator, timeout time.Duration) error {
	el, err := w.WaitForClickable(ctx, loc, timeout)
	if err != nil {
		return w.fail(ctx, "wait and click", loc.String(), "", err)
	}
	if err := el.Click(); err != nil {
		w.logger.WithError(err).WithField("locator", loc.String()).Warn("Native click failed, using script click")
		if err := w.execOn(el, clickScript); err != nil {
			return w.fail(ctx, "wait and click", loc.String(), "", err)
		}
	}
	w.logger.WithField("locator", loc.String()).Infof("Clicked %s", loc)
	return nil
}

// InputText - types text, clearing the field first when clear is set
func (w *WebRunner) InputText(ctx context.Context, el interfaces.Element, text string, clear bool) error {
	if el == nil {
		return w.fail(ctx, "input", "", "", errNilElement)
	}
	if clear {
		if err := el.Clear(); err != nil {
			return w.fail(ctx, "input", "", "", fmt.Errorf("clear: %w", err))
		}
	}
	if err := el.SendKeys(text); err != nil {
		return w.fail(ctx, "input", "", "", err)
	}
	w.logger.WithField("op", "input").Debugf("Entered %d characters", len(text))
	return nil
}

// SelectByValue - selects the <option> whose value attribute equals value
func (w *WebRunner) SelectByValue(ctx context.Context, el interfaces.Element, value string) error {
	return w.selectOption(ctx, el, "value "+value, func(i int, opt interfaces.Element) (bool, error) {
		v, err := opt.Attribute("value")
		return v == value, err
	})
}

// SelectByText - selects the <option> whose visible text equals text
func (w *WebRunner) SelectByText(ctx context.Context, el interfaces.Element, text string) error {
	return w.selectOption(ctx, el, "text "+text, func(i int, opt interfaces.Element) (bool, error) {
		t, err := opt.Text()
		return strings.TrimSpace(t) == strings.TrimSpace(text), err
	})
}

// SelectByIndex - selects the <option> at index
func (w *WebRunner) SelectByIndex(ctx context.Context, el interfaces.Element, index int) error {
	return w.selectOption(ctx, el, fmt.Sprintf("index %d", index), func(i int, opt interfaces.Element) (bool, error) {
		return i == index, nil
	})
}

func (w *WebRunner) selectOption(ctx context.Context, el interfaces.Element, what string, match func(int, interfaces.Element) (bool, error)) error {
	if el == nil {
		return w.fail(ctx, "select", "", "", errNilElement)
	}
	options, err := el.FindElements(optionLocator)
	if err != nil {
		return w.fail(ctx, "select", "", "", err)
	}
	for i, opt := range options {
		ok, err := match(i, opt)
		if err != nil {
			return w.fail(ctx, "select", "", "", err)
		}
		if !ok {
			continue
		}
		if err := w.execOn(opt, selectOptionScript); err != nil {
			return w.fail(ctx, "select", "", "", err)
		}
		w.logger.WithField("op", "select").Infof("Selected option by %s", what)
		return nil
	}
	return w.fail(ctx, "select", "", "", fmt.Errorf("no option with %s", what))
}

// Hover - moves the pointer over el
func (w *WebRunner) Hover(ctx context.Context, el interfaces.Element) error {
	if el == nil {
		return w.fail(ctx, "hover", "", "", errNilElement)
	}
	if err := el.Hover(); err != nil {
		return w.fail(ctx, "hover", "", "", err)
	}
	w.logger.WithField("op", "hover").Info("Hovered over element")
	return nil
}

// DragAndDrop - drags source onto target
func (w *WebRunner) DragAndDrop(ctx context.Context, source, target interfaces.Element) error {
	d, err := w.session()
	if err != nil {
		return err
	}
	if source == nil || target == nil {
		return w.fail(ctx, "drag and drop", "", "", errNilElement)
	}
	if err := d.DragAndDrop(source, target); err != nil {
		return w.fail(ctx, "drag and drop", "", "", err)
	}
	w.logger.WithField("op", "drag and drop").Info("Dragged element onto target")
	return nil
}

// PressKeys - presses keys as a chord on the focused element: each key goes
// down in order and they are released in reverse
func (w *WebRunner) PressKeys(ctx context.Context, keys ...entities.Key) error {
	d, err := w.session()
	if err != nil {
		return err
	}
	for i, k := range keys {
		if err := d.KeyDown(k); err != nil {
			// release what is already held
			for j := i - 1; j >= 0; j-- {
				_ = d.KeyUp(keys[j])
			}
			return w.fail(ctx, "press keys", "", "", fmt.Errorf("key down %s: %w", k, err))
		}
	}
	for i := len(keys) - 1; i >= 0; i-- {
		if err := d.KeyUp(keys[i]); err != nil {
			return w.fail(ctx, "press keys", "", "", fmt.Errorf("key up %s: %w", keys[i], err))
		}
	}
	w.logger.WithField("op", "press keys").Infof("Pressed %v", keys)
	return nil
}

// MoveByOffset - moves the pointer to the absolute viewport position x, y
func (w *WebRunner) MoveByOffset(ctx context.Context, x, y int) error {
	d, err := w.session()
	if err != nil {
		return err
	}
	if err := d.MoveMouse(entities.Point{X: x, Y: y}); err != nil {
		return w.fail(ctx, "move mouse", "", "", err)
	}
	w.logger.WithField("op", "move mouse").Debugf("Moved pointer to %d, %d", x, y)
	return nil
}

// ScrollToElement - scrolls el to the centre of the viewport
func (w *WebRunner) ScrollToElement(ctx context.Context, el interfaces.Element) error {
	if err := w.execOn(el, scrollIntoViewScript); err != nil {
		return w.fail(ctx, "scroll", "", "", err)
	}
	w.logger.WithField("op", "scroll").Info("Scrolled element into view")
	return nil
}

// UploadFile - sets path on a file input
func (w *WebRunner) UploadFile(ctx context.Context, el interfaces.Element, path string) error {
	if el == nil {
		return w.fail(ctx, "upload", "", "", errNilElement)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return w.fail(ctx, "upload", "", "", err)
	}
	if err := el.SetFiles(abs); err != nil {
		return w.fail(ctx, "upload", "", "", err)
	}
	w.logger.WithField("op", "upload").Infof("Uploaded %s", abs)
	return nil
}

// DropFile - uploads path by dispatching a synthetic file drop on target
func (w *WebRunner) DropFile(ctx context.Context, target interfaces.Element, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return w.fail(ctx, "drop file", "", "", fmt.Errorf("read %s: %w", path, err))
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	if err := w.execOn(target, dropFileScript, encoded, filepath.Base(path), mimeType); err != nil {
		return w.fail(ctx, "drop file", "", "", err)
	}
	w.logger.WithField("op", "drop file").Infof("Dropped %s", filepath.Base(path))
	return nil
}

// ElementText returns the visible text of el
func (w *WebRunner) ElementText(ctx context.Context, el interfaces.Element) (string, error) {
	if el == nil {
		return "", w.fail(ctx, "get text", "", "", errNilElement)
	}
	text, err := el.Text()
	if err != nil {
		return "", w.fail(ctx, "get text", "", "", err)
	}
	return text, nil
}

// ElementAttribute returns an attribute of el
func (w *WebRunner) ElementAttribute(ctx context.Context, el interfaces.Element, name string) (string, error) {
	if el == nil {
		return "", w.fail(ctx, "get attribute", "", "", errNilElement)
	}
	value, err := el.Attribute(name)
	if err != nil {
		return "", w.fail(ctx, "get attribute", "", "", err)
	}
	return value, nil
}

func (w *WebRunner) IsDisplayed(ctx context.Context, el interfaces.Element) (bool, error) {
	if el == nil {
		return false, w.fail(ctx, "is displayed", "", "", errNilElement)
	}
	ok, err := el.IsDisplayed()
	if err != nil {
		return false, w.fail(ctx, "is displayed", "", "", err)
	}
	return ok, nil
}

func (w *WebRunner) IsEnabled(ctx context.Context, el interfaces.Element) (bool, error) {
	if el == nil {
		return false, w.fail(ctx, "is enabled", "", "", errNilElement)
	}
	ok, err := el.IsEnabled()
	if err != nil {
		return false, w.fail(ctx, "is enabled", "", "", err)
	}
	return ok, nil
}

// SwitchToWindow focuses the window at index; negative values count from
// the end. Nothing happens when there are not more than |index| windows.
func (w *WebRunner) SwitchToWindow(ctx context.Context, index int) error {
	d, err := w.session()
	if err != nil {
		return err
	}
	handle, ok, err := windowAt(d, index)
	if err != nil {
		return w.fail(ctx, "switch window", "", "", err)
	}
	if !ok {
		return nil
	}
	if err := d.SwitchWindow(handle); err != nil {
		return w.fail(ctx, "switch window", "", "", err)
	}
	w.logger.WithField("window", handle).Info("Switched window")
	return sleep(ctx, w.cfg.ActionDelay)
}

// CloseWindow closes the window at index, with the same index rules as SwitchToWindow
func (w *WebRunner) CloseWindow(ctx context.Context, index int) error {
	d, err := w.session()
	if err != nil {
		return err
	}
	handle, ok, err := windowAt(d, index)
	if err != nil {
		return w.fail(ctx, "close window", "", "", err)
	}
	if !ok {
		return nil
	}
	if err := d.SwitchWindow(handle); err != nil {
		return w.fail(ctx, "close window", "", "", err)
	}
	if err := d.CloseWindow(handle); err != nil {
		return w.fail(ctx, "close window", "", "", err)
	}
	w.logger.WithField("window", handle).Info("Closed window")
	return sleep(ctx, w.cfg.ActionDelay)
}

func windowAt(d interfaces.Driver, index int) (string, bool, error) {
	handles, err := d.WindowHandles()
	if err != nil {
		return "", false, err
	}
	abs := index
	if abs < 0 {
		abs = -abs
	}
	if len(handles) <= abs {
		return "", false, nil
	}
	if index < 0 {
		index += len(handles)
	}
	return handles[index], true, nil
}

// execOn runs script with el as arguments[0]
func (w *WebRunner) execOn(el interfaces.Element, script string, args ...interface{}) error {
	if el == nil {
		return errNilElement
	}
	d, err := w.session()
	if err != nil {
		return err
	}
	_, err = d.ExecuteScript(script, append([]interface{}{el}, args...)...)
	return err
}

// displayLog shows message in the on-page overlay when show_actions is on
func (w *WebRunner) displayLog(ctx context.Context, message string) {
	if !w.cfg.ShowActions {
		return
	}
	d := w.Driver()
	if d == nil {
		return
	}
	if _, err := d.ExecuteScript(overlayScript, message); err != nil {
		w.logger.WithError(err).Debug("Failed to display action overlay")
	}
}
