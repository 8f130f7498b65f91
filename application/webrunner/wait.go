package webrunner

import (
	"context"
	"fmt"
	"time"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"
)

func (w *WebRunner) timeout(t time.Duration) time.Duration {
	if t <= 0 {
		return w.cfg.Timeout
	}
	return t
}

// waitFor polls cond on the current session until it returns true
func (w *WebRunner) waitFor(ctx context.Context, timeout time.Duration, cond func(d interfaces.Driver) (bool, error)) error {
	d, err := w.session()
	if err != nil {
		return err
	}
	return poll(ctx, w.timeout(timeout), w.cfg.PollInterval, func() error {
		ok, err := cond(d)
		if err != nil {
			return err
		}
		if !ok {
			return errNotYet
		}
		return nil
	})
}

// waitForElement polls until the first element matching loc satisfies accept
func (w *WebRunner) waitForElement(ctx context.Context, loc entities.Locator, timeout time.Duration, accept func(interfaces.Element) (bool, error)) (interfaces.Element, error) {
	var found interfaces.Element
	err := w.waitFor(ctx, timeout, func(d interfaces.Driver) (bool, error) {
		elems, err := d.FindElements(loc)
		if err != nil || len(elems) == 0 {
			return false, err
		}
		if accept != nil {
			ok, err := accept(elems[0])
			if err != nil || !ok {
				return false, err
			}
		}
		found = elems[0]
		return true, nil
	})
	return found, err
}

// WaitForPresence waits until loc is attached to the DOM
func (w *WebRunner) WaitForPresence(ctx context.Context, loc entities.Locator, timeout time.Duration) (interfaces.Element, error) {
	el, err := w.waitForElement(ctx, loc, timeout, nil)
	if err != nil {
		return nil, fmt.Errorf("waiting for presence of %s: %w", loc, err)
	}
	return el, nil
}

// WaitForVisible waits until loc is present and displayed
func (w *WebRunner) WaitForVisible(ctx context.Context, loc entities.Locator, timeout time.Duration) (interfaces.Element, error) {
	el, err := w.waitForElement(ctx, loc, timeout, interfaces.Element.IsDisplayed)
	if err != nil {
		return nil, fmt.Errorf("waiting for visibility of %s: %w", loc, err)
	}
	return el, nil
}

// WaitForInvisible waits until loc is absent or hidden
func (w *WebRunner) WaitForInvisible(ctx context.Context, loc entities.Locator, timeout time.Duration) error {
	err := w.waitFor(ctx, timeout, func(d interfaces.Driver) (bool, error) {
		elems, err := d.FindElements(loc)
		if err != nil {
			return false, err
		}
		for _, el := range elems {
			displayed, err := el.IsDisplayed()
			if err != nil {
				// stale elements count as gone
				continue
			}
			if displayed {
				return false, nil
			}
		}
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("waiting for invisibility of %s: %w", loc, err)
	}
	return nil
}

// WaitForClickable waits until loc is displayed and enabled
func (w *WebRunner) WaitForClickable(ctx context.Context, loc entities.Locator, timeout time.Duration) (interfaces.Element, error) {
	el, err := w.waitForElement(ctx, loc, timeout, func(el interfaces.Element) (bool, error) {
		displayed, err := el.IsDisplayed()
		if err != nil || !displayed {
			return false, err
		}
		return el.IsEnabled()
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for %s to be clickable: %w", loc, err)
	}
	return el, nil
}

// WaitForAlert waits for an alert and returns its text
func (w *WebRunner) WaitForAlert(ctx context.Context, timeout time.Duration) (string, error) {
	var text string
	err := w.waitFor(ctx, timeout, func(d interfaces.Driver) (bool, error) {
		t, err := d.AlertText()
		if err != nil {
			return false, err
		}
		text = t
		return true, nil
	})
	if err != nil {
		return "", fmt.Errorf("waiting for alert: %w", err)
	}
	return text, nil
}

// AcceptAlert accepts the open alert
func (w *WebRunner) AcceptAlert(ctx context.Context) error {
	d, err := w.session()
	if err != nil {
		return err
	}
	if err := d.AcceptAlert(); err != nil {
		return w.fail(ctx, "accept alert", "", "", err)
	}
	w.logger.Info("Alert accepted")
	return nil
}

// DismissAlert dismisses the open alert
func (w *WebRunner) DismissAlert(ctx context.Context) error {
	d, err := w.session()
	if err != nil {
		return err
	}
	if err := d.DismissAlert(); err != nil {
		return w.fail(ctx, "dismiss alert", "", "", err)
	}
	w.logger.Info("Alert dismissed")
	return nil
}
