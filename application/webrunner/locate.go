package webrunner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"
)

// FindElement waits for loc to resolve and returns the first match.
// A zero timeout uses the configured default. On expiry the locator is
// recorded in the failed locators file.
func (w *WebRunner) FindElement(ctx context.Context, loc entities.Locator, timeout time.Duration) (interfaces.Element, error) {
	if err := loc.Validate(); err != nil {
		return nil, &ActionError{Op: "find", Locator: loc.String(), Err: err}
	}
	el, err := w.waitForElement(ctx, loc, timeout, nil)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			w.recordFailedLocator(loc)
			return nil, &ActionError{Op: "find", Locator: loc.String(), Err: fmt.Errorf("%w: %w", ErrElementNotFound, err)}
		}
		return nil, err
	}
	return el, nil
}

// FindElements waits until loc resolves to at least one element
func (w *WebRunner) FindElements(ctx context.Context, loc entities.Locator, timeout time.Duration) ([]interfaces.Element, error) {
	if err := loc.Validate(); err != nil {
		return nil, &ActionError{Op: "find all", Locator: loc.String(), Err: err}
	}
	var found []interfaces.Element
	err := w.waitFor(ctx, timeout, func(d interfaces.Driver) (bool, error) {
		elems, err := d.FindElements(loc)
		if err != nil || len(elems) == 0 {
			return false, err
		}
		found = elems
		return true, nil
	})
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, &ActionError{Op: "find all", Locator: loc.String(), Err: fmt.Errorf("%w: %w", ErrElementNotFound, err)}
		}
		return nil, err
	}
	return found, nil
}

// recordFailedLocator writes loc under <Type>.<Method>[.<Name>] of the
// page object that asked for it. Failures are only logged.
func (w *WebRunner) recordFailedLocator(loc entities.Locator) {
	if !w.cfg.RecordFailedLocators || w.failedLocators == nil {
		return
	}
	c := callerOutside()
	key := c.Type + "." + c.Method
	if loc.Name != "" {
		key += "." + loc.Name
	}
	if err := w.failedLocators.Record(key, loc.Value); err != nil {
		w.logger.WithError(err).WithField("key", key).Warn("Failed to record failed locator")
		return
	}
	w.logger.WithField("key", key).Debugf("Recorded failed locator %s", loc)
}
