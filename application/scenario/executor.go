package scenario

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"webrunner/application/webrunner"
	"webrunner/domain/entities"
	"webrunner/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Executor runs scenario actions through a WebRunner
type Executor struct {
	runner  *webrunner.WebRunner
	logger  logrus.FieldLogger
	baseURL string
}

// NewExecutor - creates new executor. baseURL resolves relative navigate URLs.
func NewExecutor(runner *webrunner.WebRunner, logger logrus.FieldLogger, baseURL string) *Executor {
	return &Executor{
		runner:  runner,
		logger:  logger,
		baseURL: baseURL,
	}
}

// Run - executes every action as a report step and stops at the first
// failure. Results cover the actions that ran.
func (e *Executor) Run(ctx context.Context, sc *entities.Scenario) ([]entities.ActionResult, error) {
	e.logger.WithField("scenario", sc.Name).Infof("Running %d action(s)", len(sc.Actions))

	results := make([]entities.ActionResult, 0, len(sc.Actions))
	for i, action := range sc.Actions {
		select {
		case <-ctx.Done():
			return results, fmt.Errorf("scenario canceled: %w", ctx.Err())
		default:
		}

		result, err := e.Execute(ctx, action)
		results = append(results, result)
		if err != nil {
			return results, fmt.Errorf("action %d (%s): %w", i+1, action.Name(), err)
		}
	}
	return results, nil
}

// Execute - runs one action as a named report step
func (e *Executor) Execute(ctx context.Context, action entities.Action) (entities.ActionResult, error) {
	if err := ValidateAction(action); err != nil {
		return entities.ActionResult{Success: false, Message: action.Name(), Error: err.Error()}, err
	}
	var data string
	err := e.runner.Step(ctx, action.Name(), func(ctx context.Context) error {
		var err error
		data, err = e.executeAction(ctx, action)
		return err
	})
	if err != nil {
		return entities.ActionResult{Success: false, Message: action.Name(), Error: err.Error()}, err
	}
	return entities.ActionResult{Success: true, Message: action.Name(), Data: data}, nil
}

// executeAction - dispatches a single action, returning any value it reads
func (e *Executor) executeAction(ctx context.Context, action entities.Action) (string, error) {
	timeout := time.Duration(action.Timeout) * time.Millisecond

	switch action.Type {
	case entities.ActionNavigate:
		target, err := e.resolveURL(action.URL)
		if err != nil {
			return "", err
		}
		return target, e.runner.NavigateToURL(ctx, target)

	case entities.ActionClick:
		el, err := e.find(ctx, action.Locator, timeout)
		if err != nil {
			return "", err
		}
		return "", e.runner.Click(ctx, el, action.Name())

	case entities.ActionJSClick:
		el, err := e.find(ctx, action.Locator, timeout)
		if err != nil {
			return "", err
		}
		return "", e.runner.JSClick(ctx, el)

	case entities.ActionWaitAndClick:
		return "", e.runner.WaitAndClick(ctx, *action.Locator, timeout)

	case entities.ActionTypeText, entities.ActionAppendText:
		el, err := e.find(ctx, action.Locator, timeout)
		if err != nil {
			return "", err
		}
		return "", e.runner.InputText(ctx, el, action.Text, action.Type == entities.ActionTypeText)

	case entities.ActionSelectValue, entities.ActionSelectText, entities.ActionSelectIndex:
		el, err := e.find(ctx, action.Locator, timeout)
		if err != nil {
			return "", err
		}
		switch action.Type {
		case entities.ActionSelectValue:
			return "", e.runner.SelectByValue(ctx, el, action.Text)
		case entities.ActionSelectText:
			return "", e.runner.SelectByText(ctx, el, action.Text)
		}
		return "", e.runner.SelectByIndex(ctx, el, action.Index)

	case entities.ActionHover:
		el, err := e.find(ctx, action.Locator, timeout)
		if err != nil {
			return "", err
		}
		return "", e.runner.Hover(ctx, el)

	case entities.ActionDragAndDrop:
		source, err := e.find(ctx, action.Locator, timeout)
		if err != nil {
			return "", err
		}
		target, err := e.find(ctx, action.Target, timeout)
		if err != nil {
			return "", err
		}
		return "", e.runner.DragAndDrop(ctx, source, target)

	case entities.ActionPressKeys:
		return "", e.runner.PressKeys(ctx, action.Keys...)

	case entities.ActionMoveByOffset:
		return "", e.runner.MoveByOffset(ctx, action.X, action.Y)

	case entities.ActionScroll:
		el, err := e.find(ctx, action.Locator, timeout)
		if err != nil {
			return "", err
		}
		return "", e.runner.ScrollToElement(ctx, el)

	case entities.ActionUpload, entities.ActionDropFile:
		el, err := e.find(ctx, action.Locator, timeout)
		if err != nil {
			return "", err
		}
		if action.Type == entities.ActionUpload {
			return "", e.runner.UploadFile(ctx, el, action.File)
		}
		return "", e.runner.DropFile(ctx, el, action.File)

	case entities.ActionWaitVisible:
		_, err := e.runner.WaitForVisible(ctx, *action.Locator, timeout)
		return "", err

	case entities.ActionWaitInvisible:
		return "", e.runner.WaitForInvisible(ctx, *action.Locator, timeout)

	case entities.ActionWaitClickable:
		_, err := e.runner.WaitForClickable(ctx, *action.Locator, timeout)
		return "", err

	case entities.ActionWaitAlert:
		return e.runner.WaitForAlert(ctx, timeout)

	case entities.ActionAcceptAlert:
		return "", e.runner.AcceptAlert(ctx)

	case entities.ActionDismissAlert:
		return "", e.runner.DismissAlert(ctx)

	case entities.ActionSwitchWindow:
		return "", e.runner.SwitchToWindow(ctx, action.Index)

	case entities.ActionCloseWindow:
		return "", e.runner.CloseWindow(ctx, action.Index)

	case entities.ActionScreenshot:
		name := action.Text
		if name == "" {
			name = action.Name()
		}
		return e.runner.TakeScreenshot(ctx, name)

	case entities.ActionAssertText:
		el, err := e.find(ctx, action.Locator, timeout)
		if err != nil {
			return "", err
		}
		text, err := e.runner.ElementText(ctx, el)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) != strings.TrimSpace(action.Text) {
			return text, fmt.Errorf("expected text %q, got %q", action.Text, text)
		}
		return text, nil

	case entities.ActionStoreCoordinates:
		el, err := e.find(ctx, action.Locator, timeout)
		if err != nil {
			return "", err
		}
		e.runner.StoreCoordinates(ctx, el, action.Text)
		return "", nil

	case entities.ActionClickCoordinates:
		return "", e.runner.ClickStoredCoordinates(ctx, action.Text)

	case entities.ActionSleep:
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(timeout):
		}
		return "", nil
	}

	return "", fmt.Errorf("unknown action: %s", action.Type)
}

func (e *Executor) find(ctx context.Context, loc *entities.Locator, timeout time.Duration) (interfaces.Element, error) {
	if loc == nil {
		return nil, fmt.Errorf("locator is required")
	}
	return e.runner.FindElement(ctx, *loc, timeout)
}

// resolveURL - joins a relative URL onto the base URL
func (e *Executor) resolveURL(raw string) (string, error) {
	target, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if target.IsAbs() || e.baseURL == "" {
		return raw, nil
	}
	base, err := url.Parse(e.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", e.baseURL, err)
	}
	return base.ResolveReference(target).String(), nil
}
