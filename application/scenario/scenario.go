// Package scenario loads JSON scenario files and runs their actions
// through a WebRunner.
package scenario

import (
	"errors"
	"fmt"

	"webrunner/domain/entities"
	"webrunner/infrastructure/files"
)

// Load - reads and validates a scenario file
func Load(path string) (*entities.Scenario, error) {
	var sc entities.Scenario
	if err := files.ReadJSON(path, &sc); err != nil {
		return nil, err
	}
	if err := Validate(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate - checks every action carries the fields its type needs
func Validate(sc *entities.Scenario) error {
	if len(sc.Actions) == 0 {
		return errors.New("scenario has no actions")
	}
	var errs []error
	for i, action := range sc.Actions {
		if err := ValidateAction(action); err != nil {
			errs = append(errs, fmt.Errorf("action %d (%s): %w", i+1, action.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// ValidateAction - checks a single action
func ValidateAction(action entities.Action) error {
	switch action.Type {
	case entities.ActionNavigate:
		if action.URL == "" {
			return errors.New("url is required")
		}

	case entities.ActionClick, entities.ActionJSClick, entities.ActionWaitAndClick,
		entities.ActionHover, entities.ActionScroll,
		entities.ActionWaitVisible, entities.ActionWaitInvisible, entities.ActionWaitClickable,
		entities.ActionSelectIndex, entities.ActionTypeText, entities.ActionAppendText,
		entities.ActionSelectValue, entities.ActionSelectText, entities.ActionAssertText:
		return validateLocator(action.Locator)

	case entities.ActionStoreCoordinates:
		if action.Text == "" {
			return errors.New("text (function name) is required")
		}
		return validateLocator(action.Locator)

	case entities.ActionClickCoordinates:
		if action.Text == "" {
			return errors.New("text (function name) is required")
		}

	case entities.ActionDragAndDrop:
		if err := validateLocator(action.Locator); err != nil {
			return err
		}
		if err := validateLocator(action.Target); err != nil {
			return fmt.Errorf("target: %w", err)
		}

	case entities.ActionUpload, entities.ActionDropFile:
		if action.File == "" {
			return errors.New("file is required")
		}
		return validateLocator(action.Locator)

	case entities.ActionPressKeys:
		if len(action.Keys) == 0 {
			return errors.New("keys are required")
		}

	case entities.ActionSleep:
		if action.Timeout <= 0 {
			return errors.New("timeout is required")
		}

	case entities.ActionMoveByOffset, entities.ActionWaitAlert, entities.ActionAcceptAlert,
		entities.ActionDismissAlert, entities.ActionSwitchWindow, entities.ActionCloseWindow,
		entities.ActionScreenshot:

	default:
		return fmt.Errorf("unknown action: %q", action.Type)
	}
	return nil
}

func validateLocator(loc *entities.Locator) error {
	if loc == nil {
		return errors.New("locator is required")
	}
	return loc.Validate()
}
