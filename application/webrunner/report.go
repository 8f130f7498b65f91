package webrunner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"webrunner/domain/entities"

	"github.com/sirupsen/logrus"
)

const pngMimeType = "image/png"

// LogAndReport writes message to the log at level and records it as a
// report step. Error and worse levels record a failed step. With
// screenshot set and a session open, a PNG is attached to the step.
func (w *WebRunner) LogAndReport(ctx context.Context, level logrus.Level, message string, screenshot bool) {
	logAt(w.logger, level, message)

	status := entities.StepPassed
	if level <= logrus.ErrorLevel {
		status = entities.StepFailed
	}
	w.reporter.Step(message, status, nil)

	if !screenshot {
		return
	}
	d := w.Driver()
	if d == nil {
		return
	}
	png, err := d.Screenshot()
	if err != nil {
		w.logger.WithError(err).Warn("Failed to capture screenshot")
		return
	}
	if err := w.reporter.Attach(message, pngMimeType, png); err != nil {
		w.logger.WithError(err).Warn("Failed to attach screenshot")
	}
}

// Step runs fn as a named report step. A failing step is logged, reported
// as failed and its error returned wrapped. The screenshot is skipped when a
// helper inside fn already took one.
func (w *WebRunner) Step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	logger := w.logger.WithField("step", name)
	logger.Infof("Starting step: %s", name)

	if err := fn(ctx); err != nil {
		logger.WithError(err).Errorf("Step failed: %s", name)
		w.reporter.Step(name, entities.StepFailed, err)
		var actionErr *ActionError
		if !errors.As(err, &actionErr) {
			w.screenshotOnFailure(ctx, name)
		}
		return fmt.Errorf("step %q: %w", name, err)
	}

	logger.Infof("Step passed: %s", name)
	w.reporter.Step(name, entities.StepPassed, nil)
	return nil
}

// TakeScreenshot saves <screenshots_dir>/<name>.png and attaches it to the report
func (w *WebRunner) TakeScreenshot(ctx context.Context, name string) (string, error) {
	d, err := w.session()
	if err != nil {
		return "", err
	}
	png, err := d.Screenshot()
	if err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}

	if err := os.MkdirAll(w.cfg.ScreenshotsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshots directory: %w", err)
	}
	path := filepath.Join(w.cfg.ScreenshotsDir, screenshotFileName(name))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %w", err)
	}

	if err := w.reporter.Attach(name, pngMimeType, png); err != nil {
		w.logger.WithError(err).Warn("Failed to attach screenshot")
	}
	w.logger.Infof("Screenshot saved: %s", path)
	return path, nil
}

// fail logs a failed action, reports it with a screenshot and returns it
// as an ActionError
func (w *WebRunner) fail(ctx context.Context, op, locator, functionName string, err error) error {
	name := functionName
	if name == "" {
		name = op
	}
	w.logger.WithFields(logrus.Fields{
		"op":      op,
		"locator": locator,
	}).WithError(err).Errorf("Failed in %s", name)

	w.reporter.Step("Failed in "+name, entities.StepFailed, err)
	w.screenshotOnFailure(ctx, name)

	return &ActionError{Op: op, Locator: locator, Err: err}
}

func (w *WebRunner) screenshotOnFailure(ctx context.Context, name string) {
	if w.Driver() == nil {
		return
	}
	if _, err := w.TakeScreenshot(ctx, name); err != nil {
		w.logger.WithError(err).Warn("Failed to take failure screenshot")
	}
}

func screenshotFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "screenshot"
	}
	return name + ".png"
}

func logAt(logger logrus.FieldLogger, level logrus.Level, message string) {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		// logged as errors so the run keeps going
		logger.Error(message)
	case logrus.WarnLevel:
		logger.Warn(message)
	case logrus.InfoLevel:
		logger.Info(message)
	default:
		logger.Debug(message)
	}
}
