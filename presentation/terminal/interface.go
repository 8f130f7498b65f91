package terminal

import (
	"context"
	"fmt"
	"io"

	"webrunner/application/scenario"
	"webrunner/application/webrunner"
	"webrunner/domain/entities"
	"webrunner/infrastructure/config"
	"webrunner/infrastructure/report"

	"github.com/sirupsen/logrus"
)

// TerminalInterface runs scenario files and prints a summary per action
type TerminalInterface struct {
	cfg    *config.Config
	logger *logrus.Logger
	out    io.Writer
	opts   []webrunner.Option
}

// NewTerminalInterface - creates the terminal front end. opts are passed to every WebRunner.
func NewTerminalInterface(cfg *config.Config, logger *logrus.Logger, out io.Writer, opts ...webrunner.Option) *TerminalInterface {
	return &TerminalInterface{
		cfg:    cfg,
		logger: logger,
		out:    out,
		opts:   opts,
	}
}

// Run - executes the scenario at path. browserName overrides the scenario
// and config browser when set. Allure results are written to allure_dir.
func (t *TerminalInterface) Run(ctx context.Context, path, browserName string) (err error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	reporter, err := report.NewAllureReporter(t.cfg.AllureDir, t.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize report: %w", err)
	}
	reporter.StartTest(sc.Name, sc.Labels...)

	name := t.browserFor(sc, browserName)
	baseURL := sc.BaseURL
	if baseURL == "" {
		baseURL = t.cfg.BaseURL
	}

	defer func() {
		if werr := t.writeReport(reporter, name, baseURL, err); werr != nil && err == nil {
			err = werr
		}
	}()

	runner := webrunner.New(t.cfg, t.logger, reporter, t.opts...)

	fmt.Fprintf(t.out, "Scenario: %s (%s)\n", sc.Name, name)
	if _, err := runner.OpenBrowser(ctx, name); err != nil {
		reporter.Step("Open "+name, entities.StepBroken, err)
		return err
	}
	defer func() {
		if terr := runner.TearDown(ctx); terr != nil && err == nil {
			err = terr
		}
	}()

	executor := scenario.NewExecutor(runner, t.logger, baseURL)
	results, runErr := executor.Run(ctx, sc)
	for _, r := range results {
		if r.Success {
			fmt.Fprintf(t.out, "  ok    %s\n", r.Message)
		} else {
			fmt.Fprintf(t.out, "  FAIL  %s: %s\n", r.Message, r.Error)
		}
	}
	if skipped := len(sc.Actions) - len(results); skipped > 0 {
		fmt.Fprintf(t.out, "  %d action(s) skipped\n", skipped)
	}
	return runErr
}

func (t *TerminalInterface) browserFor(sc *entities.Scenario, override string) string {
	switch {
	case override != "":
		return override
	case sc.Browser != "":
		return sc.Browser
	}
	return t.cfg.Browser
}

func (t *TerminalInterface) writeReport(reporter *report.AllureReporter, browserName, baseURL string, runErr error) error {
	status := entities.StepStatus("")
	if runErr != nil {
		status = entities.StepFailed
	}
	path, err := reporter.FinishTest(status, runErr)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := reporter.WriteEnvironment(map[string]string{
		"browser":  browserName,
		"base.url": baseURL,
	}); err != nil {
		return err
	}
	if err := reporter.WriteCategories(); err != nil {
		return err
	}
	if err := reporter.WriteExecutor("webrunner"); err != nil {
		return err
	}

	result := "passed"
	if runErr != nil {
		result = "failed"
	}
	fmt.Fprintf(t.out, "Result: %s, written to %s\n", result, path)
	return nil
}
