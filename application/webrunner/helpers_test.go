package webrunner

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"webrunner/domain/entities"
	"webrunner/infrastructure/browser/mock"
	"webrunner/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type recordedStep struct {
	Name   string
	Status entities.StepStatus
	Err    error
}

type recordingReporter struct {
	mu          sync.Mutex
	steps       []recordedStep
	attachments []string
}

func (r *recordingReporter) Step(name string, status entities.StepStatus, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, recordedStep{Name: name, Status: status, Err: err})
}

func (r *recordingReporter) Attach(name, mimeType string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments = append(r.attachments, name)
	return nil
}

func (r *recordingReporter) last() recordedStep {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.steps) == 0 {
		return recordedStep{}
	}
	return r.steps[len(r.steps)-1]
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Timeout = 200 * time.Millisecond
	cfg.PollInterval = 10 * time.Millisecond
	cfg.ActionDelay = 0
	cfg.ScreenshotsDir = filepath.Join(dir, "screenshots")
	cfg.DownloadsDir = filepath.Join(dir, "downloads")
	cfg.CoordinatesFile = filepath.Join(dir, "coordinates.ini")
	cfg.FailedLocators = filepath.Join(dir, "failed_xpaths.ini")
	return cfg
}

type fixture struct {
	runner   *WebRunner
	driver   *mock.Driver
	reporter *recordingReporter
	hook     *test.Hook
	cfg      *config.Config
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	cfg := testConfig(t)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	rep := &recordingReporter{}
	d := mock.New()
	opts = append([]Option{WithDriver(d), WithRetryDelays(0, 0)}, opts...)
	return &fixture{
		runner:   New(cfg, logger, rep, opts...),
		driver:   d,
		reporter: rep,
		hook:     hook,
		cfg:      cfg,
	}
}

func messages(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		out = append(out, e.Message)
	}
	return out
}
