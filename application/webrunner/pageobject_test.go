package webrunner_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"webrunner/application/webrunner"
	"webrunner/domain/entities"
	"webrunner/infrastructure/browser/mock"
	"webrunner/infrastructure/config"
	"webrunner/infrastructure/storage"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var submitButton = entities.XPath("//button[@type='submit']").Named("submitButton")

// loginPage is a page object in the style test suites build on top of the runner
type loginPage struct {
	runner *webrunner.WebRunner
}

func (p *loginPage) submit(ctx context.Context) error {
	_, err := p.runner.FindElement(ctx, submitButton, 20*time.Millisecond)
	return err
}

func (p *loginPage) captureSubmit(ctx context.Context, el *mock.Element) {
	p.runner.StoreCoordinates(ctx, el, "submit")
}

func (p *loginPage) submitPosition(ctx context.Context) (entities.Point, error) {
	return p.runner.StoredCoordinates(ctx, "submit")
}

func (p *loginPage) clickSubmit(ctx context.Context) error {
	return p.runner.ClickStoredCoordinates(ctx, "submit")
}

func newPageRunner(t *testing.T, capture bool) (*webrunner.WebRunner, *mock.Driver, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.PollInterval = 5 * time.Millisecond
	cfg.ActionDelay = 0
	cfg.ScreenshotsDir = filepath.Join(dir, "screenshots")
	cfg.CoordinatesFile = filepath.Join(dir, "coordinates.ini")
	cfg.FailedLocators = filepath.Join(dir, "failed_xpaths.ini")
	cfg.CaptureCoordinates = capture

	logger, _ := test.NewNullLogger()
	d := mock.New()
	return webrunner.New(cfg, logger, nil, webrunner.WithDriver(d)), d, cfg
}

func TestFailedLocatorKeyedByPageObject(t *testing.T) {
	runner, _, cfg := newPageRunner(t, false)
	page := &loginPage{runner: runner}

	err := page.submit(context.Background())
	require.ErrorIs(t, err, webrunner.ErrElementNotFound)

	failed := storage.NewFailedLocatorStore(storage.NewINIStore(cfg.FailedLocators))
	value, ok, err := failed.Lookup("loginPage.submit.submitButton")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "//button[@type='submit']", value)
}

func TestStoreCoordinatesRoundTrip(t *testing.T) {
	runner, d, cfg := newPageRunner(t, true)
	page := &loginPage{runner: runner}
	ctx := context.Background()

	el := mock.NewElement("submit").WithBounds(100, 190, 50, 20)
	page.captureSubmit(ctx, el)

	coords, ok, err := storage.NewCoordinatesStore(storage.NewINIStore(cfg.CoordinatesFile)).Load("loginPage.submit")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entities.Coordinates{X: 0.125, Y: 0.25}, coords)

	p, err := page.submitPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.Point{X: 125, Y: 200}, p)

	// scales with the window
	d.Window = entities.Size{Width: 2000, Height: 1600}
	require.NoError(t, page.clickSubmit(ctx))
	assert.Equal(t, entities.Point{X: 250, Y: 400}, d.Mouse)
	assert.Equal(t, 1, d.MouseClicks)
}

func TestStoreCoordinatesOnlyInCaptureMode(t *testing.T) {
	runner, _, _ := newPageRunner(t, false)
	page := &loginPage{runner: runner}
	ctx := context.Background()

	page.captureSubmit(ctx, mock.NewElement("submit").WithBounds(0, 0, 10, 10))

	_, err := page.submitPosition(ctx)
	assert.ErrorIs(t, err, webrunner.ErrNoCoordinates)
	assert.ErrorIs(t, page.clickSubmit(ctx), webrunner.ErrNoCoordinates)
}

func TestStoreCoordinatesWithDefaultConfig(t *testing.T) {
	t.Setenv(config.CaptureCoordinatesEnv, "true")
	coords := storage.NewINIStore(filepath.Join(t.TempDir(), "coordinates.ini"))
	logger, _ := test.NewNullLogger()
	runner := webrunner.New(nil, logger, nil,
		webrunner.WithDriver(mock.New()),
		webrunner.WithCoordinatesStore(coords),
	)
	page := &loginPage{runner: runner}

	page.captureSubmit(context.Background(), mock.NewElement("submit").WithBounds(100, 190, 50, 20))

	saved, ok, err := storage.NewCoordinatesStore(coords).Load("loginPage.submit")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entities.Coordinates{X: 0.125, Y: 0.25}, saved)
}

func TestBoundRunnerKeepsPageObjectCaller(t *testing.T) {
	runner, _, cfg := newPageRunner(t, true)
	ft := &recordingT{}
	b := runner.T(ft)

	el := mock.NewElement("search").WithBounds(0, 0, 500, 400)
	b.StoreCoordinates(el, "search")

	coords, ok, err := storage.NewCoordinatesStore(storage.NewINIStore(cfg.CoordinatesFile)).Load("webrunner_test.search")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entities.Coordinates{X: 0.25, Y: 0.25}, coords)

	assert.Equal(t, entities.Point{X: 250, Y: 200}, b.StoredCoordinates("search"))
	assert.Empty(t, ft.failures)
}

type recordingT struct {
	failures []string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Fatalf(format string, args ...interface{}) {
	r.failures = append(r.failures, format)
}
