package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"webrunner/application/webrunner"
	"webrunner/domain/entities"
	"webrunner/infrastructure/browser/mock"
	"webrunner/infrastructure/config"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutor(t *testing.T) (*Executor, *mock.Driver) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Timeout = 100 * time.Millisecond
	cfg.PollInterval = 5 * time.Millisecond
	cfg.ActionDelay = 0
	cfg.ScreenshotsDir = filepath.Join(dir, "screenshots")
	cfg.CoordinatesFile = filepath.Join(dir, "coordinates.ini")
	cfg.FailedLocators = filepath.Join(dir, "failed.ini")

	logger, _ := test.NewNullLogger()
	d := mock.New()
	runner := webrunner.New(cfg, logger, nil, webrunner.WithDriver(d), webrunner.WithRetryDelays(0, 0))
	return NewExecutor(runner, logger, "https://shop.example.com/app/"), d
}

func locator(l entities.Locator) *entities.Locator {
	return &l
}

func TestRunScenario(t *testing.T) {
	exec, d := newExecutor(t)
	email := mock.NewElement("email")
	submit := mock.NewElement("submit")
	banner := mock.NewElement("banner").WithText(" Welcome back ")
	d.Add(entities.ID("email"), email)
	d.Add(entities.CSS("button[type=submit]"), submit)
	d.AddAfter(entities.CSS(".banner"), 2, banner)

	sc := &entities.Scenario{
		Name: "login",
		Actions: []entities.Action{
			{Type: entities.ActionNavigate, URL: "login"},
			{Type: entities.ActionTypeText, Locator: locator(entities.ID("email")), Text: "qa@example.com"},
			{Type: entities.ActionClick, Locator: locator(entities.CSS("button[type=submit]")), Description: "submit"},
			{Type: entities.ActionAssertText, Locator: locator(entities.CSS(".banner")), Text: "Welcome back"},
			{Type: entities.ActionPressKeys, Keys: []entities.Key{entities.KeyEnter}},
		},
	}

	results, err := exec.Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.True(t, r.Success, r.Message)
	}

	assert.Equal(t, []string{"https://shop.example.com/app/login"}, d.Visited)
	assert.Equal(t, "qa@example.com", email.Value)
	assert.Equal(t, 1, submit.ClickCount())
	assert.Equal(t, " Welcome back ", results[3].Data)
	assert.Equal(t, []entities.Key{entities.KeyEnter}, d.KeysDown)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	exec, d := newExecutor(t)
	d.Add(entities.CSS("h1"), mock.NewElement("title").WithText("Cart"))

	sc := &entities.Scenario{
		Name: "cart",
		Actions: []entities.Action{
			{Type: entities.ActionAssertText, Locator: locator(entities.CSS("h1")), Text: "Checkout"},
			{Type: entities.ActionNavigate, URL: "https://example.com"},
		},
	}

	results, err := exec.Run(context.Background(), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected text "Checkout", got "Cart"`)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Empty(t, d.Visited)
}

func TestExecuteMissingElement(t *testing.T) {
	exec, _ := newExecutor(t)

	_, err := exec.Execute(context.Background(), entities.Action{
		Type:    entities.ActionClick,
		Locator: locator(entities.ID("ghost")),
		Timeout: 20,
	})
	assert.ErrorIs(t, err, webrunner.ErrElementNotFound)
}

func TestExecuteRejectsInvalidAction(t *testing.T) {
	exec, _ := newExecutor(t)

	_, err := exec.Execute(context.Background(), entities.Action{Type: entities.ActionClick})
	assert.ErrorContains(t, err, "locator is required")
}

func TestExecuteWindowsAndScreenshot(t *testing.T) {
	exec, d := newExecutor(t)
	d.Handles = []string{"main", "popup"}
	ctx := context.Background()

	_, err := exec.Execute(ctx, entities.Action{Type: entities.ActionSwitchWindow, Index: -1})
	require.NoError(t, err)
	assert.Equal(t, "popup", d.Current)

	result, err := exec.Execute(ctx, entities.Action{Type: entities.ActionScreenshot, Text: "popup"})
	require.NoError(t, err)
	assert.FileExists(t, result.Data)
}

func TestResolveURL(t *testing.T) {
	exec, _ := newExecutor(t)

	got, err := exec.resolveURL("https://other.example.com/x")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com/x", got)

	got, err = exec.resolveURL("/root")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/root", got)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json")
	content := `{
  "name": "search",
  "browser": "chrome-headless",
  "actions": [
    {"type": "navigate", "url": "https://example.com"},
    {"type": "type", "locator": {"by": "name", "value": "q"}, "text": "golang"},
    {"type": "press", "keys": ["Enter"]}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "search", sc.Name)
	assert.Equal(t, "chrome-headless", sc.Browser)
	require.Len(t, sc.Actions, 3)
	assert.Equal(t, entities.ByName, sc.Actions[1].Locator.By)
	assert.Equal(t, []entities.Key{entities.KeyEnter}, sc.Actions[2].Keys)
}

func TestValidate(t *testing.T) {
	err := Validate(&entities.Scenario{})
	assert.ErrorContains(t, err, "no actions")

	err = Validate(&entities.Scenario{Actions: []entities.Action{
		{Type: entities.ActionNavigate},
		{Type: entities.ActionDragAndDrop, Locator: locator(entities.ID("a"))},
		{Type: "teleport"},
		{Type: entities.ActionAcceptAlert},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action 1 (navigate): url is required")
	assert.Contains(t, err.Error(), "action 2 (drag): target: locator is required")
	assert.Contains(t, err.Error(), `action 3 (teleport): unknown action: "teleport"`)
	assert.NotContains(t, err.Error(), "action 4")
}
