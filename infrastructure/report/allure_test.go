package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ interfaces.Reporter = (*AllureReporter)(nil)

func newTestReporter(t *testing.T) *AllureReporter {
	t.Helper()
	rep, err := NewAllureReporter(filepath.Join(t.TempDir(), "allure-results"), logrus.New())
	require.NoError(t, err)

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rep.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return rep
}

func readResult(t *testing.T, path string) AllureResult {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var result AllureResult
	require.NoError(t, json.Unmarshal(data, &result))
	return result
}

func TestAllurePassedTest(t *testing.T) {
	rep := newTestReporter(t)

	rep.StartTest("Login", "smoke")
	rep.Step("Open login page", entities.StepPassed, nil)
	rep.Step("Submit form", entities.StepPassed, nil)

	path, err := rep.FinishTest("", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "-result.json"))

	result := readResult(t, path)
	assert.Equal(t, "Login", result.Name)
	assert.Equal(t, "passed", result.Status)
	assert.Equal(t, "finished", result.Stage)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, "Open login page", result.Steps[0].Name)
	assert.Equal(t, result.Steps[0].Stop, result.Steps[1].Start)
	assert.Greater(t, result.Stop, result.Start)
	assert.Contains(t, result.Labels, AllureLabel{Name: "tag", Value: "smoke"})
}

func TestAllureFailedStepFailsTest(t *testing.T) {
	rep := newTestReporter(t)

	rep.StartTest("Checkout")
	rep.Step("Click pay", entities.StepFailed, errors.New("element not found: (id, pay)"))
	require.NoError(t, rep.Attach("Click pay", "image/png", []byte("png")))

	path, err := rep.FinishTest("", nil)
	require.NoError(t, err)

	result := readResult(t, path)
	assert.Equal(t, "failed", result.Status)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, "element not found: (id, pay)", result.Steps[0].StatusDetails.Message)
	require.Len(t, result.Steps[0].Attachments, 1)

	att := result.Steps[0].Attachments[0]
	assert.Equal(t, "image/png", att.Type)
	assert.True(t, strings.HasSuffix(att.Source, "-attachment.png"))

	data, err := os.ReadFile(filepath.Join(rep.Dir(), att.Source))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestAllureAttachmentBeforeSteps(t *testing.T) {
	rep := newTestReporter(t)

	require.NoError(t, rep.Attach("log", "text/plain", []byte("hello")))
	path, err := rep.FinishTest(entities.StepBroken, errors.New("browser launch failed"))
	require.NoError(t, err)

	result := readResult(t, path)
	assert.Equal(t, "webrunner", result.Name)
	assert.Equal(t, "broken", result.Status)
	assert.Equal(t, "browser launch failed", result.StatusDetails.Message)
	require.Len(t, result.Attachments, 1)
	assert.True(t, strings.HasSuffix(result.Attachments[0].Source, ".txt"))
}

func TestAllureFinishWithoutTest(t *testing.T) {
	rep := newTestReporter(t)
	_, err := rep.FinishTest("", nil)
	assert.Error(t, err)
}

func TestAllureMetadataFiles(t *testing.T) {
	rep := newTestReporter(t)

	require.NoError(t, rep.WriteEnvironment(map[string]string{
		"browser":  "chrome-headless",
		"base.url": "https://example.com",
		"empty":    "",
	}))
	require.NoError(t, rep.WriteCategories())
	require.NoError(t, rep.WriteExecutor("UI regression"))

	env, err := os.ReadFile(filepath.Join(rep.Dir(), "environment.properties"))
	require.NoError(t, err)
	assert.Equal(t, "framework=webrunner\nbase.url=https://example.com\nbrowser=chrome-headless\n", string(env))

	var categories []AllureCategory
	data, err := os.ReadFile(filepath.Join(rep.Dir(), "categories.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &categories))
	assert.Equal(t, "Element Not Found", categories[0].Name)

	var executor AllureExecutor
	data, err = os.ReadFile(filepath.Join(rep.Dir(), "executor.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &executor))
	assert.Equal(t, "UI regression", executor.ReportName)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, "png", extensionFor("image/png"))
	assert.Equal(t, "json", extensionFor("application/json"))
	assert.Equal(t, "bin", extensionFor("application/octet-stream"))
}
