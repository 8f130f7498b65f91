package report

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"webrunner/domain/entities"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Allure result schema types.

// AllureResult represents a single test result in Allure format.
type AllureResult struct {
	UUID          string              `json:"uuid"`
	HistoryID     string              `json:"historyId"`
	FullName      string              `json:"fullName"`
	Name          string              `json:"name"`
	Status        string              `json:"status"`
	Stage         string              `json:"stage"`
	Start         int64               `json:"start"`
	Stop          int64               `json:"stop"`
	Labels        []AllureLabel       `json:"labels"`
	StatusDetails AllureStatusDetails `json:"statusDetails"`
	Steps         []AllureStep        `json:"steps"`
	Attachments   []AllureAttachment  `json:"attachments"`
}

// AllureStep represents a step within a test result.
type AllureStep struct {
	Name          string              `json:"name"`
	Status        string              `json:"status"`
	Stage         string              `json:"stage"`
	Start         int64               `json:"start"`
	Stop          int64               `json:"stop"`
	StatusDetails AllureStatusDetails `json:"statusDetails"`
	Steps         []AllureStep        `json:"steps"`
	Attachments   []AllureAttachment  `json:"attachments"`
}

// AllureAttachment represents a file attachment.
type AllureAttachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

// AllureLabel represents a label on a test result.
type AllureLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AllureStatusDetails holds failure message and trace.
type AllureStatusDetails struct {
	Message string `json:"message"`
	Trace   string `json:"trace"`
}

// AllureCategory defines a failure category with regex matching.
type AllureCategory struct {
	Name            string   `json:"name"`
	MatchedStatuses []string `json:"matchedStatuses"`
	MessageRegex    string   `json:"messageRegex"`
}

// AllureExecutor holds executor branding info.
type AllureExecutor struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ReportName string `json:"reportName"`
}

// AllureReporter writes Allure results for one test at a time into dir.
// Steps are appended as they finish; attachments go to the last step, or to
// the test itself when no step has been reported yet.
type AllureReporter struct {
	dir    string
	logger logrus.FieldLogger
	now    func() time.Time

	mu       sync.Mutex
	current  *AllureResult
	lastMark time.Time
}

// NewAllureReporter - creates the results directory and a reporter writing to it
func NewAllureReporter(dir string, logger logrus.FieldLogger) (*AllureReporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create allure-results dir: %w", err)
	}
	return &AllureReporter{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Dir returns the results directory
func (a *AllureReporter) Dir() string {
	return a.dir
}

// StartTest begins a new test result. An unfinished previous test is dropped.
func (a *AllureReporter) StartTest(name string, labels ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.startLocked(name, labels)
}

func (a *AllureReporter) startLocked(name string, tags []string) {
	if a.current != nil {
		a.logger.Warnf("Allure test %q replaced before it finished", a.current.Name)
	}

	now := a.now()
	labels := []AllureLabel{
		{Name: "suite", Value: name},
		{Name: "framework", Value: "webrunner"},
		{Name: "language", Value: "go"},
		{Name: "severity", Value: "normal"},
	}
	for _, tag := range tags {
		labels = append(labels, AllureLabel{Name: "tag", Value: tag})
	}

	a.current = &AllureResult{
		UUID:        uuid.NewString(),
		HistoryID:   fnv32aHash(name),
		FullName:    name,
		Name:        name,
		Status:      string(entities.StepPassed),
		Stage:       "running",
		Start:       now.UnixMilli(),
		Labels:      labels,
		Steps:       []AllureStep{},
		Attachments: []AllureAttachment{},
	}
	a.lastMark = now
}

// Step records a finished step. It implements interfaces.Reporter.
func (a *AllureReporter) Step(name string, status entities.StepStatus, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		a.startLocked("webrunner", nil)
	}

	now := a.now()
	step := AllureStep{
		Name:        name,
		Status:      string(status),
		Stage:       "finished",
		Start:       a.lastMark.UnixMilli(),
		Stop:        now.UnixMilli(),
		Steps:       []AllureStep{},
		Attachments: []AllureAttachment{},
	}
	if err != nil {
		step.StatusDetails.Message = err.Error()
	}
	a.current.Steps = append(a.current.Steps, step)
	a.lastMark = now
}

// Attach writes an attachment file and links it. It implements interfaces.Reporter.
func (a *AllureReporter) Attach(name, mimeType string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		a.startLocked("webrunner", nil)
	}

	source := fmt.Sprintf("%s-attachment.%s", uuid.NewString(), extensionFor(mimeType))
	if err := os.WriteFile(filepath.Join(a.dir, source), data, 0o644); err != nil {
		return fmt.Errorf("write attachment %s: %w", name, err)
	}

	attachment := AllureAttachment{Name: name, Source: source, Type: mimeType}
	if n := len(a.current.Steps); n > 0 {
		a.current.Steps[n-1].Attachments = append(a.current.Steps[n-1].Attachments, attachment)
	} else {
		a.current.Attachments = append(a.current.Attachments, attachment)
	}
	return nil
}

// FinishTest writes <uuid>-result.json for the current test. The status is
// failed when err is set or any step failed, unless an explicit status is given.
func (a *AllureReporter) FinishTest(status entities.StepStatus, err error) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return "", fmt.Errorf("no test in progress")
	}
	result := a.current
	a.current = nil

	if status == "" {
		status = entities.StepPassed
		for _, step := range result.Steps {
			if step.Status == string(entities.StepFailed) || step.Status == string(entities.StepBroken) {
				status = entities.StepFailed
				break
			}
		}
	}
	if err != nil {
		if status == entities.StepPassed {
			status = entities.StepFailed
		}
		result.StatusDetails.Message = err.Error()
	}

	result.Status = string(status)
	result.Stage = "finished"
	result.Stop = a.now().UnixMilli()

	data, mErr := json.MarshalIndent(result, "", "  ")
	if mErr != nil {
		return "", fmt.Errorf("marshal allure result for %s: %w", result.Name, mErr)
	}

	path := filepath.Join(a.dir, result.UUID+"-result.json")
	if wErr := os.WriteFile(path, data, 0o644); wErr != nil {
		return "", fmt.Errorf("write allure result %s: %w", result.Name, wErr)
	}
	return path, nil
}

// WriteEnvironment writes environment.properties, keys sorted
func (a *AllureReporter) WriteEnvironment(props map[string]string) error {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("framework=webrunner\n")
	for _, k := range keys {
		if props[k] == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s=%s\n", k, props[k]))
	}

	path := filepath.Join(a.dir, "environment.properties")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write environment.properties: %w", err)
	}
	return nil
}

// WriteCategories writes categories.json for failure categorization.
func (a *AllureReporter) WriteCategories() error {
	categories := []AllureCategory{
		{Name: "Element Not Found", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*element not found.*"},
		{Name: "Element Not Visible", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*not visible.*|.*not displayed.*"},
		{Name: "Timeout", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*timeout.*|.*timed out.*"},
		{Name: "Navigation Failed", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*navigation.*"},
		{Name: "Browser Launch Failed", MatchedStatuses: []string{"failed", "broken"}, MessageRegex: "(?i).*browser.*launch.*|.*unsupported browser.*"},
		{Name: "Alert", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*alert.*"},
		{Name: "Script Error", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*javascript.*|.*script.*error.*"},
	}
	return a.writeJSON("categories.json", categories)
}

// WriteExecutor writes executor.json
func (a *AllureReporter) WriteExecutor(reportName string) error {
	return a.writeJSON("executor.json", AllureExecutor{
		Name:       "webrunner",
		Type:       "webrunner",
		ReportName: reportName,
	})
}

func (a *AllureReporter) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(a.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// extensionFor maps an attachment MIME type to a file extension
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "text/plain":
		return "txt"
	case "text/html":
		return "html"
	case "application/json":
		return "json"
	}
	return "bin"
}

// fnv32aHash returns a hex-encoded FNV-32a hash of the input string.
func fnv32aHash(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}
