package interfaces

import "webrunner/domain/entities"

// Reporter records step outcomes and attachments for a test report
type Reporter interface {
	// Step records a finished step
	Step(name string, status entities.StepStatus, err error)

	// Attach adds a file to the current test
	Attach(name, mimeType string, data []byte) error
}

// NopReporter discards everything
type NopReporter struct{}

func (NopReporter) Step(string, entities.StepStatus, error) {}

func (NopReporter) Attach(string, string, []byte) error { return nil }
