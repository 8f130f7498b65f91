package entities

// Scenario is a named list of actions loaded from a JSON file
type Scenario struct {
	Name    string   `json:"name"`
	Browser string   `json:"browser,omitempty"`
	BaseURL string   `json:"base_url,omitempty"`
	Labels  []string `json:"labels,omitempty"`
	Actions []Action `json:"actions"`
}

// StepStatus represents the outcome of a reported step
type StepStatus string

const (
	StepPassed  StepStatus = "passed"
	StepFailed  StepStatus = "failed"
	StepBroken  StepStatus = "broken"
	StepSkipped StepStatus = "skipped"
)
