package entity

import (
	"time"

	"github.com/google/uuid"
)

// Run is one ordered execution of action commands against the browser page.
type Run struct {
	ID          uuid.UUID
	Name        string
	Status      RunStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
	Steps       []Step
	Error       string
}

type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
	RunStatusStopped    RunStatus = "stopped"
)

type Step struct {
	ID        uuid.UUID
	Command   string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Error     string
}

// FailedStep returns the first unsuccessful step, or nil.
func (r *Run) FailedStep() *Step {
	for i := range r.Steps {
		if !r.Steps[i].Success {
			return &r.Steps[i]
		}
	}

	return nil
}

type Validation struct {
	Command string
	Valid   bool
}

type PageState struct {
	URL       string
	Title     string
	Timestamp time.Time
}
