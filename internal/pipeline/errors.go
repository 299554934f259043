package pipeline

import (
	"fmt"

	"github.com/verilex/verilex/internal/model"
)

// StaleStateError reports a resume or cancel against a record that is not in
// a state that accepts it: double-submitted feedback, feedback for a record
// that already completed, or cancellation of a finished run.
type StaleStateError struct {
	DocumentID string
	Status     model.PipelineStatus
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("record %s is %s, not awaiting review", e.DocumentID, e.Status)
}

// ValidationError reports malformed verification input. It terminates the
// run before any stage executes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
