package leave

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced request, employee or
	// policy does not exist at the persistence boundary.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when a collaborator cannot be reached.
	// Callers may retry the user action; nothing retries automatically.
	ErrUnavailable = errors.New("service unavailable")

	// ErrTransitionInFlight is returned when a status transition is
	// requested while another one is outstanding for the same record.
	ErrTransitionInFlight = errors.New("status transition already in progress")
)

// FieldIssue describes a single violated field in a candidate record.
type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries every violated field of a candidate record so a
// caller can surface all problems at once instead of the first one found.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Reason)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

func (e *ValidationError) add(field, reason string) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Reason: reason})
}

func (e *ValidationError) has(field string) bool {
	for _, issue := range e.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
