package directory

import "time"

// Employee is owned by the employee directory and read-only from the
// leave core's perspective.
type Employee struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	LeavePolicyID string    `json:"leavePolicyId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
