package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeSick      = "sick"
	TypeAnnual    = "annual"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
)

// CanonicalTypes is the display order for leave types. Eligible-type
// listings must follow it so the request form renders deterministically.
var CanonicalTypes = []string{TypeSick, TypeAnnual, TypeMaternity, TypePaternity}

var Statuses = []string{StatusPending, StatusApproved, StatusRejected}

type LeavePolicy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Allowances maps a leave-type name to its day allowance. A policy
	// need not define every canonical type; an absent key means the type
	// is not offered, not a zero allowance.
	Allowances map[string]int `json:"allowances"`
}

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type LeaveRequest struct {
	ID            string       `json:"id,omitempty"`
	EmployeeID    string       `json:"employeeId"`
	EmployeeName  string       `json:"employeeName"`
	Subject       string       `json:"subject"`
	LeaveType     string       `json:"leaveType"`
	StartDate     time.Time    `json:"startDate"`
	EndDate       time.Time    `json:"endDate"`
	IsHalfDay     bool         `json:"isHalfDay"`
	RequestedDays float64      `json:"requestedDays"`
	Reason        string       `json:"leaveReason"`
	Status        string       `json:"status"`
	Attachments   []Attachment `json:"attachments,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// EligibleType pairs a leave type with the allowance remaining under a policy.
type EligibleType struct {
	Type      string `json:"type"`
	Remaining int    `json:"remaining"`
}

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
