package leave

import (
	"fmt"
	"strings"
	"time"
)

// HalfDayDuration is the fixed duration of a half-day request. The date
// range on such a request is record-keeping only.
const HalfDayDuration = 0.5

// CalculateRequestDays returns the duration of a request. A half-day
// request is always 0.5 regardless of date span; otherwise the duration is
// the inclusive whole-day count between start and end, which is at least 1.
func CalculateRequestDays(start, end time.Time, isHalfDay bool) (float64, error) {
	if isHalfDay {
		return HalfDayDuration, nil
	}
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)
	if endDay.Before(startDay) {
		return 0, fmt.Errorf("end date before start date")
	}
	days := int(endDay.Sub(startDay).Hours()/24) + 1
	return float64(days), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Validate checks a candidate record for well-formedness and reports every
// violated field at once. It does not consult the policy; see BuildCreate.
func Validate(candidate LeaveRequest) *ValidationError {
	verr := &ValidationError{}
	if strings.TrimSpace(candidate.EmployeeID) == "" {
		verr.add("employeeId", "employee is required")
	}
	if strings.TrimSpace(candidate.Subject) == "" {
		verr.add("subject", "subject is required")
	}
	if strings.TrimSpace(candidate.LeaveType) == "" {
		verr.add("leaveType", "leave type is required")
	}
	if candidate.StartDate.IsZero() {
		verr.add("startDate", "start date is required")
	}
	if candidate.EndDate.IsZero() {
		verr.add("endDate", "end date is required")
	}
	if !candidate.StartDate.IsZero() && !candidate.EndDate.IsZero() {
		if truncateToDay(candidate.EndDate).Before(truncateToDay(candidate.StartDate)) {
			verr.add("startDate", "must be on or before endDate")
			verr.add("endDate", "must be on or after startDate")
		}
	}
	if strings.TrimSpace(candidate.Reason) == "" {
		verr.add("leaveReason", "leave reason is required")
	}
	if len(verr.Issues) == 0 {
		return nil
	}
	return verr
}

// BuildCreate validates a candidate and finalizes it for persistence.
// Status is forced to pending regardless of caller input. When havePolicy
// is true the leave type must be one the policy defines; without a resolved
// policy the engine runs degraded and accepts any non-empty type.
func BuildCreate(candidate LeaveRequest, policy LeavePolicy, havePolicy bool) (LeaveRequest, error) {
	candidate.Status = StatusPending
	return finalize(candidate, policy, havePolicy)
}

// BuildEdit validates a full edit of an existing record. The status always
// comes from the existing record: a status change cannot ride along on the
// edit path, it is a distinct operation (Transition).
func BuildEdit(existing, candidate LeaveRequest, policy LeavePolicy, havePolicy bool) (LeaveRequest, error) {
	candidate.ID = existing.ID
	candidate.Status = existing.Status
	candidate.CreatedAt = existing.CreatedAt
	if strings.TrimSpace(candidate.EmployeeID) == "" {
		candidate.EmployeeID = existing.EmployeeID
	}
	if strings.TrimSpace(candidate.EmployeeName) == "" {
		candidate.EmployeeName = existing.EmployeeName
	}
	return finalize(candidate, policy, havePolicy)
}

func finalize(candidate LeaveRequest, policy LeavePolicy, havePolicy bool) (LeaveRequest, error) {
	verr := Validate(candidate)
	if verr == nil {
		verr = &ValidationError{}
	}
	if havePolicy && strings.TrimSpace(candidate.LeaveType) != "" && !verr.has("leaveType") {
		if _, ok := policy.Allowances[candidate.LeaveType]; !ok {
			verr.add("leaveType", fmt.Sprintf("%q is not available under policy %s", candidate.LeaveType, policy.Name))
		}
	}
	if len(verr.Issues) > 0 {
		return LeaveRequest{}, verr
	}

	days, err := CalculateRequestDays(candidate.StartDate, candidate.EndDate, candidate.IsHalfDay)
	if err != nil {
		verr.add("endDate", err.Error())
		return LeaveRequest{}, verr
	}
	candidate.RequestedDays = days
	return candidate, nil
}

// Transition moves a record to newStatus. A same-status transition is a
// no-op signalled through changed=false so the caller can skip the write.
// Every status is reachable from every other one; administrative override
// is deliberately unrestricted across the three states.
func Transition(record LeaveRequest, newStatus string) (LeaveRequest, bool, error) {
	if !ValidStatus(newStatus) {
		verr := &ValidationError{}
		verr.add("status", fmt.Sprintf("%q is not a valid status", newStatus))
		return record, false, verr
	}
	if record.Status == newStatus {
		return record, false, nil
	}
	record.Status = newStatus
	return record, true, nil
}
