package leave

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// reportDateLayout renders dates the long human way, e.g.
// "Monday, March 3, 2025".
const reportDateLayout = "Monday, January 2, 2006"

// ReportRow is one key-value line of the detail table.
type ReportRow struct {
	Label string
	Value string
}

// Report is the structured document model for a leave-detail report.
// Building it is pure; rendering to PDF is a separate concern so the
// layout logic stays testable without a drawing dependency.
type Report struct {
	EmployeeName  string
	Title         string
	Rows          []ReportRow
	ReasonHeading string
	Reason        string
}

// BuildReport renders a finalized record into the fixed-layout document
// model. The record must exist; this never touches the network and has no
// partial-failure mode.
func BuildReport(record LeaveRequest) Report {
	return Report{
		EmployeeName: record.EmployeeName,
		Title:        fmt.Sprintf("Leave Details - %s", record.EmployeeName),
		Rows: []ReportRow{
			{Label: "Employee Name", Value: record.EmployeeName},
			{Label: "Leave Type", Value: record.LeaveType},
			{Label: "Status", Value: record.Status},
			{Label: "Start Date", Value: formatReportDate(record.StartDate)},
			{Label: "End Date", Value: formatReportDate(record.EndDate)},
			{Label: "Duration", Value: DurationLabel(record)},
			{Label: "Requested Days", Value: formatDays(record.RequestedDays)},
		},
		ReasonHeading: "Reason for Leave",
		Reason:        record.Reason,
	}
}

// DurationLabel is "Half Day" for half-day requests, otherwise the literal
// day count with a Day(s) marker.
func DurationLabel(record LeaveRequest) string {
	if record.IsHalfDay {
		return "Half Day"
	}
	return fmt.Sprintf("%s Day(s)", formatDays(record.RequestedDays))
}

// FileName is the artifact name for the rendered report.
func (r Report) FileName(ext string) string {
	name := strings.TrimSpace(r.EmployeeName)
	if name == "" {
		name = "Employee"
	}
	return fmt.Sprintf("%s_Leave_Details.%s", name, ext)
}

func formatReportDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(reportDateLayout)
}

func formatDays(days float64) string {
	return strconv.FormatFloat(days, 'f', -1, 64)
}
