package leave

import (
	"testing"
	"time"
)

func finalizedRecord() LeaveRequest {
	return LeaveRequest{
		ID:            "req-1",
		EmployeeID:    "emp-1",
		EmployeeName:  "Dana Smith",
		Subject:       "Family trip",
		LeaveType:     TypeAnnual,
		StartDate:     time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		RequestedDays: 3,
		Reason:        "Travelling with family",
		Status:        StatusApproved,
	}
}

func rowValue(t *testing.T, report Report, label string) string {
	t.Helper()
	for _, row := range report.Rows {
		if row.Label == label {
			return row.Value
		}
	}
	t.Fatalf("row %q missing from report", label)
	return ""
}

func TestBuildReportRowOrder(t *testing.T) {
	report := BuildReport(finalizedRecord())

	wantLabels := []string{
		"Employee Name", "Leave Type", "Status",
		"Start Date", "End Date", "Duration", "Requested Days",
	}
	if len(report.Rows) != len(wantLabels) {
		t.Fatalf("expected %d rows, got %d", len(wantLabels), len(report.Rows))
	}
	for i, label := range wantLabels {
		if report.Rows[i].Label != label {
			t.Fatalf("row %d: expected %q, got %q", i, label, report.Rows[i].Label)
		}
	}
	if report.Title != "Leave Details - Dana Smith" {
		t.Fatalf("unexpected title %q", report.Title)
	}
	if report.ReasonHeading != "Reason for Leave" {
		t.Fatalf("unexpected reason heading %q", report.ReasonHeading)
	}
}

func TestBuildReportLongDates(t *testing.T) {
	report := BuildReport(finalizedRecord())
	if got := rowValue(t, report, "Start Date"); got != "Monday, March 3, 2025" {
		t.Fatalf("unexpected start date rendering %q", got)
	}
	if got := rowValue(t, report, "End Date"); got != "Wednesday, March 5, 2025" {
		t.Fatalf("unexpected end date rendering %q", got)
	}
}

func TestBuildReportMissingDatesRenderNA(t *testing.T) {
	record := finalizedRecord()
	record.StartDate = time.Time{}
	record.EndDate = time.Time{}

	report := BuildReport(record)
	if got := rowValue(t, report, "Start Date"); got != "N/A" {
		t.Fatalf("missing start date must render N/A, got %q", got)
	}
	if got := rowValue(t, report, "End Date"); got != "N/A" {
		t.Fatalf("missing end date must render N/A, got %q", got)
	}
}

func TestDurationLabel(t *testing.T) {
	record := finalizedRecord()
	if got := DurationLabel(record); got != "3 Day(s)" {
		t.Fatalf("expected \"3 Day(s)\", got %q", got)
	}

	record.IsHalfDay = true
	record.RequestedDays = 0.5
	if got := DurationLabel(record); got != "Half Day" {
		t.Fatalf("expected \"Half Day\", got %q", got)
	}
}

func TestReportFileName(t *testing.T) {
	report := BuildReport(finalizedRecord())
	if got := report.FileName("pdf"); got != "Dana Smith_Leave_Details.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestRenderPDFProducesDocument(t *testing.T) {
	data, err := RenderPDF(BuildReport(finalizedRecord()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty pdf bytes")
	}
	if string(data[:5]) != "%PDF-" {
		t.Fatalf("expected pdf header, got %q", data[:5])
	}
}
