package report

import (
	"testing"
	"time"

	"github.com/MichelePan/jira-worklog/internal/jira"
)

func TestNormalizeRows_DateAdmission(t *testing.T) {
	from := Day(2024, time.January, 10)
	to := Day(2024, time.January, 20)
	issue := jira.Issue{Key: "KAN-1", Summary: "Login page", IssueType: "Story", Status: "In Progress"}

	tests := []struct {
		name    string
		started string
		want    int
	}{
		{"day before range", "2024-01-09T23:00:00.000+0000", 0},
		{"first day midnight", "2024-01-10T00:00:00.000+0000", 1},
		{"last day late evening", "2024-01-20T23:59:59.000+0000", 1},
		{"day after range", "2024-01-21T08:00:00.000+0000", 0},
		{"missing started", "", 0},
		{"garbage started", "not-a-date", 0},
	}

	for _, tt := range tests {
		rows := NormalizeRows(issue, []jira.Worklog{{Started: tt.started, TimeSpentSeconds: 3600}}, from, to)
		if len(rows) != tt.want {
			t.Errorf("%s: got %d rows, want %d", tt.name, len(rows), tt.want)
		}
	}
}

func TestNormalizeRows_SkipsMalformedNotWholeBatch(t *testing.T) {
	from := Day(2024, time.January, 10)
	to := Day(2024, time.January, 20)
	issue := jira.Issue{Key: "KAN-1"}

	worklogs := []jira.Worklog{
		{Started: "2024-01-11T09:00:00.000+0000", TimeSpentSeconds: 3600},
		{Started: "", TimeSpentSeconds: 3600},
		{Started: "2024-01-12T09:00:00.000+0000", TimeSpentSeconds: 1800},
	}

	rows := NormalizeRows(issue, worklogs, from, to)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !rows[0].Date.Equal(Day(2024, time.January, 11)) || !rows[1].Date.Equal(Day(2024, time.January, 12)) {
		t.Errorf("unexpected dates: %v, %v", rows[0].Date, rows[1].Date)
	}
}

func TestNormalizeRows_HoursRounding(t *testing.T) {
	from := Day(2024, time.January, 1)
	to := Day(2024, time.December, 31)
	issue := jira.Issue{Key: "KAN-1", EstimateSeconds: 7200}

	tests := []struct {
		seconds int64
		want    float64
	}{
		{3600, 1.0},
		{5400, 1.5},
		{8100, 2.25},
		{1000, 0.28}, // 0.2777... rounds up
		{0, 0.0},
	}

	for _, tt := range tests {
		rows := NormalizeRows(issue, []jira.Worklog{{Started: "2024-03-05T10:00:00.000+0000", TimeSpentSeconds: tt.seconds}}, from, to)
		if len(rows) != 1 {
			t.Fatalf("seconds=%d: got %d rows, want 1", tt.seconds, len(rows))
		}
		if rows[0].Hours != tt.want {
			t.Errorf("seconds=%d: Hours = %v, want %v", tt.seconds, rows[0].Hours, tt.want)
		}
		if rows[0].EstimateHours != 2.0 {
			t.Errorf("EstimateHours = %v, want 2.0", rows[0].EstimateHours)
		}
	}
}

func TestNormalizeRows_IssueFieldsAttached(t *testing.T) {
	issue := jira.Issue{
		Key:             "KAN-7",
		Summary:         "Checkout flow",
		IssueType:       "Bug",
		Status:          "Done",
		EstimateSeconds: 3600,
	}
	wl := jira.Worklog{
		AuthorName:       "Mario Rossi",
		AuthorID:         "acc-1",
		Started:          "2024-01-15T09:00:00.000+0100",
		TimeSpentSeconds: 900,
	}

	rows := NormalizeRows(issue, []jira.Worklog{wl}, Day(2024, time.January, 10), Day(2024, time.January, 20))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	r := rows[0]
	if r.IssueKey != "KAN-7" || r.Summary != "Checkout flow" || r.IssueType != "Bug" || r.Status != "Done" {
		t.Errorf("issue fields not attached: %+v", r)
	}
	if r.User != "Mario Rossi" || r.UserID != "acc-1" {
		t.Errorf("author fields not attached: %+v", r)
	}
	if r.EstimateHours != 1.0 || r.Hours != 0.25 {
		t.Errorf("hours: estimate=%v hours=%v", r.EstimateHours, r.Hours)
	}
}
