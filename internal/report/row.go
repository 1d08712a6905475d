package report

import (
	"math"
	"time"

	"github.com/MichelePan/jira-worklog/internal/jira"
)

// Row is one worklog entry flattened against its issue. UserID is the stable
// identity key; User is the display label and may collide across distinct
// accounts.
type Row struct {
	Date          time.Time `json:"date"`
	User          string    `json:"user"`
	UserID        string    `json:"userId"`
	IssueType     string    `json:"issueType"`
	IssueKey      string    `json:"issue"`
	Summary       string    `json:"summary"`
	EstimateHours float64   `json:"estimateHours"`
	Hours         float64   `json:"hours"`
	Status        string    `json:"status"`
}

// NormalizeRows converts one issue's worklog entries into rows. Entries with
// a missing or unparseable start date are skipped silently, as are entries
// whose date falls outside the inclusive [from, to] range. The range is the
// user-requested one, not the margin-padded query bounds.
func NormalizeRows(issue jira.Issue, worklogs []jira.Worklog, from, to time.Time) []Row {
	estimateHours := roundHours(issue.EstimateSeconds)

	var rows []Row
	for _, wl := range worklogs {
		day, ok := worklogDate(wl.Started)
		if !ok {
			continue
		}
		if day.Before(from) || day.After(to) {
			continue
		}

		rows = append(rows, Row{
			Date:          day,
			User:          wl.AuthorName,
			UserID:        wl.AuthorID,
			IssueType:     issue.IssueType,
			IssueKey:      issue.Key,
			Summary:       issue.Summary,
			EstimateHours: estimateHours,
			Hours:         roundHours(wl.TimeSpentSeconds),
			Status:        issue.Status,
		})
	}
	return rows
}

// worklogDate truncates a Jira timestamp to its date component. Jira renders
// started as e.g. "2024-01-10T09:30:00.000+0100"; only the leading
// YYYY-MM-DD matters here.
func worklogDate(started string) (time.Time, bool) {
	if len(started) < 10 {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation("2006-01-02", started[:10], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// roundHours converts seconds to hours rounded to 2 decimal places.
func roundHours(seconds int64) float64 {
	return round2(float64(seconds) / 3600)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Day normalizes a timestamp to midnight UTC, the granularity rows carry.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
