package report

import (
	"slices"
	"strings"
	"time"
)

// KPIs are the headline numbers for the filtered row set.
type KPIs struct {
	TotalHours   float64 `json:"totalHours"`
	WorklogCount int     `json:"worklogCount"`
	IssueCount   int     `json:"issueCount"`
	UserCount    int     `json:"userCount"`
}

// BuildKPIs computes the KPI strip. Users are counted by UserID so two
// people sharing a display name count as two.
func BuildKPIs(rows []Row) KPIs {
	total := 0.0
	issues := make(map[string]bool)
	users := make(map[string]bool)
	for _, r := range rows {
		total += r.Hours
		issues[r.IssueKey] = true
		users[r.UserID] = true
	}
	return KPIs{
		TotalHours:   round2(total),
		WorklogCount: len(rows),
		IssueCount:   len(issues),
		UserCount:    len(users),
	}
}

type pivotKey struct {
	date string
	user string
}

// Pivot is the day-by-user sum of hours. Dates and Users are sorted; cells
// for combinations with no worklogs are zero.
type Pivot struct {
	Dates []time.Time
	Users []string

	cells map[pivotKey]float64
}

const pivotKeyLayout = "2006-01-02"

// BuildPivot aggregates hours by (date, user display name).
func BuildPivot(rows []Row) Pivot {
	cells := make(map[pivotKey]float64)
	dateSet := make(map[string]time.Time)
	userSet := make(map[string]bool)

	for _, r := range rows {
		k := pivotKey{date: r.Date.Format(pivotKeyLayout), user: r.User}
		cells[k] += r.Hours
		dateSet[k.date] = r.Date
		userSet[r.User] = true
	}
	for k, v := range cells {
		cells[k] = round2(v)
	}

	dates := make([]time.Time, 0, len(dateSet))
	for _, d := range dateSet {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })

	users := make([]string, 0, len(userSet))
	for u := range userSet {
		users = append(users, u)
	}
	slices.Sort(users)

	return Pivot{Dates: dates, Users: users, cells: cells}
}

// Cell returns the summed hours for (date, user), or 0 when the combination
// has no worklogs.
func (p Pivot) Cell(date time.Time, user string) float64 {
	return p.cells[pivotKey{date: date.Format(pivotKeyLayout), user: user}]
}

// IssueSummary is the per-issue aggregation of worked hours.
type IssueSummary struct {
	IssueKey      string  `json:"issue"`
	Summary       string  `json:"summary"`
	IssueType     string  `json:"issueType"`
	EstimateHours float64 `json:"estimateHours"`
	Hours         float64 `json:"hours"`
	Status        string  `json:"status"`
}

// BuildIssueSummary groups hours by issue, sorted by descending summed
// hours and then ascending issue key.
func BuildIssueSummary(rows []Row) []IssueSummary {
	byKey := make(map[string]*IssueSummary)
	for _, r := range rows {
		s, ok := byKey[r.IssueKey]
		if !ok {
			s = &IssueSummary{
				IssueKey:      r.IssueKey,
				Summary:       r.Summary,
				IssueType:     r.IssueType,
				EstimateHours: r.EstimateHours,
				Status:        r.Status,
			}
			byKey[r.IssueKey] = s
		}
		s.Hours += r.Hours
	}

	out := make([]IssueSummary, 0, len(byKey))
	for _, s := range byKey {
		s.Hours = round2(s.Hours)
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b IssueSummary) int {
		switch {
		case a.Hours > b.Hours:
			return -1
		case a.Hours < b.Hours:
			return 1
		default:
			return strings.Compare(a.IssueKey, b.IssueKey)
		}
	})
	return out
}
