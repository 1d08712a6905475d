package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// CSVDateLayout is the display format for dates in exported files.
const CSVDateLayout = "02/01/2006"

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

func formatDate(t time.Time) string {
	return t.Format(CSVDateLayout)
}

// WriteDetailCSV serializes the flat detail view.
func WriteDetailCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "User", "IssueType", "Issue", "Summary", "EstimateHours", "Hours", "Status"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			formatDate(r.Date),
			r.User,
			r.IssueType,
			r.IssueKey,
			r.Summary,
			formatHours(r.EstimateHours),
			formatHours(r.Hours),
			r.Status,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePivotCSV serializes the day-by-user pivot: one row per date, one
// column per user, zero-filled cells.
func WritePivotCSV(w io.Writer, p Pivot) error {
	cw := csv.NewWriter(w)

	header := append([]string{"Date"}, p.Users...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, date := range p.Dates {
		record := make([]string, 0, len(p.Users)+1)
		record = append(record, formatDate(date))
		for _, user := range p.Users {
			record = append(record, formatHours(p.Cell(date, user)))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIssueSummaryCSV serializes the per-issue aggregation.
func WriteIssueSummaryCSV(w io.Writer, items []IssueSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Issue", "Summary", "IssueType", "EstimateHours", "Hours", "Status"}); err != nil {
		return err
	}
	for _, s := range items {
		record := []string{
			s.IssueKey,
			s.Summary,
			s.IssueType,
			formatHours(s.EstimateHours),
			formatHours(s.Hours),
			s.Status,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
