package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/MichelePan/jira-worklog/internal/jira"
	"github.com/MichelePan/jira-worklog/internal/report"
)

const dateParamLayout = "2006-01-02"

// ReportService is the slice of the report layer the handlers need.
type ReportService interface {
	Build(ctx context.Context, p report.Params) (*report.Report, error)
	Refresh()
}

// Handlers serves the report API.
type Handlers struct {
	svc ReportService
}

// NewHandlers creates the handler set around a report service.
func NewHandlers(svc ReportService) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// parseParams reads the date range and filter selections from the query
// string. Missing dates default to the last 7 days ending today.
func parseParams(c *gin.Context) (report.Params, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	from := today.AddDate(0, 0, -7)
	to := today
	var err error

	if v := c.Query("from"); v != "" {
		if from, err = time.ParseInLocation(dateParamLayout, v, time.UTC); err != nil {
			return report.Params{}, fmt.Errorf("invalid 'from' date %q, want YYYY-MM-DD", v)
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.ParseInLocation(dateParamLayout, v, time.UTC); err != nil {
			return report.Params{}, fmt.Errorf("invalid 'to' date %q, want YYYY-MM-DD", v)
		}
	}

	return report.Params{
		From: from,
		To:   to,
		Filter: report.Filter{
			Status:    c.Query("status"),
			IssueType: c.Query("type"),
			UserIDs:   c.QueryArray("user"),
		},
	}, nil
}

type pivotDTO struct {
	Dates []string    `json:"dates"`
	Users []string    `json:"users"`
	Cells [][]float64 `json:"cells"`
}

func pivotToDTO(p report.Pivot) pivotDTO {
	dto := pivotDTO{
		Dates: make([]string, 0, len(p.Dates)),
		Users: p.Users,
		Cells: make([][]float64, 0, len(p.Dates)),
	}
	if dto.Users == nil {
		dto.Users = []string{}
	}
	for _, date := range p.Dates {
		dto.Dates = append(dto.Dates, date.Format(report.CSVDateLayout))
		row := make([]float64, 0, len(p.Users))
		for _, user := range p.Users {
			row = append(row, p.Cell(date, user))
		}
		dto.Cells = append(dto.Cells, row)
	}
	return dto
}

type reportResponse struct {
	Rows        []report.Row          `json:"rows"`
	Options     report.Options        `json:"options"`
	KPIs        report.KPIs           `json:"kpis"`
	Pivot       pivotDTO              `json:"pivot"`
	Issues      []report.IssueSummary `json:"issues"`
	IssuesFound int                   `json:"issuesFound"`
	RowsInRange int                   `json:"rowsInRange"`
	Message     string                `json:"message,omitempty"`
}

// emptyStateMessage distinguishes the three informational no-data states.
func emptyStateMessage(rep *report.Report) string {
	switch {
	case rep.IssuesFound == 0:
		return "No issues found in the selected period."
	case rep.RowsInRange == 0:
		return "No worklogs in the selected range."
	case len(rep.Rows) == 0:
		return "No data after applying filters."
	default:
		return ""
	}
}

func (h *Handlers) Report(c *gin.Context) {
	rep, ok := h.build(c)
	if !ok {
		return
	}

	rows := rep.Rows
	if rows == nil {
		rows = []report.Row{}
	}
	issues := rep.Issues
	if issues == nil {
		issues = []report.IssueSummary{}
	}

	c.JSON(http.StatusOK, reportResponse{
		Rows:        rows,
		Options:     rep.Options,
		KPIs:        rep.KPIs,
		Pivot:       pivotToDTO(rep.Pivot),
		Issues:      issues,
		IssuesFound: rep.IssuesFound,
		RowsInRange: rep.RowsInRange,
		Message:     emptyStateMessage(rep),
	})
}

func (h *Handlers) DetailCSV(c *gin.Context) {
	h.serveCSV(c, "detail", func(rep *report.Report, buf *bytes.Buffer) error {
		return report.WriteDetailCSV(buf, rep.Rows)
	})
}

func (h *Handlers) PivotCSV(c *gin.Context) {
	h.serveCSV(c, "pivot", func(rep *report.Report, buf *bytes.Buffer) error {
		return report.WritePivotCSV(buf, rep.Pivot)
	})
}

func (h *Handlers) IssuesCSV(c *gin.Context) {
	h.serveCSV(c, "issues", func(rep *report.Report, buf *bytes.Buffer) error {
		return report.WriteIssueSummaryCSV(buf, rep.Issues)
	})
}

func (h *Handlers) Refresh(c *gin.Context) {
	h.svc.Refresh()
	c.JSON(http.StatusOK, gin.H{"status": "cache cleared"})
}

// build parses the request and runs one rendering cycle, writing the error
// response itself on failure.
func (h *Handlers) build(c *gin.Context) (*report.Report, bool) {
	params, err := parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	rep, err := h.svc.Build(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return rep, true
}

func (h *Handlers) serveCSV(c *gin.Context, view string, write func(*report.Report, *bytes.Buffer) error) {
	params, err := parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := h.svc.Build(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := write(rep, &buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("worklog_%s_%s_%s.csv",
		view, params.From.Format(dateParamLayout), params.To.Format(dateParamLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// writeError maps pipeline failures onto HTTP statuses: invalid input is the
// caller's fault, a Jira failure is reported as a bad gateway with the
// upstream detail attached, everything else is internal.
func writeError(c *gin.Context, err error) {
	var apiErr *jira.APIError
	switch {
	case errors.Is(err, report.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		log.Error().Int("status", apiErr.StatusCode).Str("endpoint", apiErr.Endpoint).Msg("Jira request failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":          "jira api error",
			"upstreamStatus": apiErr.StatusCode,
			"details":        apiErr.Details,
		})
	default:
		log.Error().Err(err).Msg("Report build failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
