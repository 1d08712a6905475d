package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MichelePan/jira-worklog/internal/cache"
	"github.com/MichelePan/jira-worklog/internal/jira"
)

// ErrInvalidRange is returned when the requested range has from after to.
var ErrInvalidRange = errors.New("invalid date range: from must not be after to")

// wideRangeDays is the point past which a range is worth a slowness warning.
const wideRangeDays = 40

// searchFields are requested on every issue search; timetracking and the
// legacy timeoriginalestimate cover the two estimate field variants.
var searchFields = []string{"summary", "issuetype", "timetracking", "status", "timeoriginalestimate"}

// Config tunes the report pipeline.
type Config struct {
	// DefaultJQL selects the issue population before date padding.
	DefaultJQL string

	// MaxWorkers bounds the concurrent worklog fetches; <= 1 means sequential.
	MaxWorkers int

	// MarginDays widens the updated-date bounds of the search so issues
	// touched just outside the range are not missed. Row admission still
	// uses the exact user-requested range.
	MarginDays int

	SearchTTL  time.Duration
	WorklogTTL time.Duration
}

// Params select and filter one report.
type Params struct {
	From   time.Time
	To     time.Time
	Filter Filter
}

// Report is the full outbound payload for one rendering cycle.
//
// IssuesFound and RowsInRange distinguish the three empty states: no issues
// matched the query, no worklogs fell inside the date range, or the filters
// excluded everything.
type Report struct {
	Rows    []Row          `json:"rows"`
	Options Options        `json:"options"`
	KPIs    KPIs           `json:"kpis"`
	Pivot   Pivot          `json:"-"`
	Issues  []IssueSummary `json:"issues"`

	IssuesFound int `json:"issuesFound"`
	RowsInRange int `json:"rowsInRange"`
}

// Service owns the two cache slots and orchestrates search, fan-out,
// normalization and table building.
type Service struct {
	client jira.Client
	cfg    Config

	searchCache  *cache.Store[[]jira.Issue]
	worklogCache *cache.Store[[]jira.Worklog]
}

// NewService creates a report service around a Jira client.
func NewService(client jira.Client, cfg Config) *Service {
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 10
	}
	return &Service{
		client:       client,
		cfg:          cfg,
		searchCache:  cache.New[[]jira.Issue]("search", cfg.SearchTTL),
		worklogCache: cache.New[[]jira.Worklog]("worklog", cfg.WorklogTTL),
	}
}

// Refresh clears every cache slot, forcing full recomputation on the next
// Build.
func (s *Service) Refresh() {
	s.searchCache.Clear()
	s.worklogCache.Clear()
	log.Info().Msg("Report caches cleared")
}

// EffectiveJQL widens the requested range by marginDays on each side and
// constrains the base query to issues updated within those padded bounds.
func EffectiveJQL(base string, from, to time.Time, marginDays int) string {
	prefFrom := from.AddDate(0, 0, -marginDays)
	prefTo := to.AddDate(0, 0, marginDays)
	return fmt.Sprintf("(%s) AND updated >= %q AND updated <= %q",
		base, prefFrom.Format("2006-01-02"), prefTo.Format("2006-01-02"))
}

// Build runs one full rendering cycle: cached search, bounded fan-out of
// cached worklog fetches, normalization, filtering and view assembly. The
// table is recomputed in full on every call; a remote failure aborts the
// cycle with no partial result.
func (s *Service) Build(ctx context.Context, p Params) (*Report, error) {
	if p.From.After(p.To) {
		return nil, ErrInvalidRange
	}
	if days := int(p.To.Sub(p.From).Hours() / 24); days > wideRangeDays {
		log.Warn().Int("days", days).Msg("Wide date range requested, report may be slow")
	}

	jql := EffectiveJQL(s.cfg.DefaultJQL, p.From, p.To, s.cfg.MarginDays)
	log.Debug().Str("jql", jql).Msg("Building report")

	issues, err := s.searchCache.Do(jql, func() ([]jira.Issue, error) {
		return s.client.SearchIssues(ctx, jql, searchFields)
	})
	if err != nil {
		return nil, err
	}

	all, err := FetchRows(ctx, issues, p.From, p.To, s.cfg.MaxWorkers, s.cachedWorklogs)
	if err != nil {
		return nil, err
	}

	rows := Apply(all, p.Filter)
	SortRows(rows)

	log.Info().
		Int("issues", len(issues)).
		Int("rowsInRange", len(all)).
		Int("rows", len(rows)).
		Msg("Report built")

	return &Report{
		Rows:        rows,
		Options:     BuildOptions(all),
		KPIs:        BuildKPIs(rows),
		Pivot:       BuildPivot(rows),
		Issues:      BuildIssueSummary(rows),
		IssuesFound: len(issues),
		RowsInRange: len(all),
	}, nil
}

func (s *Service) cachedWorklogs(ctx context.Context, issueKey string) ([]jira.Worklog, error) {
	return s.worklogCache.Do(issueKey, func() ([]jira.Worklog, error) {
		return s.client.IssueWorklogs(ctx, issueKey)
	})
}
