package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MichelePan/jira-worklog/internal/jira"
)

// countingClient is a fake jira.Client that records every network-level call.
type countingClient struct {
	mu           sync.Mutex
	searchCalls  int
	worklogCalls map[string]int

	issues   []jira.Issue
	worklogs map[string][]jira.Worklog
	err      error
}

func newCountingClient() *countingClient {
	return &countingClient{
		worklogCalls: make(map[string]int),
		worklogs:     make(map[string][]jira.Worklog),
	}
}

func (c *countingClient) SearchIssues(ctx context.Context, jql string, fields []string) ([]jira.Issue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchCalls++
	if c.err != nil {
		return nil, c.err
	}
	return c.issues, nil
}

func (c *countingClient) IssueWorklogs(ctx context.Context, issueKey string) ([]jira.Worklog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.worklogCalls[issueKey]++
	if c.err != nil {
		return nil, c.err
	}
	return c.worklogs[issueKey], nil
}

func testParams() Params {
	return Params{
		From: Day(2024, time.January, 10),
		To:   Day(2024, time.January, 20),
	}
}

func testService(client jira.Client) *Service {
	return NewService(client, Config{
		DefaultJQL: "project = KAN",
		MaxWorkers: 4,
		MarginDays: 3,
		SearchTTL:  30 * time.Minute,
		WorklogTTL: 12 * time.Hour,
	})
}

func TestEffectiveJQL_MarginPadding(t *testing.T) {
	got := EffectiveJQL("project = KAN", Day(2024, time.January, 10), Day(2024, time.January, 20), 3)
	want := `(project = KAN) AND updated >= "2024-01-07" AND updated <= "2024-01-23"`
	if got != want {
		t.Errorf("EffectiveJQL = %q, want %q", got, want)
	}
}

func TestEffectiveJQL_MarginCrossesMonth(t *testing.T) {
	got := EffectiveJQL("assignee = currentUser()", Day(2024, time.March, 1), Day(2024, time.March, 31), 3)
	want := `(assignee = currentUser()) AND updated >= "2024-02-27" AND updated <= "2024-04-03"`
	if got != want {
		t.Errorf("EffectiveJQL = %q, want %q", got, want)
	}
}

func TestService_SearchCachedAcrossBuilds(t *testing.T) {
	client := newCountingClient()
	client.issues = []jira.Issue{{Key: "KAN-1"}}
	client.worklogs["KAN-1"] = []jira.Worklog{
		{AuthorName: "Mario Rossi", AuthorID: "acc-1", Started: "2024-01-15T09:00:00.000+0000", TimeSpentSeconds: 3600},
	}
	svc := testService(client)

	for i := 0; i < 2; i++ {
		if _, err := svc.Build(context.Background(), testParams()); err != nil {
			t.Fatalf("Build %d: %v", i, err)
		}
	}

	if client.searchCalls != 1 {
		t.Errorf("searchCalls = %d, want 1", client.searchCalls)
	}
	if client.worklogCalls["KAN-1"] != 1 {
		t.Errorf("worklogCalls = %d, want 1", client.worklogCalls["KAN-1"])
	}

	svc.Refresh()
	if _, err := svc.Build(context.Background(), testParams()); err != nil {
		t.Fatalf("Build after refresh: %v", err)
	}
	if client.searchCalls != 2 {
		t.Errorf("searchCalls after refresh = %d, want 2", client.searchCalls)
	}
	if client.worklogCalls["KAN-1"] != 2 {
		t.Errorf("worklogCalls after refresh = %d, want 2", client.worklogCalls["KAN-1"])
	}
}

func TestService_InvalidRange(t *testing.T) {
	svc := testService(newCountingClient())

	_, err := svc.Build(context.Background(), Params{
		From: Day(2024, time.January, 20),
		To:   Day(2024, time.January, 10),
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}

func TestService_EmptyStatesDistinguished(t *testing.T) {
	// No issues at all.
	client := newCountingClient()
	svc := testService(client)
	rep, err := svc.Build(context.Background(), testParams())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.IssuesFound != 0 {
		t.Errorf("IssuesFound = %d, want 0", rep.IssuesFound)
	}

	// Issues exist but every worklog is outside the range.
	client = newCountingClient()
	client.issues = []jira.Issue{{Key: "KAN-1"}}
	client.worklogs["KAN-1"] = []jira.Worklog{
		{Started: "2023-06-01T09:00:00.000+0000", TimeSpentSeconds: 3600},
	}
	rep, err = testService(client).Build(context.Background(), testParams())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.IssuesFound != 1 || rep.RowsInRange != 0 {
		t.Errorf("IssuesFound = %d RowsInRange = %d, want 1 and 0", rep.IssuesFound, rep.RowsInRange)
	}

	// Rows in range, but the filter excludes them all.
	client = newCountingClient()
	client.issues = []jira.Issue{{Key: "KAN-1", Status: "Done"}}
	client.worklogs["KAN-1"] = []jira.Worklog{
		{AuthorID: "acc-1", Started: "2024-01-15T09:00:00.000+0000", TimeSpentSeconds: 3600},
	}
	p := testParams()
	p.Filter = Filter{Status: "In Progress"}
	rep, err = testService(client).Build(context.Background(), p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.RowsInRange != 1 || len(rep.Rows) != 0 {
		t.Errorf("RowsInRange = %d len(Rows) = %d, want 1 and 0", rep.RowsInRange, len(rep.Rows))
	}
}

func TestService_RemoteFailurePropagates(t *testing.T) {
	client := newCountingClient()
	client.err = &jira.APIError{Endpoint: "/search/jql", StatusCode: 401, Details: "auth"}
	svc := testService(client)

	_, err := svc.Build(context.Background(), testParams())
	var apiErr *jira.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *jira.APIError", err)
	}
	if apiErr.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
}

func TestService_OptionsFromUnfilteredRows(t *testing.T) {
	client := newCountingClient()
	client.issues = []jira.Issue{
		{Key: "KAN-1", Status: "Done", IssueType: "Story"},
		{Key: "KAN-2", Status: "In Progress", IssueType: "Bug"},
	}
	client.worklogs["KAN-1"] = []jira.Worklog{{AuthorName: "Mario", AuthorID: "a1", Started: "2024-01-15T09:00:00.000+0000", TimeSpentSeconds: 3600}}
	client.worklogs["KAN-2"] = []jira.Worklog{{AuthorName: "Anna", AuthorID: "a2", Started: "2024-01-16T09:00:00.000+0000", TimeSpentSeconds: 3600}}

	p := testParams()
	p.Filter = Filter{Status: "Done"}
	rep, err := testService(client).Build(context.Background(), p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// The option sets must still show both statuses so the UI can widen the
	// filter again.
	if len(rep.Options.Statuses) != 2 {
		t.Errorf("Statuses = %v, want both", rep.Options.Statuses)
	}
	if len(rep.Rows) != 1 {
		t.Errorf("len(Rows) = %d, want 1", len(rep.Rows))
	}
}
