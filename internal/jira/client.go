package jira

import (
	"context"
	"fmt"
	"time"
)

// Issue is the subset of Jira issue data the worklog report needs.
// EstimateSeconds is the original time estimate; 0 when the issue has none.
type Issue struct {
	Key             string
	Summary         string
	IssueType       string
	Status          string
	EstimateSeconds int64
}

// Worklog is a single time entry recorded against an issue. Started is kept
// as the raw Jira timestamp string; date extraction happens during
// normalization so a malformed value drops only that entry.
type Worklog struct {
	AuthorName       string
	AuthorID         string
	Started          string
	TimeSpentSeconds int64
}

// Client is the interface for interacting with Jira.
type Client interface {
	SearchIssues(ctx context.Context, jql string, fields []string) ([]Issue, error)
	IssueWorklogs(ctx context.Context, issueKey string) ([]Worklog, error)
}

// Config holds the authentication and connection settings for Jira Cloud.
type Config struct {
	// BaseURL is the REST API root, e.g. https://acme.atlassian.net/rest/api/3
	BaseURL string

	// Basic auth credentials (Atlassian account email + API token).
	Email    string
	APIToken string

	// Timeout applies to each individual HTTP round-trip.
	Timeout time.Duration
}

// NewClient creates a new Jira client based on the provided configuration.
func NewClient(cfg Config) Client {
	return NewCloudClient(cfg)
}

// APIError is returned for any non-success response from the Jira API.
// Details carries the server-provided error body: the JSON payload when one
// parses, otherwise the raw response text.
type APIError struct {
	Endpoint   string
	StatusCode int
	Details    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira api error on %s | status=%d | details=%s", e.Endpoint, e.StatusCode, e.Details)
}
