package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const worklogPageSize = 100

type cloudClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewCloudClient creates a client for the Jira Cloud v3 REST API.
func NewCloudClient(cfg Config) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &cloudClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SearchIssues pages through POST /search/jql following the server-issued
// nextPageToken until the server omits it, concatenating all batches in
// delivery order.
func (c *cloudClient) SearchIssues(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	if len(fields) == 0 {
		fields = []string{"summary", "issuetype"}
	}

	searchURL := c.cfg.BaseURL + "/search/jql"
	var issues []Issue
	nextPageToken := ""
	pages := 0

	for {
		payload := searchRequest{
			JQL:           jql,
			Fields:        fields,
			NextPageToken: nextPageToken,
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode search request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		var result SearchResponse
		if err := decodeResponse(resp, "/search/jql", &result); err != nil {
			return nil, err
		}

		issues = append(issues, MapIssues(result.Issues)...)
		pages++

		nextPageToken = result.NextPageToken
		if nextPageToken == "" {
			break
		}
	}

	log.Debug().Str("jql", jql).Int("pages", pages).Int("issues", len(issues)).Msg("Jira search complete")
	return issues, nil
}

// IssueWorklogs pages through GET /issue/{key}/worklog with startAt and
// maxResults, advancing the offset by the number of entries actually
// received. It stops on an empty page or once the offset reaches the
// server-reported total.
func (c *cloudClient) IssueWorklogs(ctx context.Context, issueKey string) ([]Worklog, error) {
	endpoint := fmt.Sprintf("/issue/%s/worklog", issueKey)
	startAt := 0
	var out []Worklog

	for {
		params := url.Values{}
		params.Set("startAt", fmt.Sprintf("%d", startAt))
		params.Set("maxResults", fmt.Sprintf("%d", worklogPageSize))

		reqURL := fmt.Sprintf("%s/issue/%s/worklog?%s", c.cfg.BaseURL, url.PathEscape(issueKey), params.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("worklog fetch for %s: %w", issueKey, err)
		}

		var page WorklogResponse
		if err := decodeResponse(resp, endpoint, &page); err != nil {
			return nil, err
		}

		for _, wl := range page.Worklogs {
			out = append(out, MapWorklog(wl))
		}

		startAt += len(page.Worklogs)
		if len(page.Worklogs) == 0 || startAt >= page.Total {
			break
		}
	}

	log.Debug().Str("issue", issueKey).Int("worklogs", len(out)).Msg("Jira worklogs fetched")
	return out, nil
}

// decodeResponse consumes the response body, converting any non-success
// status into an *APIError carrying the server-provided detail.
func decodeResponse(resp *http.Response, endpoint string, v any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode Jira response from %s: %w", endpoint, err)
	}
	return nil
}

func newAPIError(resp *http.Response, endpoint string) *APIError {
	raw, _ := io.ReadAll(resp.Body)
	details := strings.TrimSpace(string(raw))

	// Prefer the parsed JSON body when the server sent one.
	var parsed any
	if json.Unmarshal(raw, &parsed) == nil {
		if compact, err := json.Marshal(parsed); err == nil {
			details = string(compact)
		}
	}

	return &APIError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Details:    details,
	}
}
