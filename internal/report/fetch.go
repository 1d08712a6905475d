package report

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MichelePan/jira-worklog/internal/jira"
)

// WorklogFetcher returns the worklog entries for one issue key.
type WorklogFetcher func(ctx context.Context, issueKey string) ([]jira.Worklog, error)

// FetchRows dispatches one worklog fetch per issue and normalizes the
// results into rows. With workers <= 1 the issues are processed sequentially
// in order; otherwise up to workers fetches run concurrently and rows are
// accumulated in completion order. The first failing fetch aborts the whole
// operation. Callers must not rely on any particular row ordering.
func FetchRows(ctx context.Context, issues []jira.Issue, from, to time.Time, workers int, fetch WorklogFetcher) ([]Row, error) {
	if workers <= 1 {
		var rows []Row
		for _, issue := range issues {
			worklogs, err := fetch(ctx, issue.Key)
			if err != nil {
				return nil, err
			}
			rows = append(rows, NormalizeRows(issue, worklogs, from, to)...)
		}
		return rows, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	var rows []Row

	for _, issue := range issues {
		issue := issue
		g.Go(func() error {
			worklogs, err := fetch(ctx, issue.Key)
			if err != nil {
				return err
			}
			normalized := NormalizeRows(issue, worklogs, from, to)

			mu.Lock()
			rows = append(rows, normalized...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
