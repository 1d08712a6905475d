package jira

// MapIssue transforms a Jira DTO into a domain Issue.
func MapIssue(item IssueDTO) Issue {
	return Issue{
		Key:             item.Key,
		Summary:         item.Fields.Summary,
		IssueType:       item.Fields.IssueType.Name,
		Status:          item.Fields.Status.Name,
		EstimateSeconds: estimateSeconds(item.Fields),
	}
}

// estimateSeconds resolves the original estimate with the documented field
// precedence: timetracking.originalEstimateSeconds first, then the legacy
// timeoriginalestimate field, then 0.
func estimateSeconds(f FieldsDTO) int64 {
	if f.TimeTracking.OriginalEstimateSeconds != nil {
		return *f.TimeTracking.OriginalEstimateSeconds
	}
	if f.TimeOriginalEstimate != nil {
		return *f.TimeOriginalEstimate
	}
	return 0
}

// MapIssues converts a batch of DTOs, dropping issues without a key.
func MapIssues(items []IssueDTO) []Issue {
	issues := make([]Issue, 0, len(items))
	for _, item := range items {
		if item.Key == "" {
			continue
		}
		issues = append(issues, MapIssue(item))
	}
	return issues
}

// MapWorklog transforms a worklog DTO into the domain type. Missing author
// fields become empty strings, never nil.
func MapWorklog(item WorklogDTO) Worklog {
	return Worklog{
		AuthorName:       item.Author.DisplayName,
		AuthorID:         item.Author.AccountID,
		Started:          item.Started,
		TimeSpentSeconds: item.TimeSpentSeconds,
	}
}
