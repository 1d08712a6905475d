package jira

// searchRequest is the POST body for /search/jql.
type searchRequest struct {
	JQL           string   `json:"jql"`
	Fields        []string `json:"fields"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

// SearchResponse is the top-level container for one page of search results.
// NextPageToken is omitted by the server on the final page.
type SearchResponse struct {
	Issues        []IssueDTO `json:"issues"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

// IssueDTO represents a single issue in the Jira search response.
type IssueDTO struct {
	Key    string    `json:"key"`
	Fields FieldsDTO `json:"fields"`
}

// FieldsDTO contains the specific fields we care about. The original
// estimate is exposed under one of two names depending on the server
// configuration; both are pointers so absence is distinguishable from zero.
type FieldsDTO struct {
	Summary   string `json:"summary"`
	IssueType struct {
		Name string `json:"name"`
	} `json:"issuetype"`
	Status struct {
		Name string `json:"name"`
	} `json:"status"`
	TimeTracking struct {
		OriginalEstimateSeconds *int64 `json:"originalEstimateSeconds"`
	} `json:"timetracking"`
	TimeOriginalEstimate *int64 `json:"timeoriginalestimate"`
}

// WorklogResponse is one page of /issue/{key}/worklog results.
type WorklogResponse struct {
	StartAt    int          `json:"startAt"`
	MaxResults int          `json:"maxResults"`
	Total      int          `json:"total"`
	Worklogs   []WorklogDTO `json:"worklogs"`
}

// WorklogDTO represents a single worklog entry in the Jira response.
type WorklogDTO struct {
	Author struct {
		AccountID   string `json:"accountId"`
		DisplayName string `json:"displayName"`
	} `json:"author"`
	Started          string `json:"started"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
}
