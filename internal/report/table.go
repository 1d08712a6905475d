package report

import (
	"fmt"
	"slices"
	"strings"
)

// Filter is a conjunctive predicate over rows. Zero values ("(all)" in the
// UI) disable the corresponding condition. User filtering matches on
// UserID, never on the display name.
type Filter struct {
	Status    string
	IssueType string
	UserIDs   []string
}

// Matches reports whether the row satisfies every active condition.
func (f Filter) Matches(r Row) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.IssueType != "" && r.IssueType != f.IssueType {
		return false
	}
	if len(f.UserIDs) > 0 && !slices.Contains(f.UserIDs, r.UserID) {
		return false
	}
	return true
}

// Apply returns the rows matching the filter, preserving input order.
func Apply(rows []Row, f Filter) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortRows orders rows by (Date, User, IssueKey) ascending, in place.
func SortRows(rows []Row) {
	slices.SortFunc(rows, func(a, b Row) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := strings.Compare(a.User, b.User); c != 0 {
			return c
		}
		return strings.Compare(a.IssueKey, b.IssueKey)
	})
}

// UserOption is one selectable user in the filter UI. When a display name is
// shared by several accounts the label carries a count so two people are
// never silently conflated; IDs always lists the concrete account IDs.
type UserOption struct {
	Label string   `json:"label"`
	IDs   []string `json:"ids"`
}

// Options are the filter choice sets derived from the current row table.
type Options struct {
	Statuses   []string     `json:"statuses"`
	IssueTypes []string     `json:"issueTypes"`
	Users      []UserOption `json:"users"`
}

// BuildOptions derives the filter option sets from the full (unfiltered)
// row collection.
func BuildOptions(rows []Row) Options {
	return Options{
		Statuses:   uniqueSorted(rows, func(r Row) string { return r.Status }),
		IssueTypes: uniqueSorted(rows, func(r Row) string { return r.IssueType }),
		Users:      buildUserOptions(rows),
	}
}

func uniqueSorted(rows []Row, field func(Row) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		v := strings.TrimSpace(field(r))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func buildUserOptions(rows []Row) []UserOption {
	idsByName := make(map[string]map[string]bool)
	for _, r := range rows {
		if strings.TrimSpace(r.User) == "" {
			continue
		}
		if idsByName[r.User] == nil {
			idsByName[r.User] = make(map[string]bool)
		}
		if strings.TrimSpace(r.UserID) != "" {
			idsByName[r.User][r.UserID] = true
		}
	}

	names := make([]string, 0, len(idsByName))
	for name := range idsByName {
		names = append(names, name)
	}
	slices.Sort(names)

	options := make([]UserOption, 0, len(names))
	for _, name := range names {
		ids := make([]string, 0, len(idsByName[name]))
		for id := range idsByName[name] {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		label := name
		if len(ids) > 1 {
			// Homonyms: annotate with a count instead of exposing account IDs.
			label = fmt.Sprintf("%s (%d)", name, len(ids))
		}
		options = append(options, UserOption{Label: label, IDs: ids})
	}
	return options
}
