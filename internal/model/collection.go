package model

// RepositoryCollection is the persisted per-repository snapshot of one
// gather run. It is immutable once written and overwritten wholesale on
// re-run; there is no incremental merge with earlier runs.
//
// The variant of each record is structural: commits, issues, and pull
// requests live in separate arrays. Consumers must tolerate unknown
// fields and treat missing optional fields as their zero defaults.
type RepositoryCollection struct {
	Repository   string        `json:"repository"`
	Since        string        `json:"since,omitempty"`
	Branch       string        `json:"branch,omitempty"`
	Commits      []Commit      `json:"commits"`
	Issues       []Issue       `json:"issues"`
	PullRequests []PullRequest `json:"pull_requests"`
}

// Len returns the total number of contributions in the collection.
func (c *RepositoryCollection) Len() int {
	return len(c.Commits) + len(c.Issues) + len(c.PullRequests)
}
