// Package aggregate folds repository collections into per-author
// contribution totals.
package aggregate

import (
	"sort"
	"strings"

	"github.com/hal/contrib/internal/model"
)

// AuthorAggregate holds everything attributed to one author across the
// loaded collections.
type AuthorAggregate struct {
	Author model.Author `json:"author"`

	CommitCount      int `json:"commit_count"`
	IssueCount       int `json:"issue_count"`
	PullRequestCount int `json:"pull_request_count"`

	// Stats sums line and file statistics over the author's commits and
	// pull requests. Co-authored commits contribute their full stats to
	// every credited author, so the per-author sums intentionally exceed
	// the repository totals when trailers are present.
	Stats model.Stats `json:"stats"`

	Commits      []model.Commit      `json:"commits"`
	Issues       []model.Issue       `json:"issues"`
	PullRequests []model.PullRequest `json:"pull_requests"`

	IssueComments       []model.Comment `json:"issue_comments,omitempty"`
	PullRequestComments []model.Comment `json:"pull_request_comments,omitempty"`
}

// index resolves author identities case-insensitively: logins differing
// only in case merge into one aggregate, keyed by the lowercased login.
type index struct {
	byLogin map[string]*AuthorAggregate
	names   map[string]string
}

func newIndex(names map[string]string) *index {
	lowered := make(map[string]string, len(names))
	for login, display := range names {
		lowered[strings.ToLower(login)] = display
	}
	return &index{
		byLogin: make(map[string]*AuthorAggregate),
		names:   lowered,
	}
}

// get returns the aggregate for an author, creating it on first sight.
// The first observed login casing wins for presentation.
func (ix *index) get(a model.Author) *AuthorAggregate {
	key := strings.ToLower(a.Login)
	agg, ok := ix.byLogin[key]
	if !ok {
		agg = &AuthorAggregate{Author: a}
		if display, ok := ix.names[key]; ok {
			agg.Author.DisplayName = display
		}
		ix.byLogin[key] = agg
	}
	return agg
}

// lookup returns the existing aggregate for an author, if any.
func (ix *index) lookup(a model.Author) (*AuthorAggregate, bool) {
	agg, ok := ix.byLogin[strings.ToLower(a.Login)]
	return agg, ok
}

// Aggregate walks every collection and credits each contribution to its
// author. A co-authored commit is credited in full to the primary
// author and to every co-author. Comments are attached in a second pass
// and only to authors who already earned an aggregate through a commit,
// issue, or pull request of their own.
func Aggregate(colls []*model.RepositoryCollection, names map[string]string) []*AuthorAggregate {
	ix := newIndex(names)

	for _, coll := range colls {
		for _, c := range coll.Commits {
			creditCommit(ix.get(c.Author), c)
			for _, co := range c.CoAuthors {
				if co.Is(c.Author.Login) {
					continue
				}
				creditCommit(ix.get(co), c)
			}
		}
		for _, is := range coll.Issues {
			agg := ix.get(is.Author)
			agg.IssueCount++
			agg.Issues = append(agg.Issues, is)
		}
		for _, pr := range coll.PullRequests {
			agg := ix.get(pr.Author)
			agg.PullRequestCount++
			agg.Stats.Add(pr.Stats)
			agg.PullRequests = append(agg.PullRequests, pr)
		}
	}

	for _, coll := range colls {
		for _, is := range coll.Issues {
			for _, cm := range is.Comments {
				if agg, ok := ix.lookup(cm.Author); ok {
					agg.IssueComments = append(agg.IssueComments, cm)
				}
			}
		}
		for _, pr := range coll.PullRequests {
			for _, cm := range pr.Comments {
				if agg, ok := ix.lookup(cm.Author); ok {
					agg.PullRequestComments = append(agg.PullRequestComments, cm)
				}
			}
		}
	}

	out := make([]*AuthorAggregate, 0, len(ix.byLogin))
	for _, agg := range ix.byLogin {
		sortByTimestamp(agg)
		out = append(out, agg)
	}

	sort.Slice(out, func(i, j int) bool {
		a := strings.ToLower(out[i].Author.Display())
		b := strings.ToLower(out[j].Author.Display())
		if a != b {
			return a < b
		}
		return strings.ToLower(out[i].Author.Login) < strings.ToLower(out[j].Author.Login)
	})
	return out
}

func creditCommit(agg *AuthorAggregate, c model.Commit) {
	agg.CommitCount++
	agg.Stats.Add(c.Stats)
	agg.Commits = append(agg.Commits, c)
}

// sortByTimestamp orders each contribution list oldest first so the
// rendered output reads chronologically regardless of fetch order.
func sortByTimestamp(agg *AuthorAggregate) {
	sort.SliceStable(agg.Commits, func(i, j int) bool {
		return agg.Commits[i].Timestamp.Before(agg.Commits[j].Timestamp)
	})
	sort.SliceStable(agg.Issues, func(i, j int) bool {
		return agg.Issues[i].Timestamp.Before(agg.Issues[j].Timestamp)
	})
	sort.SliceStable(agg.PullRequests, func(i, j int) bool {
		return agg.PullRequests[i].Timestamp.Before(agg.PullRequests[j].Timestamp)
	})
}
