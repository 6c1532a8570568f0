package aggregate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal/contrib/internal/model"
)

func ts(day int) time.Time {
	return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
}

func TestAggregateCoAuthorFullCredit(t *testing.T) {
	colls := []*model.RepositoryCollection{{
		Repository: "o/r",
		Commits: []model.Commit{{
			SHA:       "abc",
			Author:    model.Author{Login: "alice"},
			CoAuthors: []model.Author{{Login: "bob"}},
			Timestamp: ts(1),
			Stats:     model.Stats{FilesChanged: 3, Additions: 10, Deletions: 4},
		}},
	}}

	aggs := Aggregate(colls, nil)
	require.Len(t, aggs, 2)

	alice, bob := aggs[0], aggs[1]
	assert.Equal(t, "alice", alice.Author.Login)
	assert.Equal(t, "bob", bob.Author.Login)

	// Both authors receive the full commit: the credit is duplicated,
	// not split.
	for _, agg := range aggs {
		assert.Equal(t, 1, agg.CommitCount, agg.Author.Login)
		assert.Equal(t, 10, agg.Stats.Additions, agg.Author.Login)
		require.Len(t, agg.Commits, 1)
	}
	assert.Equal(t, 20, alice.Stats.Additions+bob.Stats.Additions)
}

func TestAggregateSelfCoAuthorNotDoubleCounted(t *testing.T) {
	colls := []*model.RepositoryCollection{{
		Commits: []model.Commit{{
			SHA:       "abc",
			Author:    model.Author{Login: "alice"},
			CoAuthors: []model.Author{{Login: "Alice"}},
			Timestamp: ts(1),
			Stats:     model.Stats{Additions: 10},
		}},
	}}

	aggs := Aggregate(colls, nil)
	require.Len(t, aggs, 1)
	assert.Equal(t, 1, aggs[0].CommitCount)
	assert.Equal(t, 10, aggs[0].Stats.Additions)
}

func TestAggregateCaseInsensitiveLogins(t *testing.T) {
	colls := []*model.RepositoryCollection{{
		Commits: []model.Commit{
			{SHA: "a", Author: model.Author{Login: "Alice"}, Timestamp: ts(2), Stats: model.Stats{Additions: 1}},
			{SHA: "b", Author: model.Author{Login: "alice"}, Timestamp: ts(1), Stats: model.Stats{Additions: 2}},
		},
	}}

	aggs := Aggregate(colls, nil)
	require.Len(t, aggs, 1)

	agg := aggs[0]
	// First observed casing wins for presentation.
	assert.Equal(t, "Alice", agg.Author.Login)
	assert.Equal(t, 2, agg.CommitCount)
	assert.Equal(t, 3, agg.Stats.Additions)

	// Contributions are ordered by timestamp, not fetch order.
	require.Len(t, agg.Commits, 2)
	assert.Equal(t, "b", agg.Commits[0].SHA)
	assert.Equal(t, "a", agg.Commits[1].SHA)
}

func TestAggregateOrderedByDisplayName(t *testing.T) {
	colls := []*model.RepositoryCollection{{
		Commits: []model.Commit{
			{SHA: "a", Author: model.Author{Login: "zed"}, Timestamp: ts(1)},
			{SHA: "b", Author: model.Author{Login: "bob-gh"}, Timestamp: ts(1)},
			{SHA: "c", Author: model.Author{Login: "amy"}, Timestamp: ts(1)},
		},
	}}
	names := map[string]string{"bob-gh": "Bob", "zed": "Zed"}

	aggs := Aggregate(colls, names)
	require.Len(t, aggs, 3)

	var got []string
	for _, agg := range aggs {
		got = append(got, agg.Author.Display())
	}
	// Case-insensitive ordering: amy before Bob before Zed.
	assert.Equal(t, []string{"amy", "Bob", "Zed"}, got)
}

func TestAggregateIssuesAndPullRequests(t *testing.T) {
	colls := []*model.RepositoryCollection{{
		Issues: []model.Issue{{
			Number:    1,
			Author:    model.Author{Login: "carol"},
			Timestamp: ts(1),
		}},
		PullRequests: []model.PullRequest{{
			Issue: model.Issue{
				Number:    2,
				Author:    model.Author{Login: "carol"},
				Timestamp: ts(2),
			},
			Merged: true,
			Stats:  model.Stats{FilesChanged: 2, Additions: 5, Deletions: 1},
		}},
	}}

	aggs := Aggregate(colls, nil)
	require.Len(t, aggs, 1)

	agg := aggs[0]
	assert.Equal(t, 0, agg.CommitCount)
	assert.Equal(t, 1, agg.IssueCount)
	assert.Equal(t, 1, agg.PullRequestCount)
	// Pull request stats count toward the author's totals.
	assert.Equal(t, model.Stats{FilesChanged: 2, Additions: 5, Deletions: 1}, agg.Stats)
}

func TestAggregateCommentsOnlyForContributors(t *testing.T) {
	colls := []*model.RepositoryCollection{{
		Commits: []model.Commit{
			{SHA: "a", Author: model.Author{Login: "alice"}, Timestamp: ts(1)},
		},
		Issues: []model.Issue{{
			Number:    1,
			Author:    model.Author{Login: "alice"},
			Timestamp: ts(1),
			Comments: []model.Comment{
				{Author: model.Author{Login: "Alice"}, Body: "done"},
				{Author: model.Author{Login: "driveby"}, Body: "+1"},
			},
		}},
	}}

	aggs := Aggregate(colls, nil)
	require.Len(t, aggs, 1)

	agg := aggs[0]
	// The drive-by commenter has no contributions of their own, so the
	// comment is not attributed to anyone.
	require.Len(t, agg.IssueComments, 1)
	assert.Equal(t, "done", agg.IssueComments[0].Body)
}

func TestLoadUsernames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usernames.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bob-gh": "Bob"}`), 0644))

	names, err := LoadUsernames(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bob-gh": "Bob"}, names)

	empty, err := LoadUsernames("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
