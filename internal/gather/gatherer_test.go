package gather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal/contrib/internal/ghclient"
	"github.com/hal/contrib/internal/model"
)

// fakeRepo serves a small repository: two commits (one before the
// cutoff), one issue with a comment, and one merged pull request that
// carries the newer commit.
type fakeRepo struct {
	statsCalls int
	statsFail  bool
}

func (f *fakeRepo) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/repos/o/r":
			fmt.Fprint(w, `{"full_name":"o/r"}`)

		case "/repos/o/r/commits":
			fmt.Fprint(w, `[
				{
					"sha": "c1",
					"html_url": "https://github.com/o/r/commit/c1",
					"author": {"login": "alice"},
					"commit": {
						"message": "Add widget\n\nCo-authored-by: Bob <99+bob@users.noreply.github.com>",
						"author": {"name": "Alice A", "date": "2024-01-01T00:00:00Z"}
					}
				},
				{
					"sha": "c0",
					"html_url": "https://github.com/o/r/commit/c0",
					"author": {"login": "alice"},
					"commit": {
						"message": "Old work",
						"author": {"name": "Alice A", "date": "2023-12-31T10:00:00Z"}
					}
				}
			]`)

		case "/repos/o/r/commits/c1":
			f.statsCalls++
			if f.statsFail {
				http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
				return
			}
			fmt.Fprint(w, `{
				"sha": "c1",
				"stats": {"additions": 10, "deletions": 2, "total": 12},
				"files": [{"filename": "a.go"}, {"filename": "b.go"}]
			}`)

		case "/repos/o/r/issues":
			fmt.Fprint(w, `[
				{
					"number": 2,
					"title": "Add widget",
					"body": "Implements the widget",
					"state": "closed",
					"comments": 0,
					"created_at": "2024-02-02T00:00:00Z",
					"html_url": "https://github.com/o/r/pull/2",
					"user": {"login": "Bob"},
					"pull_request": {"url": "https://api.github.com/repos/o/r/pulls/2"}
				},
				{
					"number": 1,
					"title": "Widget is broken",
					"body": "It does not spin",
					"state": "open",
					"comments": 1,
					"created_at": "2024-02-01T00:00:00Z",
					"html_url": "https://github.com/o/r/issues/1",
					"user": {"login": "carol"},
					"labels": [{"name": "bug"}],
					"assignees": [{"login": "alice"}]
				}
			]`)

		case "/repos/o/r/issues/1/comments":
			fmt.Fprint(w, `[{"user": {"login": "alice"}, "body": "On it"}]`)

		case "/repos/o/r/pulls/2":
			fmt.Fprint(w, `{
				"number": 2,
				"merged": true,
				"additions": 10,
				"deletions": 2,
				"changed_files": 2
			}`)

		case "/repos/o/r/pulls/2/commits":
			fmt.Fprint(w, `[
				{
					"sha": "c1",
					"html_url": "https://github.com/o/r/commit/c1",
					"author": {"login": "alice"},
					"commit": {
						"message": "Add widget\n\nCo-authored-by: Bob <99+bob@users.noreply.github.com>",
						"author": {"name": "Alice A", "date": "2024-01-01T00:00:00Z"}
					}
				}
			]`)

		default:
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		}
	})
}

func newFakeGatherer(t *testing.T, f *fakeRepo) *Gatherer {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	client, err := ghclient.NewClientWithBaseURL(srv.URL)
	require.NoError(t, err)
	return New(client)
}

func TestGather(t *testing.T) {
	f := &fakeRepo{}
	g := newFakeGatherer(t, f)

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	coll, err := g.Gather(context.Background(), Options{Repo: "o/r", Branch: "main", Since: since})
	require.NoError(t, err)

	assert.Equal(t, "o/r", coll.Repository)
	assert.Equal(t, "main", coll.Branch)
	assert.Equal(t, "2024-01-01", coll.Since)

	// The commit before the cutoff is excluded; the one dated exactly on
	// the cutoff is included.
	require.Len(t, coll.Commits, 1)
	c := coll.Commits[0]
	assert.Equal(t, "c1", c.SHA)
	assert.Equal(t, "alice", c.Author.Login)
	assert.Equal(t, []model.Author{{Login: "bob"}}, c.CoAuthors)
	assert.Equal(t, model.Stats{FilesChanged: 2, Additions: 10, Deletions: 2}, c.Stats)
	assert.Equal(t, "o/r", c.Repository)

	require.Len(t, coll.Issues, 1)
	is := coll.Issues[0]
	assert.Equal(t, 1, is.Number)
	assert.Equal(t, "carol", is.Author.Login)
	assert.Equal(t, model.StateOpen, is.State)
	assert.Equal(t, []string{"bug"}, is.Labels)
	assert.Equal(t, []model.Author{{Login: "alice"}}, is.Assignees)
	assert.Equal(t, 1, is.CommentCount)
	require.Len(t, is.Comments, 1)
	assert.Equal(t, "alice", is.Comments[0].Author.Login)
	// Plain issues carry no diff statistics.
	assert.Equal(t, model.KindIssue, is.Kind())

	require.Len(t, coll.PullRequests, 1)
	pr := coll.PullRequests[0]
	assert.Equal(t, 2, pr.Number)
	assert.Equal(t, "Bob", pr.Author.Login)
	assert.True(t, pr.Merged)
	assert.Equal(t, model.Stats{FilesChanged: 2, Additions: 10, Deletions: 2}, pr.Stats)
	require.Len(t, pr.Commits, 1)
	assert.Equal(t, "c1", pr.Commits[0].SHA)

	// The pull request's embedded commit reuses the memoized stats.
	assert.Equal(t, 1, f.statsCalls)
}

func TestGatherIdempotent(t *testing.T) {
	f := &fakeRepo{}
	g := newFakeGatherer(t, f)

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := Options{Repo: "o/r", Branch: "main", Since: since}

	first, err := g.Gather(context.Background(), opts)
	require.NoError(t, err)
	second, err := g.Gather(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGatherStatsFailSoft(t *testing.T) {
	f := &fakeRepo{statsFail: true}
	g := newFakeGatherer(t, f)

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	coll, err := g.Gather(context.Background(), Options{Repo: "o/r", Since: since})
	require.NoError(t, err)

	// The commit survives with zero stats.
	require.Len(t, coll.Commits, 1)
	assert.Equal(t, model.Stats{}, coll.Commits[0].Stats)
}

func TestGatherRepositoryNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client, err := ghclient.NewClientWithBaseURL(srv.URL)
	require.NoError(t, err)

	_, err = New(client).Gather(context.Background(), Options{Repo: "o/gone"})
	require.Error(t, err)
}

func TestSplitRepo(t *testing.T) {
	tests := []struct {
		in      string
		owner   string
		name    string
		wantErr bool
	}{
		{"owner/repo", "owner", "repo", false},
		{"owner", "", "", true},
		{"owner/repo/extra", "", "", true},
		{"/repo", "", "", true},
		{"owner/", "", "", true},
	}

	for _, tt := range tests {
		owner, name, err := splitRepo(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.owner, owner)
		assert.Equal(t, tt.name, name)
	}
}
