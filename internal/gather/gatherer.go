// Package gather retrieves commits, issues, and pull requests for a
// repository and normalizes them into contribution records.
package gather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/hal/contrib/internal/ghclient"
	"github.com/hal/contrib/internal/log"
	"github.com/hal/contrib/internal/model"
)

// Gatherer runs the fetch and normalize passes for one repository at a
// time. Repositories are processed strictly sequentially; the gatherer
// holds no state that outlives a Gather call except the shared client.
type Gatherer struct {
	client *ghclient.Client

	// diffs memoizes per-commit stats by SHA within one repository run
	// so pull request commits never re-fetch stats already retrieved
	// during commit gathering.
	diffs map[string]model.Stats
}

// New creates a gatherer using the given client.
func New(client *ghclient.Client) *Gatherer {
	return &Gatherer{client: client}
}

// noCutoff disables since filtering on nested listings; the parent
// record already passed the cutoff.
var noCutoff time.Time

// Options control a single repository gathering run.
type Options struct {
	Repo   string // owner/name
	Branch string // empty means the default branch
	Since  time.Time
}

// Gather retrieves the repository's commits, issues, and pull requests
// on or after the since cutoff and returns them as one collection. The
// collection is built fully in memory; persisting it is the caller's
// concern so a failure here never leaves partial output behind.
func (g *Gatherer) Gather(ctx context.Context, opts Options) (*model.RepositoryCollection, error) {
	owner, name, err := splitRepo(opts.Repo)
	if err != nil {
		return nil, err
	}

	// Verify the repository is reachable before spending quota on its
	// endpoints.
	err = g.client.Do(ctx, "get repository "+opts.Repo, func() (*github.Response, error) {
		_, resp, err := g.client.Raw().Repositories.Get(ctx, owner, name)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("repository %s not accessible: %w", opts.Repo, err)
	}

	g.diffs = make(map[string]model.Stats)

	coll := &model.RepositoryCollection{
		Repository:   opts.Repo,
		Branch:       opts.Branch,
		Commits:      []model.Commit{},
		Issues:       []model.Issue{},
		PullRequests: []model.PullRequest{},
	}
	if !opts.Since.IsZero() {
		coll.Since = opts.Since.Format("2006-01-02")
	}

	coll.Commits, err = g.gatherCommits(ctx, owner, name, opts)
	if err != nil {
		return nil, err
	}

	coll.Issues, coll.PullRequests, err = g.gatherIssuesAndPulls(ctx, owner, name, opts)
	if err != nil {
		return nil, err
	}

	log.Info("gathered repository",
		"repo", opts.Repo,
		"commits", len(coll.Commits),
		"issues", len(coll.Issues),
		"pullRequests", len(coll.PullRequests))

	return coll, nil
}

// gatherCommits lists branch commits newest first. The endpoint is
// reverse-chronological by default, so pagination stops early at the
// cutoff.
func (g *Gatherer) gatherCommits(ctx context.Context, owner, name string, opts Options) ([]model.Commit, error) {
	raw, err := ghclient.Pages(ctx, g.client, "list commits "+opts.Repo, opts.Since, true,
		func(rc *github.RepositoryCommit) time.Time { return rc.GetCommit().GetAuthor().GetDate().Time },
		func(page int) ([]*github.RepositoryCommit, *github.Response, error) {
			lo := &github.CommitsListOptions{
				SHA:         opts.Branch,
				ListOptions: listOptions(page),
			}
			return g.client.Raw().Repositories.ListCommits(ctx, owner, name, lo)
		})
	if err != nil {
		return nil, err
	}

	commits := make([]model.Commit, 0, len(raw))
	for _, rc := range raw {
		commits = append(commits, g.normalizeCommit(ctx, owner, name, rc))
	}
	log.ProgressDone()
	return commits, nil
}

// gatherIssuesAndPulls lists issues of all states, which on this API
// includes pull requests; the pull_request key on the raw payload is
// the discriminator. Sorting by creation date descending makes the
// early-termination cutoff valid here too.
func (g *Gatherer) gatherIssuesAndPulls(ctx context.Context, owner, name string, opts Options) ([]model.Issue, []model.PullRequest, error) {
	raw, err := ghclient.Pages(ctx, g.client, "list issues "+opts.Repo, opts.Since, true,
		func(is *github.Issue) time.Time { return is.GetCreatedAt().Time },
		func(page int) ([]*github.Issue, *github.Response, error) {
			lo := &github.IssueListByRepoOptions{
				State:       "all",
				Sort:        "created",
				Direction:   "desc",
				ListOptions: listOptions(page),
			}
			return g.client.Raw().Issues.ListByRepo(ctx, owner, name, lo)
		})
	if err != nil {
		return nil, nil, err
	}

	issues := []model.Issue{}
	pulls := []model.PullRequest{}
	for _, is := range raw {
		if is.IsPullRequest() {
			pulls = append(pulls, g.normalizePullRequest(ctx, owner, name, is))
		} else {
			issues = append(issues, g.normalizeIssue(ctx, owner, name, is))
		}
	}
	log.ProgressDone()
	return issues, pulls, nil
}

func listOptions(page int) github.ListOptions {
	return github.ListOptions{Page: page, PerPage: 100}
}

// splitRepo splits an owner/name identifier.
func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", repo)
	}
	return parts[0], parts[1], nil
}
