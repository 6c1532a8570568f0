package gather

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/hal/contrib/internal/ghclient"
	"github.com/hal/contrib/internal/log"
	"github.com/hal/contrib/internal/model"
)

// Normalization maps raw API payloads onto the closed contribution
// variants. Missing or unfetchable fields fail soft to their zero
// values; a record is never dropped for a bad field.

func (g *Gatherer) normalizeCommit(ctx context.Context, owner, name string, rc *github.RepositoryCommit) model.Commit {
	c := model.Commit{
		SHA:        rc.GetSHA(),
		Author:     commitAuthor(rc),
		Timestamp:  rc.GetCommit().GetAuthor().GetDate().Time,
		Repository: owner + "/" + name,
		Link:       rc.GetHTMLURL(),
		Message:    rc.GetCommit().GetMessage(),
	}
	c.CoAuthors = CoAuthors(c.Message, c.Author.Login)
	c.Stats = g.commitStats(ctx, owner, name, c.SHA)
	return c
}

// commitAuthor prefers the GitHub account login; commits with no account
// association fall back to the git author name, then to "unknown".
func commitAuthor(rc *github.RepositoryCommit) model.Author {
	if login := rc.GetAuthor().GetLogin(); login != "" {
		return model.Author{Login: login}
	}
	if name := rc.GetCommit().GetAuthor().GetName(); name != "" {
		return model.Author{Login: name}
	}
	return model.Author{Login: "unknown"}
}

// commitStats fetches diff statistics for one commit, memoized by SHA
// for the current repository run. The list endpoint does not carry
// stats, so this is a secondary request per commit.
func (g *Gatherer) commitStats(ctx context.Context, owner, name, sha string) model.Stats {
	if s, ok := g.diffs[sha]; ok {
		return s
	}

	var rc *github.RepositoryCommit
	err := g.client.Do(ctx, "get commit "+sha, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		rc, resp, err = g.client.Raw().Repositories.GetCommit(ctx, owner, name, sha, nil)
		return resp, err
	})
	if err != nil {
		log.Warn("could not fetch commit stats", "repo", owner+"/"+name, "sha", sha, "error", err)
		g.diffs[sha] = model.Stats{}
		return model.Stats{}
	}

	s := model.Stats{
		FilesChanged: len(rc.Files),
		Additions:    rc.GetStats().GetAdditions(),
		Deletions:    rc.GetStats().GetDeletions(),
	}
	g.diffs[sha] = s
	return s
}

func (g *Gatherer) normalizeIssue(ctx context.Context, owner, name string, is *github.Issue) model.Issue {
	out := model.Issue{
		Number:       is.GetNumber(),
		Author:       model.Author{Login: is.GetUser().GetLogin()},
		Timestamp:    is.GetCreatedAt().Time,
		Repository:   owner + "/" + name,
		Link:         is.GetHTMLURL(),
		Title:        is.GetTitle(),
		Description:  is.GetBody(),
		State:        model.State(is.GetState()),
		CommentCount: is.GetComments(),
	}

	for _, l := range is.Labels {
		out.Labels = append(out.Labels, l.GetName())
	}
	for _, a := range is.Assignees {
		out.Assignees = append(out.Assignees, model.Author{Login: a.GetLogin()})
	}

	if out.CommentCount > 0 {
		out.Comments = g.fetchComments(ctx, owner, name, out.Number)
	}

	return out
}

func (g *Gatherer) normalizePullRequest(ctx context.Context, owner, name string, is *github.Issue) model.PullRequest {
	pr := model.PullRequest{Issue: g.normalizeIssue(ctx, owner, name, is)}

	var detail *github.PullRequest
	err := g.client.Do(ctx, fmt.Sprintf("get pull request %s/%s#%d", owner, name, pr.Number), func() (*github.Response, error) {
		var resp *github.Response
		var err error
		detail, resp, err = g.client.Raw().PullRequests.Get(ctx, owner, name, pr.Number)
		return resp, err
	})
	if err != nil {
		log.Warn("could not fetch pull request details", "repo", owner+"/"+name, "number", pr.Number, "error", err)
	} else {
		pr.Merged = detail.GetMerged()
		pr.Stats = model.Stats{
			FilesChanged: detail.GetChangedFiles(),
			Additions:    detail.GetAdditions(),
			Deletions:    detail.GetDeletions(),
		}
	}

	pr.Commits = g.pullRequestCommits(ctx, owner, name, pr.Number)
	return pr
}

// pullRequestCommits normalizes the commits a pull request carries,
// reusing the commit path so co-authors and memoized stats apply.
func (g *Gatherer) pullRequestCommits(ctx context.Context, owner, name string, number int) []model.Commit {
	raw, err := ghclient.Pages(ctx, g.client, fmt.Sprintf("list commits for %s/%s#%d", owner, name, number),
		noCutoff, false,
		func(rc *github.RepositoryCommit) time.Time { return rc.GetCommit().GetAuthor().GetDate().Time },
		func(page int) ([]*github.RepositoryCommit, *github.Response, error) {
			lo := listOptions(page)
			return g.client.Raw().PullRequests.ListCommits(ctx, owner, name, number, &lo)
		})
	if err != nil {
		log.Warn("could not fetch pull request commits", "repo", owner+"/"+name, "number", number, "error", err)
		return nil
	}

	var commits []model.Commit
	for _, rc := range raw {
		commits = append(commits, g.normalizeCommit(ctx, owner, name, rc))
	}
	return commits
}

// fetchComments loads the comments of an issue or pull request. The
// parent record survives a comment fetch failure.
func (g *Gatherer) fetchComments(ctx context.Context, owner, name string, number int) []model.Comment {
	raw, err := ghclient.Pages(ctx, g.client, fmt.Sprintf("list comments for %s/%s#%d", owner, name, number),
		noCutoff, false,
		func(c *github.IssueComment) time.Time { return c.GetCreatedAt().Time },
		func(page int) ([]*github.IssueComment, *github.Response, error) {
			lo := &github.IssueListCommentsOptions{ListOptions: listOptions(page)}
			return g.client.Raw().Issues.ListComments(ctx, owner, name, number, lo)
		})
	if err != nil {
		log.Warn("could not fetch comments", "repo", owner+"/"+name, "number", number, "error", err)
		return nil
	}

	var comments []model.Comment
	for _, c := range raw {
		comments = append(comments, model.Comment{
			Author: model.Author{Login: c.GetUser().GetLogin()},
			Body:   c.GetBody(),
		})
	}
	return comments
}
