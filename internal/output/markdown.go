package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/hal/contrib/internal/aggregate"
	"github.com/hal/contrib/internal/model"
)

// MarkdownFormatter formats output as Markdown, one section per author.
type MarkdownFormatter struct{}

// Format writes each author's contributions as a Markdown report
// section. Merge commits are suppressed from the commit list; they
// carry no authored work of their own.
func (f *MarkdownFormatter) Format(aggs []*aggregate.AuthorAggregate, w io.Writer) error {
	if len(aggs) == 0 {
		fmt.Fprintln(w, "No contributions found.")
		return nil
	}

	for _, agg := range aggs {
		fmt.Fprintf(w, "## %s\n\n", agg.Author.Display())

		fmt.Fprintf(w, "### Commits\n\n")
		f.formatCommits(agg.Commits, w)

		fmt.Fprintf(w, "### Issues\n\n")
		f.formatIssues(agg.Issues, w)
		fmt.Fprintf(w, "#### Comments\n\n")
		f.formatComments(agg.IssueComments, w)

		fmt.Fprintf(w, "### Pull Requests\n\n")
		f.formatPulls(agg.PullRequests, w)
		fmt.Fprintf(w, "#### Comments\n\n")
		f.formatComments(agg.PullRequestComments, w)
	}

	return nil
}

func (f *MarkdownFormatter) formatCommits(commits []model.Commit, w io.Writer) {
	n := 0
	for _, c := range commits {
		if c.IsMerge() {
			continue
		}
		n++
		fmt.Fprintf(w, "%d. %s - [Link](%s)\n", n, oneLine(c.Message), c.Link)
	}
	if n == 0 {
		fmt.Fprintln(w, "No commits found")
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) formatIssues(issues []model.Issue, w io.Writer) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues found")
		fmt.Fprintln(w)
		return
	}
	for i, is := range issues {
		fmt.Fprintf(w, "%d. %s - [Link](%s)\n", i+1, oneLine(is.Title), is.Link)
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) formatPulls(pulls []model.PullRequest, w io.Writer) {
	if len(pulls) == 0 {
		fmt.Fprintln(w, "No pull requests found")
		fmt.Fprintln(w)
		return
	}
	for i, pr := range pulls {
		fmt.Fprintf(w, "%d. %s - [Link](%s)\n", i+1, oneLine(pr.Title), pr.Link)
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) formatComments(comments []model.Comment, w io.Writer) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments found")
		fmt.Fprintln(w)
		return
	}
	for i, c := range comments {
		fmt.Fprintf(w, "%d. %s\n", i+1, c.Body)
	}
	fmt.Fprintln(w)
}

// oneLine collapses a multi-line message onto a single list line.
func oneLine(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " ; ")
}
