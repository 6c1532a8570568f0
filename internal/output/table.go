package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/hal/contrib/internal/aggregate"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var titleStyle = lipgloss.NewStyle().Bold(true)

// TableFormatter formats output as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	if url == "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// displayWidth returns the visible width of a string in terminal columns
func displayWidth(s string) int {
	return runewidth.StringWidth(stripAnsi(s))
}

// truncateToWidth truncates a string to fit within maxWidth display columns
func truncateToWidth(s string, maxWidth int) string {
	plain := stripAnsi(s)
	if runewidth.StringWidth(plain) <= maxWidth {
		return s
	}
	return runewidth.Truncate(plain, maxWidth, "...")
}

// padRight pads a string with spaces to reach the target visible width
func padRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}

// Format outputs author aggregates as a summary table, one row per
// author, with a totals footer.
func (f *TableFormatter) Format(aggs []*aggregate.AuthorAggregate, w io.Writer) error {
	if len(aggs) == 0 {
		fmt.Fprintln(w, "No contributions found.")
		return nil
	}

	const (
		colAuthor  = 28
		colCommits = 7
		colIssues  = 6
		colPulls   = 5
		colFiles   = 5
	)

	fmt.Fprintln(w, titleStyle.Render("Contribution Summary"))
	fmt.Fprintln(w)

	header := fmt.Sprintf("%-*s  %*s  %*s  %*s  %*s  %s",
		colAuthor, "Author",
		colCommits, "Commits",
		colIssues, "Issues",
		colPulls, "PRs",
		colFiles, "Files",
		"+/-")
	fmt.Fprintln(w, color.New(color.Bold).Sprint(header))
	fmt.Fprintln(w, strings.Repeat("-", displayWidth(header)+8))

	var total aggregate.AuthorAggregate
	for _, agg := range aggs {
		name := truncateToWidth(agg.Author.Display(), colAuthor)
		width := displayWidth(name)
		name = padRight(hyperlink(name, "https://github.com/"+agg.Author.Login), width, colAuthor)

		fmt.Fprintf(w, "%s  %*d  %*d  %*d  %*d  %s/%s\n",
			name,
			colCommits, agg.CommitCount,
			colIssues, agg.IssueCount,
			colPulls, agg.PullRequestCount,
			colFiles, agg.Stats.FilesChanged,
			color.GreenString("+%d", agg.Stats.Additions),
			color.RedString("-%d", agg.Stats.Deletions),
		)

		total.CommitCount += agg.CommitCount
		total.IssueCount += agg.IssueCount
		total.PullRequestCount += agg.PullRequestCount
		total.Stats.Add(agg.Stats)
	}

	fmt.Fprintln(w, strings.Repeat("-", displayWidth(header)+8))
	fmt.Fprintf(w, "%-*s  %*d  %*d  %*d  %*d  +%d/-%d\n",
		colAuthor, fmt.Sprintf("Total (%d authors)", len(aggs)),
		colCommits, total.CommitCount,
		colIssues, total.IssueCount,
		colPulls, total.PullRequestCount,
		colFiles, total.Stats.FilesChanged,
		total.Stats.Additions, total.Stats.Deletions,
	)

	return nil
}
