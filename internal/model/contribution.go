// Package model contains domain types for gathered GitHub contributions.
// These types are independent of any external GitHub library; raw API
// payloads are mapped onto them at the normalization boundary and no
// downstream code branches on payload shape again.
package model

import (
	"strings"
	"time"
)

// Kind identifies a contribution variant.
type Kind string

const (
	KindCommit      Kind = "commit"
	KindIssue       Kind = "issue"
	KindPullRequest Kind = "pull_request"
)

// Author identifies a GitHub account. DisplayName is filled in when the
// login resolves through a username mapping; it is empty otherwise.
type Author struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name,omitempty"`
}

// Display returns the resolved display name, falling back to the login.
func (a Author) Display() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Login
}

// Is reports whether the author is the given login. GitHub logins are
// case-insensitive.
func (a Author) Is(login string) bool {
	return strings.EqualFold(a.Login, login)
}

// Stats holds the diff statistics of a commit or pull request.
type Stats struct {
	FilesChanged int `json:"files_changed"`
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.FilesChanged += other.FilesChanged
	s.Additions += other.Additions
	s.Deletions += other.Deletions
}

// Total returns the total number of lines changed.
func (s Stats) Total() int {
	return s.Additions + s.Deletions
}

// State of an issue or pull request.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Commit is a normalized repository commit.
type Commit struct {
	SHA        string    `json:"sha"`
	Author     Author    `json:"author"`
	CoAuthors  []Author  `json:"co_authors,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Repository string    `json:"repository"`
	Link       string    `json:"link"`
	Message    string    `json:"message"`
	Stats      Stats     `json:"stats"`
}

// Kind returns KindCommit.
func (c Commit) Kind() Kind { return KindCommit }

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

var mergePrefixes = []string{
	"Merge branch",
	"Merge pull request",
	"Merge remote-tracking branch",
}

// IsMerge reports whether the commit message is a git merge message.
func (c Commit) IsMerge() bool {
	for _, p := range mergePrefixes {
		if strings.HasPrefix(c.Message, p) {
			return true
		}
	}
	return false
}

// Comment is a single issue or pull request comment. Comments are not
// first-class contributions; they ride along with their parent record.
type Comment struct {
	Author Author `json:"author"`
	Body   string `json:"body"`
}

// Issue is a normalized repository issue.
type Issue struct {
	Number       int       `json:"number"`
	Author       Author    `json:"author"`
	Timestamp    time.Time `json:"timestamp"`
	Repository   string    `json:"repository"`
	Link         string    `json:"link"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Labels       []string  `json:"labels,omitempty"`
	Assignees    []Author  `json:"assignees,omitempty"`
	State        State     `json:"state"`
	CommentCount int       `json:"comment_count"`
	Comments     []Comment `json:"comments,omitempty"`
}

// Kind returns KindIssue.
func (i Issue) Kind() Kind { return KindIssue }

// PullRequest is an Issue plus merge status, diff statistics, and the
// commits it carries.
type PullRequest struct {
	Issue
	Merged  bool     `json:"merged"`
	Stats   Stats    `json:"stats"`
	Commits []Commit `json:"commits,omitempty"`
}

// Kind returns KindPullRequest.
func (p PullRequest) Kind() Kind { return KindPullRequest }
