package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hal/contrib/internal/aggregate"
)

func TestJSONFormat(t *testing.T) {
	var sb strings.Builder
	if err := (&JSONFormatter{Pretty: true}).Format(sampleAggregates(), &sb); err != nil {
		t.Fatalf("Format: %v", err)
	}
	got := sb.String()

	var decoded []*aggregate.AuthorAggregate
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(decoded))
	}

	alice := decoded[0]
	if alice.Author.Login != "alice" || alice.Author.DisplayName != "Alice A" {
		t.Errorf("unexpected author: %+v", alice.Author)
	}
	if alice.CommitCount != 2 || alice.IssueCount != 1 {
		t.Errorf("unexpected counts: %+v", alice)
	}
	if alice.Stats.Additions != 10 || alice.Stats.Deletions != 2 {
		t.Errorf("unexpected stats: %+v", alice.Stats)
	}
	if len(alice.Commits) != 2 || alice.Commits[0].SHA != "abc" {
		t.Errorf("unexpected commits: %+v", alice.Commits)
	}

	bob := decoded[1]
	if bob.PullRequestCount != 1 || len(bob.PullRequests) != 1 || !bob.PullRequests[0].Merged {
		t.Errorf("unexpected pull requests: %+v", bob)
	}

	// Pretty output is indented.
	if !strings.Contains(got, "\n  ") {
		t.Error("expected indented output with Pretty set")
	}
}

func TestJSONFormatCompact(t *testing.T) {
	var sb strings.Builder
	if err := (&JSONFormatter{}).Format(sampleAggregates(), &sb); err != nil {
		t.Fatalf("Format: %v", err)
	}
	got := strings.TrimRight(sb.String(), "\n")
	if strings.Contains(got, "\n") {
		t.Error("expected single-line output without Pretty")
	}
}
