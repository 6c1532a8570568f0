// Package ghclient wraps the GitHub API client with rate-limit aware
// retries and pagination. One request is in flight at a time; quota
// consumption is serialized by construction rather than by locks.
package ghclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

const (
	// perPage is the page size requested from list endpoints.
	perPage = 100

	// maxTransientAttempts bounds retries of timeouts and 5xx responses.
	maxTransientAttempts = 3

	// initialBackoff is the first exponential backoff delay.
	initialBackoff = time.Second

	// maxRateLimitWait caps how long a quota reset is waited for. The
	// reset timestamp comes from the provider and can be far off; past
	// this ceiling the request fails instead of stalling the run.
	maxRateLimitWait = 5 * time.Minute
)

// Client wraps the go-github client. The rate-limit state, clock, and
// sleep function are explicit fields so tests can inject fakes. A nil
// sleep means real timed waits that respect context cancellation.
type Client struct {
	gh     *github.Client
	limits *RateLimitState

	sleep func(time.Duration)
	now   func() time.Time
}

// NewClient creates a client using a personal access token. An empty
// token is allowed and results in unauthenticated, lower-quota access.
func NewClient(token string) *Client {
	httpClient := http.DefaultClient
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	return &Client{
		gh:     github.NewClient(httpClient),
		limits: &RateLimitState{},
		now:    time.Now,
	}
}

// wait pauses for d, returning early when the context is canceled. Rate
// limit waits can last minutes; an operator interrupt must not have to
// sit them out. The injected sleep takes over under test.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if c.sleep != nil {
		c.sleep(d)
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NewClientWithBaseURL points an unauthenticated client at an alternate
// API root. Used by tests to target a fake GitHub server.
func NewClientWithBaseURL(base string) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := NewClient("")
	c.gh.BaseURL = u
	return c, nil
}

// Raw returns the underlying go-github client.
func (c *Client) Raw() *github.Client {
	return c.gh
}

// Limits returns the most recently observed rate-limit state.
func (c *Client) Limits() *RateLimitState {
	return c.limits
}
