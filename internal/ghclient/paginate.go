package ghclient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/hal/contrib/internal/log"
)

// Pages drives a paged list call to completion and returns every item on
// or after the since cutoff. A zero since means no lower bound. Each
// invocation starts from the first page; the sequence is finite and not
// restartable.
//
// Pagination stops when a page comes back empty or the provider reports
// no further pages. When newestFirst is true the endpoint is known to be
// ordered reverse-chronologically and pagination also stops at the first
// item older than since; otherwise every page is scanned and the cutoff
// is applied per item.
func Pages[T any](ctx context.Context, c *Client, op string, since time.Time, newestFirst bool, at func(T) time.Time, list func(page int) ([]T, *github.Response, error)) ([]T, error) {
	var out []T
	page := 1

	for {
		var items []T
		var resp *github.Response

		err := c.Do(ctx, fmt.Sprintf("%s (page %d)", op, page), func() (*github.Response, error) {
			var err error
			items, resp, err = list(page)
			return resp, err
		})
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return out, nil
		}

		log.Progress("%s: page %d, %d items", op, page, len(items))

		sawOlder := false
		for _, item := range items {
			if !since.IsZero() && at(item).Before(since) {
				sawOlder = true
				if newestFirst {
					break
				}
				continue
			}
			out = append(out, item)
		}

		if newestFirst && sawOlder {
			log.Debug("reached items before cutoff, stopping pagination", "op", op, "page", page)
			return out, nil
		}
		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		page = resp.NextPage
	}
}
