package gather

import (
	"regexp"
	"strings"

	"github.com/hal/contrib/internal/model"
)

var (
	coAuthorPattern = regexp.MustCompile(`(?mi)^Co-authored-by:\s*(.*?)\s*<([^>]*)>\s*$`)

	// GitHub noreply addresses embed the account login, with an optional
	// numeric user id prefix: 12345+login@users.noreply.github.com.
	noreplyPattern = regexp.MustCompile(`(?i)^(?:\d+\+)?([^@+]+)@users\.noreply\.github\.com$`)
)

// CoAuthors extracts the identities named in Co-authored-by trailer
// lines of a commit message. The primary author and repeated trailers
// are deduplicated by case-insensitive login; an unparsable trailer is
// skipped rather than failing the commit.
func CoAuthors(message, primary string) []model.Author {
	var out []model.Author
	seen := map[string]bool{strings.ToLower(primary): true}

	for _, m := range coAuthorPattern.FindAllStringSubmatch(message, -1) {
		login := coAuthorLogin(m[1], m[2])
		if login == "" {
			continue
		}
		key := strings.ToLower(login)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.Author{Login: login})
	}

	return out
}

// coAuthorLogin resolves one trailer to a login. Noreply emails carry
// the GitHub login; any other address falls back to the display name
// from the trailer, matching how attribution is keyed when no account
// association exists.
func coAuthorLogin(name, email string) string {
	if m := noreplyPattern.FindStringSubmatch(strings.TrimSpace(email)); m != nil {
		return m[1]
	}
	return strings.TrimSpace(name)
}
