// Package github provides the GitHub REST operations pullr needs to open a
// pull request: create it, assign it, list organization members and request
// reviews.
package github

import (
	"net/url"

	"github.com/cockroachdb/errors"
)

// AuthMethod represents the authentication method for GitHub.
type AuthMethod string

const (
	// AuthToken uses a personal access token for authentication.
	AuthToken AuthMethod = "token"
	// AuthOAuth uses the OAuth device flow, caching the token in the keychain.
	AuthOAuth AuthMethod = "oauth"
)

// PRInfo represents a pull request returned by GitHub.
type PRInfo struct {
	Number     int
	Title      string
	URL        string // html_url as returned by the API
	HeadBranch string
	BaseBranch string
}

// CreatePROptions holds options for creating a pull request.
type CreatePROptions struct {
	Owner      string // Repository owner (user or organization)
	Repo       string // Repository name
	Title      string // PR title (required)
	Body       string // Rendered PR body
	HeadBranch string // Source branch (required)
	BaseBranch string // Target branch (required)
}

// PullRequestLink reduces a pull request's html_url to scheme, host and path.
// Query strings and fragments are dropped.
func PullRequestLink(htmlURL string) (string, error) {
	u, err := url.Parse(htmlURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid pull request url %q", htmlURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.Newf("pull request url %q has no scheme or host", htmlURL)
	}
	return u.Scheme + "://" + u.Host + u.Path, nil
}
