package git

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrMalformedRemoteURL is returned when no owner/repository pair can be
// found in a remote URL.
var ErrMalformedRemoteURL = errors.New("malformed remote url")

// Remote identifies a repository on the forge.
type Remote struct {
	Base string // Owning user or organization
	Repo string // Repository name without .git
}

// String returns "base/repo".
func (r Remote) String() string {
	return r.Base + "/" + r.Repo
}

// Remote URL patterns. In every form the owner is the path segment right
// before the last one, and the last one is the repository.
var (
	// scp-like SSH: git@github.com:owner/repo.git
	scpRemoteRegex = regexp.MustCompile(`^[^/:]+:(?:[^:]*/)?([\w.-]+)/([\w.-]+?)(?:\.git)?/?$`)

	// URL forms: https://, http://, ssh://, git://, file://
	urlRemoteRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://[^/]*/(?:.*/)?([\w.-]+)/([\w.-]+?)(?:\.git)?/?$`)

	// Local paths: /srv/git/owner/repo.git or ../owner/repo
	pathRemoteRegex = regexp.MustCompile(`^\.{0,2}/(?:.*/)?([\w.-]+)/([\w.-]+?)(?:\.git)?/?$`)
)

// ParseRemote extracts the owner and repository name from a git remote URL.
// Supported formats:
//   - SSH: git@github.com:owner/repo.git
//   - URL: https://github.com/owner/repo, ssh://git@host:22/owner/repo.git
//   - Path: /srv/git/owner/repo.git
func ParseRemote(url string) (Remote, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Remote{}, errors.Wrap(ErrMalformedRemoteURL, "empty url")
	}

	var matches []string
	switch {
	case strings.Contains(url, "://"):
		matches = urlRemoteRegex.FindStringSubmatch(url)
	case strings.HasPrefix(url, "/") || strings.HasPrefix(url, "."):
		matches = pathRemoteRegex.FindStringSubmatch(url)
	default:
		matches = scpRemoteRegex.FindStringSubmatch(url)
	}

	if len(matches) != 3 || matches[2] == "" {
		return Remote{}, errors.Wrapf(ErrMalformedRemoteURL, "cannot find owner and repository in %q", url)
	}
	return Remote{Base: matches[1], Repo: matches[2]}, nil
}
