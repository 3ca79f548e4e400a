package draft

import (
	"regexp"

	"github.com/cockroachdb/errors"

	"thoreinstein.com/pullr/pkg/config"
)

// IssueExtractor pulls an issue key such as PROJ-42 out of a branch name.
type IssueExtractor struct {
	re *regexp.Regexp
}

// NewIssueExtractor compiles pattern. The first capture group is the key;
// a pattern without groups yields the whole match. Empty selects
// config.DefaultIssuePattern.
func NewIssueExtractor(pattern string) (*IssueExtractor, error) {
	if pattern == "" {
		pattern = config.DefaultIssuePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid issue pattern %q", pattern)
	}
	return &IssueExtractor{re: re}, nil
}

// FromBranch returns the issue key in branch, if any.
func (e *IssueExtractor) FromBranch(branch string) (string, bool) {
	m := e.re.FindStringSubmatch(branch)
	if m == nil {
		return "", false
	}
	key := m[0]
	if len(m) > 1 {
		key = m[1]
	}
	if key == "" {
		return "", false
	}
	return key, true
}
