package git

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// Repository reads metadata from a local git checkout.
type Repository struct {
	Dir    string
	runner CommandRunner
}

// NewRepository returns a Repository rooted at dir. An empty dir means the
// current working directory.
func NewRepository(dir string, verbose bool) *Repository {
	return &Repository{Dir: dir, runner: &RealCommandRunner{Verbose: verbose}}
}

// NewRepositoryWithRunner creates a Repository with a custom CommandRunner (for testing)
func NewRepositoryWithRunner(dir string, runner CommandRunner) *Repository {
	return &Repository{Dir: dir, runner: runner}
}

// CurrentBranch returns the checked-out branch name.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "branch", "--show-current")
	if err != nil {
		return "", errors.Wrap(err, "failed to read current branch")
	}
	if out == "" {
		return "", errors.New("HEAD is detached; check out a branch first")
	}
	return out, nil
}

// LastCommitSubject returns the subject line of the most recent commit.
func (r *Repository) LastCommitSubject(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "log", "-1", "--pretty=format:%s")
	if err != nil {
		return "", errors.Wrap(err, "failed to read last commit")
	}
	return out, nil
}

// RemoteURL returns the fetch URL configured for the named remote.
func (r *Repository) RemoteURL(ctx context.Context, remote string) (string, error) {
	out, err := r.git(ctx, "config", "--get", "remote."+remote+".url")
	if err != nil {
		return "", errors.Wrapf(err, "failed to read url of remote %q", remote)
	}
	if out == "" {
		return "", errors.Newf("remote %q has no url", remote)
	}
	return out, nil
}

func (r *Repository) git(ctx context.Context, args ...string) (string, error) {
	out, err := r.runner.Output(ctx, r.Dir, "git", args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
