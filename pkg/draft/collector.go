package draft

import (
	"context"
	"log/slog"

	"thoreinstein.com/pullr/pkg/config"
	pullrerrors "thoreinstein.com/pullr/pkg/errors"
	"thoreinstein.com/pullr/pkg/git"
)

// Asker is the part of the terminal prompter the collector needs.
type Asker interface {
	// Ask reads one trimmed line after printing label.
	Ask(ctx context.Context, label string) (string, error)
	// AskWithDefault shows def and returns it when the answer is blank.
	AskWithDefault(ctx context.Context, label, noun, def string) (string, error)
	// Warn prints a non-fatal notice.
	Warn(msg string)
}

// RepositoryReader reads the git metadata a draft is built from.
type RepositoryReader interface {
	CurrentBranch(ctx context.Context) (string, error)
	LastCommitSubject(ctx context.Context) (string, error)
	RemoteURL(ctx context.Context, remote string) (string, error)
}

// Compile-time check that git.Repository satisfies RepositoryReader.
var _ RepositoryReader = (*git.Repository)(nil)

// Collector derives a Draft from git and the operator's answers.
type Collector struct {
	repo   RepositoryReader
	asker  Asker
	issues *IssueExtractor
	cfg    config.PRConfig
	logger *slog.Logger
}

// NewCollector creates a Collector. A nil logger discards log output.
func NewCollector(repo RepositoryReader, asker Asker, cfg config.PRConfig, logger *slog.Logger) (*Collector, error) {
	issues, err := NewIssueExtractor(cfg.IssuePattern)
	if err != nil {
		return nil, pullrerrors.NewConfigErrorWithCause("pr.issue_pattern", "issue pattern does not compile", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{repo: repo, asker: asker, issues: issues, cfg: cfg, logger: logger}, nil
}

// Collect builds the draft. Prompts run in order: title, issue (only when
// the branch does not carry one), body.
func (c *Collector) Collect(ctx context.Context) (*Draft, error) {
	d := &Draft{BaseBranch: c.cfg.BaseBranch}

	if err := c.locateRepository(ctx, d); err != nil {
		return nil, err
	}

	branch, err := c.repo.CurrentBranch(ctx)
	if err != nil {
		return nil, pullrerrors.NewWorkflowErrorWithCause("draft", "cannot determine the current branch", err)
	}
	d.Branch = branch

	subject, err := c.repo.LastCommitSubject(ctx)
	if err != nil {
		return nil, pullrerrors.NewWorkflowErrorWithCause("draft", "cannot read the last commit", err)
	}

	c.logger.Debug("collected git metadata", "branch", branch, "subject", subject, "remote", d.Base+"/"+d.Repo)

	if d.Title, err = c.asker.AskWithDefault(ctx, "PR title", "title", subject); err != nil {
		return nil, pullrerrors.NewWorkflowErrorWithCause("prompt", "no title entered", err)
	}

	if d.LinkedIssue, err = c.linkedIssue(ctx, branch); err != nil {
		return nil, pullrerrors.NewWorkflowErrorWithCause("prompt", "no issue entered", err)
	}

	if d.Body, err = c.asker.AskWithDefault(ctx, "PR body", "body", c.cfg.DefaultBody); err != nil {
		return nil, pullrerrors.NewWorkflowErrorWithCause("prompt", "no body entered", err)
	}

	d.RenderedBody = RenderBody(d.Body, d.LinkedIssue)
	return d, nil
}

// locateRepository fills Base and Repo from the configured overrides or,
// for whichever is missing, from the remote URL.
func (c *Collector) locateRepository(ctx context.Context, d *Draft) error {
	field := "remote." + c.cfg.Remote + ".url"
	overridden := c.cfg.Owner != "" && c.cfg.Repo != ""

	url, err := c.repo.RemoteURL(ctx, c.cfg.Remote)
	if err != nil {
		if !overridden {
			return pullrerrors.NewConfigErrorWithCause(field, "cannot read the remote url", err)
		}
		c.logger.Debug("remote url unavailable, using configured repository", "error", err)
	}
	d.RemoteURL = url

	d.Base, d.Repo = c.cfg.Owner, c.cfg.Repo
	if overridden {
		return nil
	}

	remote, err := git.ParseRemote(url)
	if err != nil {
		return pullrerrors.NewConfigErrorWithCause(field,
			"Failed to get the user/org and repo name from remote url: "+url, err)
	}
	if d.Base == "" {
		d.Base = remote.Base
	}
	if d.Repo == "" {
		d.Repo = remote.Repo
	}
	return nil
}

// linkedIssue takes the issue key from the branch name, asking the operator
// when the branch does not carry one. An empty answer means no issue.
func (c *Collector) linkedIssue(ctx context.Context, branch string) (string, error) {
	if key, ok := c.issues.FromBranch(branch); ok {
		return key, nil
	}
	c.asker.Warn("Couldn't get the linked issue from the branch name. Please provide one or leave it empty")
	return c.asker.Ask(ctx, "Linked issue")
}
