package workflow

import (
	"context"
	"fmt"

	pullrerrors "thoreinstein.com/pullr/pkg/errors"
	"thoreinstein.com/pullr/pkg/github"
)

// runDraft collects the pull request metadata. No remote call is made.
func (e *Engine) runDraft(ctx context.Context, run *Run) error {
	d, err := e.collector.Collect(ctx)
	if err != nil {
		return stepError(StepDraft, "failed to collect pull request details", err)
	}
	run.Draft = d
	return nil
}

// runConfirm shows the draft and blocks on the operator's answer.
func (e *Engine) runConfirm(ctx context.Context, run *Run) error {
	e.prompter.Heading("\n** Review PR **")
	e.prompter.Info(run.Draft.Summary())

	if err := e.prompter.Confirm(ctx, "\nProceed? (y/n): "); err != nil {
		return stepError(StepConfirm, "no answer to the confirmation prompt", err)
	}
	return nil
}

// runCreate opens the pull request. Any failure here ends the run.
func (e *Engine) runCreate(ctx context.Context, run *Run) error {
	client, err := e.connect(ctx)
	if err != nil {
		return stepError(StepCreate, "failed to connect to GitHub", err)
	}
	run.client = client

	d := run.Draft
	e.prompter.Info("\nCreating PR...")

	pr, err := client.CreatePR(ctx, github.CreatePROptions{
		Owner:      d.Base,
		Repo:       d.Repo,
		Title:      d.Title,
		Body:       d.RenderedBody,
		HeadBranch: d.Branch,
		BaseBranch: d.BaseBranch,
	})
	if err != nil {
		return stepError(StepCreate, "failed to create pull request", err)
	}

	link, err := github.PullRequestLink(pr.URL)
	if err != nil {
		e.logger.Warn("could not normalize pull request url", "url", pr.URL, "error", err)
		link = pr.URL
	}

	if err := d.MarkCreated(pr.Number, link); err != nil {
		return pullrerrors.NewUnexpectedError("CreatePR", err)
	}

	e.prompter.Success("\nPR created successfully: " + link)
	e.logger.Debug("pull request created", "number", pr.Number, "link", link)
	return nil
}

// runAssign assigns the operator. Failure is reported and the run goes on.
func (e *Engine) runAssign(ctx context.Context, run *Run) error {
	d := run.Draft
	e.prompter.Info("\nAssigning to you...")

	if err := run.client.AddAssignees(ctx, d.Base, d.Repo, d.Number, []string{e.user}); err != nil {
		e.logger.Warn("failed to assign pull request", "number", d.Number, "user", e.user, "error", err)
		e.prompter.Warn("\nError when assigning")
		run.warn(fmt.Sprintf("could not assign %s: %v", e.user, err))
		return nil
	}

	run.Assigned = true
	e.prompter.Success("\nAssigned successfully")
	return nil
}

// runMembers lists the organization's members. The call is read-only, so
// retryable failures are retried before giving up on reviewers.
func (e *Engine) runMembers(ctx context.Context, run *Run) error {
	d := run.Draft
	retryCfg := pullrerrors.NewRetryConfig(e.cfg.GitHub.ListRetries)
	if e.retryDelay > 0 {
		retryCfg.BaseDelay = e.retryDelay
	}

	logins, err := pullrerrors.RetryWithResult(ctx, retryCfg, func() ([]string, error) {
		return run.client.ListOrgMembers(ctx, d.Base, e.cfg.PR.MemberPageSize)
	})
	if err != nil {
		e.logger.Warn("failed to list organization members", "org", d.Base, "error", err)
		e.prompter.Warn("\nError fetching collaborators, ignoring...")
		run.warn(fmt.Sprintf("could not list members of %s: %v", d.Base, err))
		run.membersUnavailable = true
		return nil
	}

	run.Candidates = NewCandidates(logins)
	e.logger.Debug("listed organization members", "org", d.Base, "count", len(logins))
	return nil
}

// runSelect lets the operator pick reviewers.
func (e *Engine) runSelect(ctx context.Context, run *Run) error {
	if run.membersUnavailable || run.Candidates.Len() == 0 {
		return nil
	}

	if err := e.prompter.SelectReviewers(ctx, run.Candidates); err != nil {
		e.logger.Warn("reviewer selection ended early", "error", err)
		run.warn(fmt.Sprintf("reviewer selection ended early: %v", err))
	}
	run.Reviewers = run.Candidates.Selected()
	return nil
}

// runReview requests reviews from the selection. Failure is reported and
// the run still succeeds.
func (e *Engine) runReview(ctx context.Context, run *Run) error {
	if run.membersUnavailable {
		return nil
	}

	if len(run.Reviewers) == 0 {
		e.prompter.Info("\nNo reviewers to request")
		return nil
	}

	d := run.Draft
	if err := run.client.RequestReviewers(ctx, d.Base, d.Repo, d.Number, run.Reviewers); err != nil {
		e.logger.Warn("failed to request reviewers", "number", d.Number, "reviewers", run.Reviewers, "error", err)
		e.prompter.Warn("\nFailed to request reviewers")
		run.warn(fmt.Sprintf("could not request reviews: %v", err))
		return nil
	}

	run.ReviewsRequested = true
	e.prompter.Success("\nReviewers requested successfully")
	return nil
}
