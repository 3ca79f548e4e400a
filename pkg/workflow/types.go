// Package workflow opens a pull request from a confirmed draft.
//
// The workflow runs these steps in order:
//  1. Draft - collect branch, title, body and issue from git and the operator
//  2. Confirm - show the draft and wait for an explicit y or n
//  3. Create - open the pull request (fatal on failure)
//  4. Assign - assign the operator (best effort)
//  5. Members - fetch the organization's members (best effort, retried)
//  6. Select - let the operator toggle reviewers
//  7. Review - request reviews from the selection (best effort)
//
// No remote call happens before Confirm. Once Create succeeds the run is a
// success whatever the later steps report.
package workflow

import (
	"context"

	"thoreinstein.com/pullr/pkg/draft"
	"thoreinstein.com/pullr/pkg/github"
)

// Step represents a workflow step.
type Step string

const (
	// StepDraft collects the pull request metadata.
	StepDraft Step = "draft"
	// StepConfirm asks the operator to proceed.
	StepConfirm Step = "confirm"
	// StepCreate opens the pull request.
	StepCreate Step = "create"
	// StepAssign assigns the operator.
	StepAssign Step = "assign"
	// StepMembers lists review candidates.
	StepMembers Step = "members"
	// StepSelect runs the reviewer selection loop.
	StepSelect Step = "select"
	// StepReview requests reviews.
	StepReview Step = "review"
)

// AllSteps returns all workflow steps in execution order.
func AllSteps() []Step {
	return []Step{StepDraft, StepConfirm, StepCreate, StepAssign, StepMembers, StepSelect, StepReview}
}

// String returns the string representation of the step.
func (s Step) String() string {
	return string(s)
}

// Run is the state of one invocation.
type Run struct {
	Draft          *draft.Draft
	CompletedSteps []Step
	CurrentStep    Step

	Assigned           bool
	Candidates         *Candidates // nil when the member list could not be fetched
	Reviewers          []string
	ReviewsRequested   bool
	Warnings           []string
	client             github.Client
	membersUnavailable bool
}

// warn records a non-fatal problem.
func (r *Run) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Prompter is the operator's terminal.
type Prompter interface {
	draft.Asker

	// Heading prints a section title.
	Heading(title string)
	// Info prints a plain line.
	Info(msg string)
	// Success prints a line reporting something that worked.
	Success(msg string)
	// Confirm blocks until the operator answers y (nil) or n (errors.ErrAborted).
	Confirm(ctx context.Context, label string) error
	// SelectReviewers runs the toggle loop over c until the operator submits
	// an empty line or input ends.
	SelectReviewers(ctx context.Context, c *Candidates) error
}

// DraftCollector produces the draft a run works on.
type DraftCollector interface {
	Collect(ctx context.Context) (*draft.Draft, error)
}

// Connector builds the GitHub client. It is called only after the operator
// confirms, so authentication that needs the network waits for the gate.
type Connector func(ctx context.Context) (github.Client, error)
