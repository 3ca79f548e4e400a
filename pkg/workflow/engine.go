package workflow

import (
	"context"
	"log/slog"
	"time"

	"thoreinstein.com/pullr/pkg/config"
	pullrerrors "thoreinstein.com/pullr/pkg/errors"
)

// Engine orchestrates the pull request workflow.
type Engine struct {
	connect   Connector
	collector DraftCollector
	prompter  Prompter
	cfg       *config.Config
	user      string
	logger    *slog.Logger

	retryDelay time.Duration // overrides the member-list backoff base when set
}

// NewEngine creates a workflow engine.
//
// Parameters:
//   - connect: builds the GitHub client after confirmation (required)
//   - collector: produces the draft (required)
//   - prompter: the operator's terminal (required)
//   - cfg: Configuration (required)
//   - user: the operator's GitHub login, used for self-assignment
//   - logger: diagnostic logger; nil discards
func NewEngine(connect Connector, collector DraftCollector, prompter Prompter, cfg *config.Config, user string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		connect:   connect,
		collector: collector,
		prompter:  prompter,
		cfg:       cfg,
		user:      user,
		logger:    logger,
	}
}

// Run executes the workflow. It returns the run state even on failure so
// callers can tell how far it got. A nil error means the pull request
// exists; warnings on the run describe what the best-effort steps could
// not do. errors.ErrAborted means the operator declined at the gate.
func (e *Engine) Run(ctx context.Context) (*Run, error) {
	run := &Run{CompletedSteps: make([]Step, 0, len(AllSteps()))}

	steps := []struct {
		step Step
		fn   func(context.Context, *Run) error
	}{
		{StepDraft, e.runDraft},
		{StepConfirm, e.runConfirm},
		{StepCreate, e.runCreate},
		{StepAssign, e.runAssign},
		{StepMembers, e.runMembers},
		{StepSelect, e.runSelect},
		{StepReview, e.runReview},
	}

	for _, s := range steps {
		run.CurrentStep = s.step
		e.logger.Debug("executing step", "step", s.step)

		if err := s.fn(ctx, run); err != nil {
			e.logger.Debug("step failed", "step", s.step, "error", err)
			return run, err
		}

		run.CompletedSteps = append(run.CompletedSteps, s.step)
	}

	e.prompter.Info("\nPR: " + run.Draft.Link)
	e.logger.Debug("workflow completed", "number", run.Draft.Number, "warnings", len(run.Warnings))
	return run, nil
}

// stepError wraps failures that do not already carry a pullr error type.
func stepError(step Step, message string, err error) error {
	if pullrerrors.IsAborted(err) || pullrerrors.IsConfigError(err) || pullrerrors.IsGitHubError(err) ||
		pullrerrors.IsUnexpectedError(err) || pullrerrors.IsWorkflowError(err) {
		return err
	}
	return pullrerrors.NewWorkflowErrorWithCause(string(step), message, err)
}
