package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"thoreinstein.com/pullr/pkg/bootstrap"
	"thoreinstein.com/pullr/pkg/config"
	"thoreinstein.com/pullr/pkg/draft"
	pullrerrors "thoreinstein.com/pullr/pkg/errors"
	"thoreinstein.com/pullr/pkg/git"
	"thoreinstein.com/pullr/pkg/github"
	"thoreinstein.com/pullr/pkg/ui"
	"thoreinstein.com/pullr/pkg/workflow"
)

// runEnv carries everything one run talks to.
type runEnv struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config
	logger *slog.Logger

	// interactive reports whether in is a terminal.
	interactive bool
	// openRepo locates the git repository the run works in.
	openRepo func() (draft.RepositoryReader, error)
	// connect builds the GitHub client once the operator has confirmed.
	connect workflow.Connector
}

// newRunEnv wires a run to the process's terminal, git and GitHub.
func newRunEnv(cmd *cobra.Command, cfg *config.Config) runEnv {
	logger := bootstrap.NewLogger(cmd.ErrOrStderr(), verbose)
	slog.SetDefault(logger)

	return runEnv{
		in:          cmd.InOrStdin(),
		out:         cmd.OutOrStdout(),
		errOut:      cmd.ErrOrStderr(),
		cfg:         cfg,
		logger:      logger,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		openRepo: func() (draft.RepositoryReader, error) {
			root, err := bootstrap.FindGitRoot()
			if err != nil {
				return nil, err
			}
			if root == "" || !git.IsGitRepo(root) {
				return nil, pullrerrors.NewWorkflowError("draft", "not inside a git repository")
			}
			return git.NewRepository(root, verbose), nil
		},
		connect: func(ctx context.Context) (github.Client, error) {
			return github.NewClient(ctx, &cfg.GitHub, cmd.OutOrStdout(), verbose, github.WithAPILogger(logger))
		},
	}
}

// runOpen checks credentials, then drives the workflow. Credentials are
// checked before anything is read from git or the operator.
func runOpen(ctx context.Context, env runEnv) error {
	user := env.cfg.GitHub.OperatorLogin()
	if user == "" {
		return pullrerrors.NewConfigError(config.EnvGitHubUser,
			"Couldn't get "+config.EnvGitHubUser+" environment variable")
	}

	if err := github.CheckCredentials(&env.cfg.GitHub); err != nil {
		return err
	}

	if !env.interactive {
		color.New(color.FgYellow).Fprintln(env.errOut, "Warning: stdin is not a terminal; pullr reads its answers line by line")
	}

	repo, err := env.openRepo()
	if err != nil {
		if pullrerrors.IsWorkflowError(err) {
			return err
		}
		return pullrerrors.NewWorkflowErrorWithCause("draft", "cannot locate the git repository", err)
	}

	prompter := ui.NewPrompter(env.in, env.out)

	collector, err := draft.NewCollector(repo, prompter, env.cfg.PR, env.logger)
	if err != nil {
		return err
	}

	engine := workflow.NewEngine(env.connect, collector, prompter, env.cfg, user, env.logger)

	run, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	for _, w := range run.Warnings {
		env.logger.Debug("completed with warning", "warning", w)
	}
	env.logger.Debug("run finished", "steps", run.CompletedSteps)
	return nil
}
