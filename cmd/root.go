package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thoreinstein.com/pullr/pkg/bootstrap"
	"thoreinstein.com/pullr/pkg/config"
	pullrerrors "thoreinstein.com/pullr/pkg/errors"
)

var cfgFile string
var verbose bool
var appConfig *config.Config

// rootCmd represents the base command; pullr has no subcommands.
var rootCmd = &cobra.Command{
	Use:   "pullr",
	Short: "Pullr - open a GitHub pull request for the current branch",
	Long: `Pullr opens a GitHub pull request for the current branch.

It takes the title from the last commit, the linked issue from the branch
name and the repository from the git remote, asks you to confirm, creates
the pull request, assigns it to you and lets you pick reviewers from the
organization's members.

Credentials come from GITHUB_USER and GITHUB_TOKEN.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if cfg == nil {
			loaded, err := loadConfig()
			if err != nil {
				return pullrerrors.NewConfigErrorWithCause("", "failed to load configuration", err)
			}
			cfg = loaded
		}

		env := newRunEnv(cmd, cfg)
		return runOpen(cmd.Context(), env)
	},
}

// Execute runs the root command and exits the process with ExitCode.
// This is called by main.main().
func Execute() {
	// Pre-parse global flags so configuration errors surface before cobra runs.
	cfgFile, verbose = bootstrap.PreParseGlobalFlags(os.Args)

	if err := initConfig(); err != nil {
		reportError(os.Stdout, os.Stderr, pullrerrors.NewConfigErrorWithCause("", "failed to load configuration", err))
		os.Exit(1)
	}

	err := rootCmd.Execute()
	reportError(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), err)
	os.Exit(ExitCode(err))
}

// ExitCode maps a run's outcome to the process exit status: 0 when the
// pull request was created or the operator declined, 1 otherwise.
func ExitCode(err error) int {
	if err == nil || pullrerrors.IsAborted(err) {
		return 0
	}
	return 1
}

// reportError prints err for the operator. Declining at the confirmation
// prompt is not an error and only says goodbye.
func reportError(out, errOut io.Writer, err error) {
	if err == nil {
		return
	}
	if pullrerrors.IsAborted(err) {
		fmt.Fprintln(out, "\nClosing...")
		return
	}
	fmt.Fprintln(errOut)
	color.New(color.FgRed).Fprintln(errOut, pullrerrors.FormatUserError(err))
}

func init() {
	cobra.OnInitialize(func() {
		_ = initConfig()
	})

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "C", "", "config file (default is $HOME/.config/pullr/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	appConfig, verbose, err = bootstrap.InitConfig(cfgFile, verbose)
	return err
}

// loadConfig returns the latest configuration derived from viper.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// resetConfig clears the cached configuration.
// This is primarily used in tests to ensure each test starts with a fresh config.
func resetConfig() {
	appConfig = nil
	bootstrap.Reset()
	viper.Reset()
}
