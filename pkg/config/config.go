package config

import (
	"os"
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Environment variables that carry the operator's credentials. They take
// precedence over PULLR_-prefixed variables and the config file.
const (
	EnvGitHubUser  = "GITHUB_USER"
	EnvGitHubToken = "GITHUB_TOKEN"
)

// DefaultIssuePattern matches branches like feature/ABC-123 and captures the issue key.
const DefaultIssuePattern = `^\w+/(\w+-\d+)`

// MaxMemberPageSize is the largest page the GitHub members endpoint serves.
const MaxMemberPageSize = 100

// Config represents the application configuration.
// Branch, commit and remote information is derived from git, not configuration.
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	PR     PRConfig     `mapstructure:"pr"`
}

// GitHubConfig holds GitHub integration configuration
type GitHubConfig struct {
	User        string `mapstructure:"user"`         // Operator login (GITHUB_USER env var takes precedence)
	Token       string `mapstructure:"token"`        // API token (GITHUB_TOKEN env var takes precedence)
	AuthMethod  string `mapstructure:"auth_method"`  // "token" or "oauth"
	ClientID    string `mapstructure:"client_id"`    // OAuth app client ID (for device flow)
	BaseURL     string `mapstructure:"base_url"`     // GitHub Enterprise URL, empty for github.com
	ListRetries int    `mapstructure:"list_retries"` // Retries for the read-only member listing
}

// PRConfig holds the pull request workflow settings. Each field replaces a
// value that would otherwise be hard-coded into the workflow.
type PRConfig struct {
	BaseBranch     string `mapstructure:"base_branch"`      // Target branch for new PRs
	IssuePattern   string `mapstructure:"issue_pattern"`    // Regex extracting the issue key from the branch
	DefaultBody    string `mapstructure:"default_body"`     // Body offered when the operator enters nothing
	Remote         string `mapstructure:"remote"`           // Git remote used to locate the repository
	Owner          string `mapstructure:"owner"`            // Optional owner/org override
	Repo           string `mapstructure:"repo"`             // Optional repository override
	MemberPageSize int    `mapstructure:"member_page_size"` // Candidates offered for review
}

// SecurityWarning represents a configuration security issue
type SecurityWarning struct {
	Field   string
	Message string
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	config := &Config{}

	setDefaults()

	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// Default returns the configuration pullr runs with when nothing is configured.
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			AuthMethod:  "token",
			ListRetries: 2,
		},
		PR: PRConfig{
			BaseBranch:     "next",
			IssuePattern:   DefaultIssuePattern,
			DefaultBody:    "Title",
			Remote:         "origin",
			MemberPageSize: MaxMemberPageSize,
		},
	}
}

// OperatorLogin returns the operator's GitHub login.
// GITHUB_USER wins over the configured github.user.
func (c *GitHubConfig) OperatorLogin() string {
	if user := os.Getenv(EnvGitHubUser); user != "" {
		return user
	}
	return c.User
}

// CheckSecurityWarnings returns warnings for insecure configuration practices.
func CheckSecurityWarnings(config *Config) []SecurityWarning {
	var warnings []SecurityWarning

	if config.GitHub.Token != "" && os.Getenv(EnvGitHubToken) == "" && os.Getenv("PULLR_GITHUB_TOKEN") == "" {
		warnings = append(warnings, SecurityWarning{
			Field:   "github.token",
			Message: "GitHub token is set in config file. For security, use the GITHUB_TOKEN environment variable instead.",
		})
	}

	return warnings
}

// ValidAuthMethods is the list of supported GitHub authentication methods.
var ValidAuthMethods = []string{"token", "oauth"}

// ValidateAuthMethod validates that an auth method is supported.
func ValidateAuthMethod(method string) error {
	if method == "" {
		return nil // Empty is allowed, will use token
	}
	for _, valid := range ValidAuthMethods {
		if method == valid {
			return nil
		}
	}
	return errors.Newf("invalid auth method %q: must be one of: token, oauth", method)
}

// Validate validates the configuration and returns any validation errors.
func (c *Config) Validate() error {
	if err := ValidateAuthMethod(c.GitHub.AuthMethod); err != nil {
		return errors.Wrap(err, "github.auth_method")
	}
	if c.GitHub.ListRetries < 0 {
		return errors.Newf("github.list_retries: must not be negative, got %d", c.GitHub.ListRetries)
	}
	if c.PR.BaseBranch == "" {
		return errors.New("pr.base_branch: must not be empty")
	}
	if c.PR.Remote == "" {
		return errors.New("pr.remote: must not be empty")
	}
	if _, err := regexp.Compile(c.PR.IssuePattern); err != nil {
		return errors.Wrap(err, "pr.issue_pattern")
	}
	if c.PR.MemberPageSize < 1 || c.PR.MemberPageSize > MaxMemberPageSize {
		return errors.Newf("pr.member_page_size: must be between 1 and %d, got %d", MaxMemberPageSize, c.PR.MemberPageSize)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	d := Default()

	// GitHub defaults
	viper.SetDefault("github.user", "")
	viper.SetDefault("github.token", "")
	viper.SetDefault("github.auth_method", d.GitHub.AuthMethod)
	viper.SetDefault("github.client_id", "") // OAuth app client ID for device flow
	viper.SetDefault("github.base_url", "")
	viper.SetDefault("github.list_retries", d.GitHub.ListRetries)

	// PR defaults
	viper.SetDefault("pr.base_branch", d.PR.BaseBranch)
	viper.SetDefault("pr.issue_pattern", d.PR.IssuePattern)
	viper.SetDefault("pr.default_body", d.PR.DefaultBody)
	viper.SetDefault("pr.remote", d.PR.Remote)
	viper.SetDefault("pr.owner", "")
	viper.SetDefault("pr.repo", "")
	viper.SetDefault("pr.member_page_size", d.PR.MemberPageSize)
}
