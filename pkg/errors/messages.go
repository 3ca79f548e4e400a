package errors

import (
	"fmt"
	"strings"
)

// FormatUserError returns a user-friendly error message with actionable guidance.
// It examines the error chain and provides context-appropriate help text.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var configErr *ConfigError
	if As(err, &configErr) {
		return formatConfigError(configErr)
	}

	var ghErr *GitHubError
	if As(err, &ghErr) {
		return formatGitHubError(ghErr)
	}

	// Unexpected failures keep their full detail, stack included.
	var unexpected *UnexpectedError
	if As(err, &unexpected) {
		if unexpected.Cause == nil {
			return unexpected.Error()
		}
		return fmt.Sprintf("%s\n\nDetail:\n%+v", unexpected.Error(), unexpected.Cause)
	}

	var wfErr *WorkflowError
	if As(err, &wfErr) {
		return formatWorkflowError(wfErr)
	}

	return err.Error()
}

// formatConfigError formats a ConfigError with actionable guidance.
func formatConfigError(err *ConfigError) string {
	var b strings.Builder

	if err.Field != "" {
		fmt.Fprintf(&b, "Configuration error in '%s': %s\n", err.Field, err.Message)
	} else {
		fmt.Fprintf(&b, "Configuration error: %s\n", err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	switch err.Field {
	case "GITHUB_USER":
		b.WriteString("  • Export GITHUB_USER with your GitHub login\n")
		b.WriteString("  • Or set github.user in ~/.config/pullr/config.toml\n")
	case "GITHUB_TOKEN":
		b.WriteString("  • Export GITHUB_TOKEN with a personal access token\n")
		b.WriteString("  • Please ensure the variable is available and it is a valid token\n")
		b.WriteString("  • The token needs the 'repo' and 'read:org' scopes\n")
	default:
		if strings.HasPrefix(err.Field, "remote.") {
			b.WriteString("  • Check the remote with 'git remote -v'\n")
			b.WriteString("  • Expected forms: git@host:org/repo.git or https://host/org/repo.git\n")
			b.WriteString("  • Or set pr.owner and pr.repo in .pullr.toml\n")
		} else {
			b.WriteString("  • Check your config file: ~/.config/pullr/config.toml\n")
			b.WriteString("  • Check the repository config: .pullr.toml\n")
		}
	}

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatGitHubError formats a GitHubError with actionable guidance based on status code.
func formatGitHubError(err *GitHubError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "GitHub error during %s: %s\n", err.Operation, err.Message)

	switch err.StatusCode {
	case 401:
		b.WriteString("\nAuthentication failed. To fix this:\n")
		b.WriteString("  • Check that GITHUB_TOKEN holds a valid token\n")
		b.WriteString("  • Ensure your token has the required scopes (repo, read:org)\n")

	case 403:
		b.WriteString("\nPermission denied. To fix this:\n")
		b.WriteString("  • Ensure you have write access to this repository\n")
		b.WriteString("  • Check that your token has the 'repo' scope\n")
		b.WriteString("  • If using SSO, ensure the token is authorized for your organization\n")

	case 404:
		b.WriteString("\nResource not found. To fix this:\n")
		b.WriteString("  • Verify the repository name and owner are correct\n")
		b.WriteString("  • Ensure the branch has been pushed to the remote\n")
		b.WriteString("  • Check that you have access to the repository\n")

	case 422:
		b.WriteString("\nValidation failed. To fix this:\n")
		b.WriteString("  • A pull request for this branch may already exist\n")
		b.WriteString("  • Ensure the target branch exists (see pr.base_branch)\n")
		b.WriteString("  • Ensure the branch has commits the target branch lacks\n")

	case 429:
		b.WriteString("\nRate limit exceeded. To fix this:\n")
		b.WriteString("  • Wait a few minutes before retrying\n")

	case 500, 502, 503, 504:
		b.WriteString("\nGitHub server error. To fix this:\n")
		b.WriteString("  • Wait a few moments and try again\n")
		b.WriteString("  • Check GitHub Status: https://www.githubstatus.com\n")
	}

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatWorkflowError formats a WorkflowError with actionable guidance.
func formatWorkflowError(err *WorkflowError) string {
	var b strings.Builder

	if err.Step != "" {
		fmt.Fprintf(&b, "Workflow error in '%s' step: %s\n", err.Step, err.Message)
	} else {
		fmt.Fprintf(&b, "Workflow error: %s\n", err.Message)
	}

	switch err.Step {
	case "draft":
		b.WriteString("\nCould not read local repository state. To fix this:\n")
		b.WriteString("  • Run pullr from inside a git repository\n")
		b.WriteString("  • Ensure the current branch has at least one commit\n")

	case "prompt", "confirm", "select":
		b.WriteString("\nInput ended before the prompt was answered.\n")
		b.WriteString("  • pullr is interactive; run it from a terminal\n")

	default:
		b.WriteString("\nTo troubleshoot:\n")
		b.WriteString("  • Run with --verbose for more details\n")
	}

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}
