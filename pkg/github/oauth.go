package github

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cli/oauth"
	"github.com/cli/oauth/api"

	pullrerrors "thoreinstein.com/pullr/pkg/errors"
)

const (
	// DefaultGitHubHost is the default GitHub API host.
	DefaultGitHubHost = "https://github.com"

	// DefaultScopes are the OAuth scopes required to open PRs and read org members.
	DefaultScopes = "repo read:org"
)

// OAuthConfig holds OAuth configuration for device flow authentication.
type OAuthConfig struct {
	ClientID string   // OAuth app client ID (required for device flow)
	Scopes   []string // OAuth scopes to request
	HostURL  string   // GitHub host URL (default: github.com)
}

// DeviceAuth performs OAuth device flow authentication.
// It displays a code for the operator to enter at GitHub's verification URL,
// then polls until authorization completes or ctx is cancelled.
func DeviceAuth(ctx context.Context, cfg OAuthConfig, stdout io.Writer) (*api.AccessToken, error) {
	if cfg.ClientID == "" {
		return nil, pullrerrors.NewGitHubError("DeviceAuth", "client_id is required for OAuth device flow")
	}

	hostURL := cfg.HostURL
	if hostURL == "" {
		hostURL = DefaultGitHubHost
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = strings.Fields(DefaultScopes)
	}

	if stdout == nil {
		stdout = io.Discard
	}

	host, err := oauth.NewGitHubHost(hostURL)
	if err != nil {
		return nil, pullrerrors.NewGitHubErrorWithCause("DeviceAuth", "invalid GitHub host URL", err)
	}

	// Set up the OAuth flow
	flow := &oauth.Flow{
		Host:     host,
		ClientID: cfg.ClientID,
		Scopes:   scopes,
		Stdout:   stdout,
		Stdin:    os.Stdin,
		DisplayCode: func(code, verificationURL string) error {
			fmt.Fprintf(stdout, "\n! First, copy your one-time code: %s\n", code)
			fmt.Fprintf(stdout, "- Press Enter to open %s in your browser...\n", verificationURL)
			return nil
		},
	}

	// DeviceFlow takes no context.
	type result struct {
		token *api.AccessToken
		err   error
	}
	done := make(chan result, 1)
	go func() {
		token, err := flow.DeviceFlow()
		done <- result{token, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, pullrerrors.NewUnexpectedError("DeviceAuth", ctx.Err())
	case res = <-done:
	}

	token, err := res.token, res.err
	if err != nil {
		return nil, pullrerrors.NewGitHubErrorWithCause("DeviceAuth", "device flow failed", err)
	}

	return token, nil
}
