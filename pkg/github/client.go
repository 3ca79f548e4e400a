package github

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2"

	"thoreinstein.com/pullr/pkg/config"
	pullrerrors "thoreinstein.com/pullr/pkg/errors"
)

// Client defines the GitHub operations used by the pull request workflow.
type Client interface {
	// CreatePR creates a new pull request.
	CreatePR(ctx context.Context, opts CreatePROptions) (*PRInfo, error)

	// AddAssignees assigns users to an issue or pull request.
	AddAssignees(ctx context.Context, owner, repo string, number int, users []string) error

	// ListOrgMembers returns the logins on the first page of an organization's members.
	ListOrgMembers(ctx context.Context, org string, perPage int) ([]string, error)

	// RequestReviewers requests reviews from users on a pull request.
	RequestReviewers(ctx context.Context, owner, repo string, number int, users []string) error
}

// Compile-time check that APIClient satisfies the Client interface.
var _ Client = (*APIClient)(nil)

// newTokenCache is swapped in tests to keep them off the real keychain.
var newTokenCache = NewTokenCache

// deviceAuth is swapped in tests to avoid the interactive device flow.
var deviceAuth = DeviceAuth

// ResolveToken returns the API token from the environment or configuration.
//
// Resolution order:
//  1. GITHUB_TOKEN environment variable
//  2. PULLR_GITHUB_TOKEN environment variable
//  3. Token from config file (github.token)
func ResolveToken(cfg *config.GitHubConfig) string {
	if token := os.Getenv(config.EnvGitHubToken); token != "" {
		return token
	}
	if token := os.Getenv("PULLR_GITHUB_TOKEN"); token != "" {
		return token
	}
	return cfg.Token
}

// CheckCredentials reports a ConfigError when no token is available and the
// OAuth device flow is not configured to obtain one. It makes no network call.
func CheckCredentials(cfg *config.GitHubConfig) error {
	if ResolveToken(cfg) != "" || AuthMethod(cfg.AuthMethod) == AuthOAuth {
		return nil
	}
	return missingTokenError()
}

func missingTokenError() error {
	return pullrerrors.NewConfigError(config.EnvGitHubToken,
		"Couldn't get "+config.EnvGitHubToken+" environment variable")
}

// NewClient creates a GitHub client based on the provided configuration.
// With auth_method "oauth" and no explicit token, a cached OAuth token is
// used, and the device flow runs when none is cached. Device flow prompts
// are written to out.
func NewClient(ctx context.Context, cfg *config.GitHubConfig, out io.Writer, verbose bool, opts ...APIClientOption) (Client, error) {
	if cfg == nil {
		return nil, pullrerrors.NewConfigError("github", "github config is required")
	}

	if cfg.BaseURL != "" {
		opts = append([]APIClientOption{WithBaseURL(cfg.BaseURL)}, opts...)
	}

	token := ResolveToken(cfg)

	switch AuthMethod(cfg.AuthMethod) {
	case AuthToken, "":
		if token == "" {
			return nil, missingTokenError()
		}
		return NewAPIClient(token, verbose, opts...)

	case AuthOAuth:
		if token != "" {
			return NewAPIClient(token, verbose, opts...)
		}
		return newOAuthClient(ctx, cfg, out, verbose, opts...)

	default:
		return nil, pullrerrors.NewConfigError("github.auth_method", "unknown auth method: "+cfg.AuthMethod)
	}
}

// newOAuthClient creates a client using OAuth device flow with token caching.
func newOAuthClient(ctx context.Context, cfg *config.GitHubConfig, out io.Writer, verbose bool, opts ...APIClientOption) (Client, error) {
	host := hostFromBaseURL(cfg.BaseURL)
	cache := newTokenCache(host)

	cachedToken, err := cache.Get()
	if err != nil {
		// Not fatal, the device flow can still produce a token
		slog.Debug("failed to read cached token", "error", err)
	}

	if cachedToken != nil {
		if cachedToken.Valid() {
			slog.Debug("using cached OAuth token")
			return NewAPIClient(cachedToken.AccessToken, verbose, opts...)
		}
		if err := cache.Clear(); err != nil {
			slog.Debug("failed to clear expired token", "error", err)
		}
	}

	if cfg.ClientID == "" {
		return nil, pullrerrors.NewConfigError("github.client_id",
			"oauth auth requires github.client_id in config, or set GITHUB_TOKEN")
	}

	oauthCfg := OAuthConfig{
		ClientID: cfg.ClientID,
		Scopes:   []string{"repo", "read:org"},
		HostURL:  host,
	}

	apiToken, err := deviceAuth(ctx, oauthCfg, out)
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{
		AccessToken: apiToken.Token,
		TokenType:   apiToken.Type,
	}

	if cacheErr := cache.Set(token); cacheErr != nil {
		slog.Debug("failed to cache token", "error", cacheErr)
	} else {
		slog.Debug("cached OAuth token for future use")
	}

	return NewAPIClient(token.AccessToken, verbose, opts...)
}

// hostFromBaseURL turns a GitHub Enterprise API URL into the web host the
// device flow talks to. Empty means github.com.
func hostFromBaseURL(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	host := strings.TrimSuffix(baseURL, "/")
	host = strings.TrimSuffix(host, "/api/v3")
	return host
}
