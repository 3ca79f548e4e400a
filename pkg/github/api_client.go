package github

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	pullrerrors "thoreinstein.com/pullr/pkg/errors"
)

// APIClient implements Client using GitHub REST API.
type APIClient struct {
	client  *gh.Client
	baseURL string
	verbose bool
	logger  *slog.Logger
}

// APIClientOption is a functional option for configuring APIClient.
type APIClientOption func(*APIClient)

// WithAPILogger sets a custom logger for the API client.
func WithAPILogger(logger *slog.Logger) APIClientOption {
	return func(c *APIClient) {
		c.logger = logger
	}
}

// WithBaseURL points the client at a GitHub Enterprise server.
func WithBaseURL(baseURL string) APIClientOption {
	return func(c *APIClient) {
		c.baseURL = baseURL
	}
}

// NewAPIClient creates a GitHub API client with the given token.
func NewAPIClient(token string, verbose bool, opts ...APIClientOption) (*APIClient, error) {
	if token == "" {
		return nil, pullrerrors.NewConfigError("GITHUB_TOKEN", "token is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	client := &APIClient{
		client:  gh.NewClient(tc),
		verbose: verbose,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL != "" {
		enterprise, err := client.client.WithEnterpriseURLs(client.baseURL, client.baseURL)
		if err != nil {
			return nil, pullrerrors.NewConfigErrorWithCause("github.base_url", "invalid GitHub Enterprise URL", err)
		}
		client.client = enterprise
	}

	return client, nil
}

// CreatePR creates a new pull request.
func (c *APIClient) CreatePR(ctx context.Context, opts CreatePROptions) (*PRInfo, error) {
	if opts.Title == "" {
		return nil, pullrerrors.NewGitHubError("CreatePR", "title is required")
	}
	if opts.HeadBranch == "" || opts.BaseBranch == "" {
		return nil, pullrerrors.NewGitHubError("CreatePR", "head and base branches are required")
	}

	c.logDebug("creating PR", "owner", opts.Owner, "repo", opts.Repo, "head", opts.HeadBranch, "base", opts.BaseBranch)

	newPR := &gh.NewPullRequest{
		Title: gh.Ptr(opts.Title),
		Head:  gh.Ptr(opts.HeadBranch),
		Base:  gh.Ptr(opts.BaseBranch),
		Body:  gh.Ptr(opts.Body),
	}

	pr, resp, err := c.client.PullRequests.Create(ctx, opts.Owner, opts.Repo, newPR)
	if err != nil {
		return nil, toGitHubError("CreatePR", resp, err)
	}

	return prInfoFromGitHub(pr), nil
}

// AddAssignees assigns users to an issue or pull request.
func (c *APIClient) AddAssignees(ctx context.Context, owner, repo string, number int, users []string) error {
	c.logDebug("adding assignees", "number", number, "users", users)

	_, resp, err := c.client.Issues.AddAssignees(ctx, owner, repo, number, users)
	if err != nil {
		return toGitHubError("AddAssignees", resp, err)
	}
	return nil
}

// ListOrgMembers returns the logins on the first page of an organization's
// members. Only one page is requested.
func (c *APIClient) ListOrgMembers(ctx context.Context, org string, perPage int) ([]string, error) {
	c.logDebug("listing organization members", "org", org, "per_page", perPage)

	opts := &gh.ListMembersOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	members, resp, err := c.client.Organizations.ListMembers(ctx, org, opts)
	if err != nil {
		return nil, toGitHubError("ListOrgMembers", resp, err)
	}

	logins := make([]string, 0, len(members))
	for _, m := range members {
		if login := m.GetLogin(); login != "" {
			logins = append(logins, login)
		}
	}
	return logins, nil
}

// RequestReviewers requests reviews from users on a pull request. No team
// reviewers are requested.
func (c *APIClient) RequestReviewers(ctx context.Context, owner, repo string, number int, users []string) error {
	c.logDebug("requesting reviewers", "number", number, "users", users)

	_, resp, err := c.client.PullRequests.RequestReviewers(ctx, owner, repo, number, gh.ReviewersRequest{
		Reviewers:     users,
		TeamReviewers: []string{},
	})
	if err != nil {
		return toGitHubError("RequestReviewers", resp, err)
	}
	return nil
}

func (c *APIClient) logDebug(msg string, args ...any) {
	if c.verbose {
		c.logger.Debug(msg, args...)
	}
}

// Helper functions

func prInfoFromGitHub(pr *gh.PullRequest) *PRInfo {
	info := &PRInfo{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
	}
	if pr.Head != nil {
		info.HeadBranch = pr.GetHead().GetRef()
	}
	if pr.Base != nil {
		info.BaseBranch = pr.GetBase().GetRef()
	}
	return info
}

// toGitHubError separates responses GitHub rejected from transport and other
// failures. The first become GitHubError carrying the API's message, the
// rest UnexpectedError.
func toGitHubError(operation string, resp *gh.Response, err error) error {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) {
		status := 0
		if errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
		return pullrerrors.NewGitHubErrorWithStatus(operation, status, errorResponseMessage(errResp))
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		ghErr := pullrerrors.NewGitHubErrorWithStatus(operation, statusOf(resp, 429), rateErr.Message)
		ghErr.Retryable = true
		return ghErr
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		ghErr := pullrerrors.NewGitHubErrorWithStatus(operation, statusOf(resp, 429), abuseErr.Message)
		ghErr.Retryable = true
		return ghErr
	}

	return pullrerrors.NewUnexpectedError(operation, err)
}

// errorResponseMessage joins the top-level message with the per-field
// validation errors GitHub attaches to 422 responses.
func errorResponseMessage(errResp *gh.ErrorResponse) string {
	parts := make([]string, 0, 1+len(errResp.Errors))
	if errResp.Message != "" {
		parts = append(parts, errResp.Message)
	}
	for _, e := range errResp.Errors {
		if e.Message != "" {
			parts = append(parts, e.Message)
			continue
		}
		fields := make([]string, 0, 3)
		for _, f := range []string{e.Resource, e.Field, e.Code} {
			if f != "" {
				fields = append(fields, f)
			}
		}
		if len(fields) > 0 {
			parts = append(parts, strings.Join(fields, " "))
		}
	}
	if len(parts) == 0 {
		return errResp.Error()
	}
	return strings.Join(parts, ": ")
}

func statusOf(resp *gh.Response, fallback int) int {
	if resp != nil && resp.Response != nil && resp.StatusCode > 0 {
		return resp.StatusCode
	}
	return fallback
}
