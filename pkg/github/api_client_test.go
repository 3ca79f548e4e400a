package github

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pullrerrors "thoreinstein.com/pullr/pkg/errors"
)

// newTestClient returns an APIClient whose requests go to mux.
func newTestClient(t *testing.T, mux *http.ServeMux) *APIClient {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewAPIClient("test-token", false)
	require.NoError(t, err)

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.client.BaseURL = base

	return client
}

func TestNewAPIClient_EmptyToken(t *testing.T) {
	_, err := NewAPIClient("", false)
	require.Error(t, err)
	assert.True(t, pullrerrors.IsConfigError(err))
}

func TestNewAPIClient_EnterpriseURL(t *testing.T) {
	client, err := NewAPIClient("test-token", false, WithBaseURL("https://ghe.example.com"))
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", client.client.BaseURL.String())
}

func TestAPIClient_CreatePR(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Add sorting", body["title"])
		assert.Equal(t, "feat/PROJ-42", body["head"])
		assert.Equal(t, "next", body["base"])
		assert.Equal(t, "rendered body\n", body["body"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number": 7, "title": "Add sorting", "html_url": "https://github.com/acme/widgets/pull/7",
			"head": {"ref": "feat/PROJ-42"}, "base": {"ref": "next"}}`)
	})

	client := newTestClient(t, mux)
	pr, err := client.CreatePR(t.Context(), CreatePROptions{
		Owner:      "acme",
		Repo:       "widgets",
		Title:      "Add sorting",
		Body:       "rendered body\n",
		HeadBranch: "feat/PROJ-42",
		BaseBranch: "next",
	})
	require.NoError(t, err)

	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "https://github.com/acme/widgets/pull/7", pr.URL)
	assert.Equal(t, "feat/PROJ-42", pr.HeadBranch)
	assert.Equal(t, "next", pr.BaseBranch)
}

func TestAPIClient_CreatePR_Validation(t *testing.T) {
	client, err := NewAPIClient("test-token", false)
	require.NoError(t, err)

	_, err = client.CreatePR(t.Context(), CreatePROptions{HeadBranch: "a", BaseBranch: "b"})
	assert.Error(t, err, "empty title")

	_, err = client.CreatePR(t.Context(), CreatePROptions{Title: "t", BaseBranch: "b"})
	assert.Error(t, err, "empty head")
}

func TestAPIClient_CreatePR_Rejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "Validation Failed",
			"errors": [{"resource": "PullRequest", "code": "custom", "message": "A pull request already exists for acme:feat/PROJ-42."}]}`)
	})

	client := newTestClient(t, mux)
	_, err := client.CreatePR(t.Context(), CreatePROptions{
		Owner: "acme", Repo: "widgets", Title: "t", HeadBranch: "feat/PROJ-42", BaseBranch: "next",
	})
	require.Error(t, err)

	var ghErr *pullrerrors.GitHubError
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, http.StatusUnprocessableEntity, ghErr.StatusCode)
	assert.Contains(t, ghErr.Message, "Validation Failed")
	assert.Contains(t, ghErr.Message, "A pull request already exists")
	assert.False(t, ghErr.Retryable)
	assert.False(t, pullrerrors.IsUnexpectedError(err))
}

func TestAPIClient_CreatePR_TransportFailure(t *testing.T) {
	mux := http.NewServeMux()
	client := newTestClient(t, mux)

	// Point the client at a closed listener.
	dead := httptest.NewServer(http.NotFoundHandler())
	base, _ := url.Parse(dead.URL + "/")
	dead.Close()
	client.client.BaseURL = base

	_, err := client.CreatePR(t.Context(), CreatePROptions{
		Owner: "acme", Repo: "widgets", Title: "t", HeadBranch: "h", BaseBranch: "next",
	})
	require.Error(t, err)
	assert.True(t, pullrerrors.IsUnexpectedError(err), "transport failure should be unexpected, got %T: %v", err, err)
	assert.False(t, pullrerrors.IsGitHubError(err))
}

func TestAPIClient_AddAssignees(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/issues/7/assignees", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Assignees []string `json:"assignees"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"octocat"}, body.Assignees)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number": 7}`)
	})

	client := newTestClient(t, mux)
	require.NoError(t, client.AddAssignees(t.Context(), "acme", "widgets", 7, []string{"octocat"}))
}

func TestAPIClient_ListOrgMembers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/acme/members", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Empty(t, r.URL.Query().Get("page"))
		fmt.Fprint(w, `[{"login": "alice"}, {"login": "bob"}, {"login": ""}, {"login": "carol"}]`)
	})

	client := newTestClient(t, mux)
	logins, err := client.ListOrgMembers(t.Context(), "acme", 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, logins)
}

func TestAPIClient_ListOrgMembers_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/acme/members", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"message": "Server Error"}`)
	})

	client := newTestClient(t, mux)
	_, err := client.ListOrgMembers(t.Context(), "acme", 100)
	require.Error(t, err)
	assert.True(t, pullrerrors.IsRetryable(err))
}

func TestAPIClient_RequestReviewers(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/pulls/7/requested_reviewers", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number": 7}`)
	})

	client := newTestClient(t, mux)
	require.NoError(t, client.RequestReviewers(t.Context(), "acme", "widgets", 7, []string{"bob", "carol"}))
	assert.Equal(t, []any{"bob", "carol"}, got["reviewers"])
}

func TestPullRequestLink(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "https://github.com/acme/widgets/pull/7", want: "https://github.com/acme/widgets/pull/7"},
		{name: "drops query and fragment", in: "https://github.com/acme/widgets/pull/7?x=1#top", want: "https://github.com/acme/widgets/pull/7"},
		{name: "enterprise host", in: "https://ghe.example.com/acme/widgets/pull/3", want: "https://ghe.example.com/acme/widgets/pull/3"},
		{name: "empty", in: "", wantErr: true},
		{name: "relative", in: "/acme/widgets/pull/7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PullRequestLink(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
