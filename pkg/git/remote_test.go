package git

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func TestParseRemote(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantBase string
		wantRepo string
	}{
		{name: "ssh with .git", url: "git@github.com:acme/widgets.git", wantBase: "acme", wantRepo: "widgets"},
		{name: "ssh without .git", url: "git@github.com:acme/widgets", wantBase: "acme", wantRepo: "widgets"},
		{name: "https with .git", url: "https://github.com/acme/widgets.git", wantBase: "acme", wantRepo: "widgets"},
		{name: "https without .git", url: "https://github.com/acme/widgets", wantBase: "acme", wantRepo: "widgets"},
		{name: "http", url: "http://ghe.example.com/acme/widgets.git", wantBase: "acme", wantRepo: "widgets"},
		{name: "https trailing slash", url: "https://github.com/acme/widgets/", wantBase: "acme", wantRepo: "widgets"},
		{name: "https with credentials", url: "https://user:pw@github.com/acme/widgets.git", wantBase: "acme", wantRepo: "widgets"},
		{name: "ssh url with port", url: "ssh://git@github.com:22/acme/widgets.git", wantBase: "acme", wantRepo: "widgets"},
		{name: "nested path uses last two segments", url: "https://gitlab.example.com/group/acme/widgets.git", wantBase: "acme", wantRepo: "widgets"},
		{name: "scp nested path", url: "git@host:prefix/acme/widgets.git", wantBase: "acme", wantRepo: "widgets"},
		{name: "dots and dashes", url: "git@github.com:my-org/my.repo-name.git", wantBase: "my-org", wantRepo: "my.repo-name"},
		{name: "underscores", url: "git@github.com:my_org/my_repo", wantBase: "my_org", wantRepo: "my_repo"},
		{name: "local path", url: "/srv/git/acme/widgets.git", wantBase: "acme", wantRepo: "widgets"},
		{name: "file url", url: "file:///srv/git/acme/widgets.git", wantBase: "acme", wantRepo: "widgets"},
		{name: "surrounding whitespace", url: "  git@github.com:acme/widgets.git\n", wantBase: "acme", wantRepo: "widgets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRemote(tt.url)
			if err != nil {
				t.Fatalf("ParseRemote(%q) error = %v", tt.url, err)
			}
			if got.Base != tt.wantBase {
				t.Errorf("Base = %q, want %q", got.Base, tt.wantBase)
			}
			if got.Repo != tt.wantRepo {
				t.Errorf("Repo = %q, want %q", got.Repo, tt.wantRepo)
			}
		})
	}
}

func TestParseRemote_Invalid(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"widgets",
		"git@github.com/acme/widgets",
		"https://github.com/acme",
		"https://github.com/",
		"git@github.com:widgets.git",
		"git@github.com:acme/wid gets.git",
	}

	for _, url := range tests {
		t.Run(url, func(t *testing.T) {
			got, err := ParseRemote(url)
			if err == nil {
				t.Fatalf("ParseRemote(%q) = %+v, want error", url, got)
			}
			if !errors.Is(err, ErrMalformedRemoteURL) {
				t.Errorf("ParseRemote(%q) error = %v, want ErrMalformedRemoteURL", url, err)
			}
		})
	}
}

func TestRemote_String(t *testing.T) {
	r := Remote{Base: "acme", Repo: "widgets"}
	if got := r.String(); got != "acme/widgets" {
		t.Errorf("String() = %q, want acme/widgets", got)
	}
}
