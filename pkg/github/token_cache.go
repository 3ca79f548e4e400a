package github

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	pullrerrors "thoreinstein.com/pullr/pkg/errors"
)

const (
	// KeyringService is the keychain service name for pullr.
	KeyringService = "pullr-github"
	// KeyringAccount is the keychain account prefix for OAuth tokens; the
	// GitHub host is appended so github.com and Enterprise tokens never mix.
	KeyringAccount = "oauth-token"

	// TokenCacheDir is the directory for token cache files.
	TokenCacheDir = ".config/pullr" //nolint:gosec // Not a credential, just a directory name
	// TokenCacheFile is the filename for cached github.com tokens.
	TokenCacheFile = "github-token.json" //nolint:gosec // Not a credential, just a filename

	defaultHost = "github.com"
)

// TokenCache manages OAuth token storage.
type TokenCache interface {
	Get() (*oauth2.Token, error)
	Set(token *oauth2.Token) error
	Clear() error
}

// cachedToken wraps oauth2.Token with JSON serialization.
type cachedToken struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

func (c *cachedToken) toOAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    c.TokenType,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

func fromOAuth2Token(t *oauth2.Token) *cachedToken {
	return &cachedToken{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}

// NewTokenCache creates the token cache for a GitHub host, preferring the
// keychain when available. hostURL is the device flow host; empty means
// github.com.
func NewTokenCache(hostURL string) TokenCache {
	host := cacheHost(hostURL)

	// Probe with a throwaway entry; headless Linux often has no secret service.
	testService := KeyringService + "-test"
	if err := keyring.Set(testService, "test", "test"); err == nil {
		_ = keyring.Delete(testService, "test")
		return &KeychainTokenCache{
			service: KeyringService,
			account: keyringAccount(host),
		}
	}

	return &FileTokenCache{
		path: tokenCachePath(host),
	}
}

// cacheHost reduces a host URL such as https://ghe.example.com to its
// hostname. Anything unparsable is used as given.
func cacheHost(hostURL string) string {
	if hostURL == "" {
		return defaultHost
	}
	u, err := url.Parse(hostURL)
	if err != nil || u.Host == "" {
		return strings.Trim(hostURL, "/")
	}
	return u.Host
}

func keyringAccount(host string) string {
	if host == defaultHost {
		return KeyringAccount
	}
	return KeyringAccount + "@" + host
}

// KeychainTokenCache stores the token in the OS credential store.
type KeychainTokenCache struct {
	service string
	account string
}

// Get retrieves the cached token from keychain.
func (k *KeychainTokenCache) Get() (*oauth2.Token, error) {
	data, err := keyring.Get(k.service, k.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil // No cached token
		}
		return nil, pullrerrors.NewGitHubErrorWithCause("TokenCache.Get", "failed to read from keychain", err)
	}

	var cached cachedToken
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, pullrerrors.NewGitHubErrorWithCause("TokenCache.Get", "failed to parse cached token", err)
	}

	return cached.toOAuth2Token(), nil
}

// Set stores the token in keychain.
func (k *KeychainTokenCache) Set(token *oauth2.Token) error {
	cached := fromOAuth2Token(token)
	data, err := json.Marshal(cached)
	if err != nil {
		return pullrerrors.NewGitHubErrorWithCause("TokenCache.Set", "failed to serialize token", err)
	}

	if err := keyring.Set(k.service, k.account, string(data)); err != nil {
		return pullrerrors.NewGitHubErrorWithCause("TokenCache.Set", "failed to save to keychain", err)
	}

	return nil
}

// Clear removes the token from keychain.
func (k *KeychainTokenCache) Clear() error {
	err := keyring.Delete(k.service, k.account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return pullrerrors.NewGitHubErrorWithCause("TokenCache.Clear", "failed to clear keychain", err)
	}
	return nil
}

// FileTokenCache stores token in a file (fallback for headless systems).
type FileTokenCache struct {
	path string
}

// Get retrieves the cached token from file.
func (f *FileTokenCache) Get() (*oauth2.Token, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No cached token
		}
		return nil, pullrerrors.NewGitHubErrorWithCause("TokenCache.Get", "failed to read token file", err)
	}

	var cached cachedToken
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, pullrerrors.NewGitHubErrorWithCause("TokenCache.Get", "failed to parse cached token", err)
	}

	return cached.toOAuth2Token(), nil
}

// Set stores the token in a file with restrictive permissions.
func (f *FileTokenCache) Set(token *oauth2.Token) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return pullrerrors.NewGitHubErrorWithCause("TokenCache.Set", "failed to create config directory", err)
	}

	cached := fromOAuth2Token(token)
	data, err := json.Marshal(cached)
	if err != nil {
		return pullrerrors.NewGitHubErrorWithCause("TokenCache.Set", "failed to serialize token", err)
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return pullrerrors.NewGitHubErrorWithCause("TokenCache.Set", "failed to write token file", err)
	}

	return nil
}

// Clear removes the token file.
func (f *FileTokenCache) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return pullrerrors.NewGitHubErrorWithCause("TokenCache.Clear", "failed to remove token file", err)
	}
	return nil
}

func tokenCachePath(host string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	name := TokenCacheFile
	if host != defaultHost {
		safe := strings.NewReplacer("/", "_", ":", "_", "\\", "_").Replace(host)
		name = "github-token-" + safe + ".json"
	}
	return filepath.Join(home, TokenCacheDir, name)
}
