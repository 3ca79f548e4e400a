package github

import (
	"context"
	"testing"
)

func TestDeviceAuth_MissingClientID(t *testing.T) {
	_, err := DeviceAuth(t.Context(), OAuthConfig{}, nil)
	if err == nil {
		t.Error("DeviceAuth with empty client ID should return error")
	}
}

func TestDeviceAuth_InvalidHost(t *testing.T) {
	_, err := DeviceAuth(t.Context(), OAuthConfig{ClientID: "id", HostURL: "://bad"}, nil)
	if err == nil {
		t.Error("DeviceAuth with an unparsable host should return error")
	}
}

func TestDeviceAuth_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// The host is unroutable; cancellation must win before any network reply.
	_, err := DeviceAuth(ctx, OAuthConfig{ClientID: "id", HostURL: "https://127.0.0.1:1"}, nil)
	if err == nil {
		t.Error("DeviceAuth with a cancelled context should return error")
	}
}

func TestHostFromBaseURL(t *testing.T) {
	tests := map[string]string{
		"":                                "",
		"https://ghe.example.com":         "https://ghe.example.com",
		"https://ghe.example.com/api/v3":  "https://ghe.example.com",
		"https://ghe.example.com/api/v3/": "https://ghe.example.com",
	}
	for in, want := range tests {
		if got := hostFromBaseURL(in); got != want {
			t.Errorf("hostFromBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}
