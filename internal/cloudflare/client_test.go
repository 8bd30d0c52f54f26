package cloudflare

import (
	"net/http"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	client, err := New("account-123", "token-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.accountID != "account-123" || client.apiToken != "token-abc" {
		t.Errorf("credentials not stored, got %q/%q", client.accountID, client.apiToken)
	}

	if client.httpClient == nil || client.httpClient.Timeout != defaultRequestTimeout {
		t.Fatal("expected default HTTP client with the rendering timeout")
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		token     string
		want      error
	}{
		{name: "account", accountID: "", token: "token", want: ErrMissingAccountID},
		{name: "token", accountID: "account", token: "", want: ErrMissingAPIToken},
		{name: "both", accountID: "", token: "", want: ErrMissingAccountID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.accountID, tc.token); err != tc.want {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNew_Options(t *testing.T) {
	custom := &http.Client{Timeout: 5 * time.Second}

	client, err := New("account-123", "token-abc", WithHTTPClient(custom), WithBaseURL("http://localhost:9999"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.httpClient != custom {
		t.Error("expected custom HTTP client to be set")
	}

	if got := client.apiURL(contentPath); got != "http://localhost:9999/accounts/account-123/browser-rendering/content" {
		t.Errorf("unexpected api url %s", got)
	}

	client, err = New("account-123", "token-abc", WithHTTPClient(nil), WithBaseURL(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.httpClient == nil || client.baseURL != defaultBaseURL {
		t.Error("expected defaults to survive empty options")
	}
}
