package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/artpar/notionorm/domain/notion"
)

// =============================================================================
// Client Tests (remote.go)
// =============================================================================

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		cfg         ClientConfig
		wantBase    string
		wantVersion string
		wantTimeout time.Duration
	}{
		{
			name: "with all fields",
			cfg: ClientConfig{
				BaseURL: "https://api.example.com/",
				Token:   "secret",
				Version: "2025-01-01",
				Timeout: 5 * time.Second,
			},
			wantBase:    "https://api.example.com",
			wantVersion: "2025-01-01",
			wantTimeout: 5 * time.Second,
		},
		{
			name:        "defaults",
			cfg:         ClientConfig{},
			wantBase:    DefaultBaseURL,
			wantVersion: notion.DefaultVersion,
			wantTimeout: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.cfg)
			if client.baseURL != tt.wantBase {
				t.Errorf("baseURL = %q, want %q", client.baseURL, tt.wantBase)
			}
			if client.version != tt.wantVersion {
				t.Errorf("version = %q, want %q", client.version, tt.wantVersion)
			}
			if client.httpClient.Timeout != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, tt.wantTimeout)
			}
		})
	}
}

func TestClientRequest_Headers(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		if v := r.Header.Get("Notion-Version"); v != notion.DefaultVersion {
			t.Errorf("Notion-Version = %q", v)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if r.Header.Get("X-Custom") != "value" {
			t.Errorf("X-Custom header missing")
		}
		w.Write([]byte(`{"ok": true, "n": 12345678901234567}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Token: "first", Headers: map[string]string{"X-Custom": "value"}})

	var result map[string]any
	if err := client.Request(context.Background(), http.MethodGet, "/x", nil, &result); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if gotAuth.Load() != "Bearer first" {
		t.Errorf("Authorization = %v", gotAuth.Load())
	}
	if n, ok := result["n"].(json.Number); !ok || n.String() != "12345678901234567" {
		t.Errorf("number decoded as %#v, want json.Number", result["n"])
	}

	client.SetToken("second")
	if err := client.Request(context.Background(), http.MethodGet, "/x", nil, nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth.Load() != "Bearer second" {
		t.Errorf("after SetToken, Authorization = %v", gotAuth.Load())
	}
}

func TestClientRequest_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantMessage string
		notFound    bool
		unauth      bool
	}{
		{
			name:        "api error",
			status:      404,
			body:        `{"object":"error","status":404,"code":"object_not_found","message":"Could not find database"}`,
			wantCode:    "object_not_found",
			wantMessage: "Could not find database",
			notFound:    true,
		},
		{
			name:        "unauthorized",
			status:      401,
			body:        `{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`,
			wantCode:    "unauthorized",
			wantMessage: "API token is invalid.",
			unauth:      true,
		},
		{
			name:        "plain body",
			status:      502,
			body:        "bad gateway\n",
			wantMessage: "bad gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(ClientConfig{BaseURL: server.URL}).Request(context.Background(), http.MethodGet, "/", nil, nil)

			var re *RemoteError
			if !errors.As(err, &re) {
				t.Fatalf("error = %v, want *RemoteError", err)
			}
			if re.Status() != tt.status || re.Code != tt.wantCode || re.Message != tt.wantMessage {
				t.Errorf("RemoteError = %+v", re)
			}
			if IsNotFound(err) != tt.notFound {
				t.Errorf("IsNotFound = %v, want %v", IsNotFound(err), tt.notFound)
			}
			if IsUnauthorized(err) != tt.unauth {
				t.Errorf("IsUnauthorized = %v, want %v", IsUnauthorized(err), tt.unauth)
			}
		})
	}
}

func TestClientRequest_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	var out map[string]any
	err := NewClient(ClientConfig{BaseURL: server.URL}).Request(context.Background(), http.MethodGet, "/", nil, &out)
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClientRequest_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewClient(ClientConfig{BaseURL: server.URL}).Request(ctx, http.MethodGet, "/", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRemoteErrorString(t *testing.T) {
	e := &RemoteError{StatusCode: 400, Code: "validation_error", Message: "bad"}
	if got := e.Error(); got != "remote error 400 validation_error: bad" {
		t.Errorf("Error() = %q", got)
	}
	e = &RemoteError{StatusCode: 500, Message: "boom"}
	if got := e.Error(); got != "remote error 500: boom" {
		t.Errorf("Error() = %q", got)
	}
}
