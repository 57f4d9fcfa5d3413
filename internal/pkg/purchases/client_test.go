package purchases

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestClientGetSubscriber_ParsesEntitlements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/subscribers/u123" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-api-key" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"subscriber": {
				"original_app_user_id": "u123",
				"entitlements": {
					"pro": {"expires_date": "2030-01-01T00:00:00Z", "product_identifier": "pro_monthly"},
					"lifetime": {"expires_date": null}
				}
			}
		}`))
	}))
	defer server.Close()

	snap, err := newTestClient(server).GetSubscriber(context.Background(), "u123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap == nil {
		t.Fatalf("expected a snapshot")
	}
	if snap.SubscriberID != "u123" {
		t.Fatalf("unexpected subscriber id: %q", snap.SubscriberID)
	}
	if got := snap.Entitlements["pro"].ExpiresRaw; got != "2030-01-01T00:00:00Z" {
		t.Fatalf("unexpected pro expiry: %q", got)
	}
	if got := snap.Entitlements["lifetime"].ExpiresRaw; got != "" {
		t.Fatalf("expected null expiry to normalize to empty, got %q", got)
	}
}

func TestClientGetSubscriber_NotFoundIsNoSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	snap, err := newTestClient(server).GetSubscriber(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected 404 to be benign, got %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot for 404")
	}
}

func TestClientGetSubscriber_ServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := newTestClient(server).GetSubscriber(context.Background(), "u123"); err == nil {
		t.Fatalf("expected an error for 5xx response")
	}
}

func TestClientGetSubscriber_RequiresConfig(t *testing.T) {
	c := &Client{APIBaseURL: "http://localhost:0", HTTPClient: http.DefaultClient}
	if _, err := c.GetSubscriber(context.Background(), "u123"); err == nil {
		t.Fatalf("expected missing api key to error")
	}
	c.APIKey = "k"
	if _, err := c.GetSubscriber(context.Background(), "  "); err == nil {
		t.Fatalf("expected empty subscriber id to error")
	}
}

func TestClientGetSubscriber_UnusualExpiryValueKeptRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"subscriber": {"entitlements": {"pro": {"expires_date": 1735689600}}}}`))
	}))
	defer server.Close()

	snap, err := newTestClient(server).GetSubscriber(context.Background(), "u123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := snap.Entitlements["pro"].ExpiresRaw; got != "1735689600" {
		t.Fatalf("expected raw numeric expiry to be preserved, got %q", got)
	}
}
