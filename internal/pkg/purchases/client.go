package purchases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inkpost/inkpost/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.revenuecat.com"

// Client calls the billing provider's read API for canonical subscriber
// state. The API key here is distinct from the inbound webhook secret.
type Client struct {
	APIKey     string
	APIBaseURL string

	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		APIKey:     strings.TrimSpace(env.GetEnv("PURCHASES_API_KEY", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("PURCHASES_API_BASE_URL", defaultAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetSubscriber fetches the provider's current record for a subscriber.
// A 404 means the provider has no record and returns (nil, nil); callers
// treat every other failure as "no entitlement found" rather than a hard
// error, so access is never granted on uncertainty.
func (c *Client) GetSubscriber(ctx context.Context, subscriberID string) (*Snapshot, error) {
	id := strings.TrimSpace(subscriberID)
	if id == "" {
		return nil, errors.New("subscriber id is required")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("PURCHASES_API_KEY is not configured")
	}

	base := strings.TrimRight(c.APIBaseURL, "/")
	u, err := url.Parse(base + "/v1/subscribers/" + url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("subscriber request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	type rawResponse struct {
		Subscriber struct {
			OriginalAppUserID string `json:"original_app_user_id"`
			Entitlements      map[string]struct {
				ExpiresDate       json.RawMessage `json:"expires_date"`
				ProductIdentifier string          `json:"product_identifier"`
			} `json:"entitlements"`
		} `json:"subscriber"`
	}

	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		SubscriberID: firstNonEmpty(raw.Subscriber.OriginalAppUserID, id),
		Entitlements: make(map[string]SnapshotEntitlement, len(raw.Subscriber.Entitlements)),
	}
	for name, ent := range raw.Subscriber.Entitlements {
		snap.Entitlements[name] = SnapshotEntitlement{
			ExpiresRaw: rawExpiryValue(ent.ExpiresDate),
		}
	}
	return snap, nil
}

// rawExpiryValue normalizes the verbatim expires_date JSON value: absent
// and null both mean no expiry, a JSON string is unquoted, anything else
// is kept as raw text for the resolver to judge.
func rawExpiryValue(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return trimmed
}
