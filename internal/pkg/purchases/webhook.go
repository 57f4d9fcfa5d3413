package purchases

import (
	"encoding/json"
	"errors"
	"strings"
)

// rawEvent covers the key name variants the provider has used across API
// versions for the same three fields.
type rawEvent struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	Type         string `json:"type"`
	EventType    string `json:"event_type"`
	AppUserID    string `json:"app_user_id"`
	SubscriberID string `json:"subscriber_id"`
	UserID       string `json:"user_id"`
}

// ParseWebhookEvent extracts the event identifier, event type and
// subscriber identifier from a webhook body. Fields are accepted both at
// the top level and nested under "event" (newer payloads wrap the event
// object). A missing event id or subscriber id makes the notification
// permanently unprocessable.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var outer struct {
		Event rawEvent `json:"event"`
	}
	if err := json.Unmarshal(payload, &outer); err != nil {
		return nil, err
	}
	var top rawEvent
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, err
	}

	eventID := firstNonEmpty(outer.Event.ID, outer.Event.EventID, top.ID, top.EventID)
	if eventID == "" {
		return nil, errors.New("webhook payload missing event id")
	}
	subscriberID := firstNonEmpty(
		outer.Event.AppUserID, outer.Event.SubscriberID, outer.Event.UserID,
		top.AppUserID, top.SubscriberID, top.UserID,
	)
	if subscriberID == "" {
		return nil, errors.New("webhook payload missing subscriber id")
	}

	return &WebhookEvent{
		EventID:      eventID,
		EventType:    firstNonEmpty(outer.Event.Type, outer.Event.EventType, top.Type, top.EventType),
		SubscriberID: subscriberID,
		RawPayload:   string(payload),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
