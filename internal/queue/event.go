// Package queue moves front-desk activity over RabbitMQ: a publisher that
// forwards domain events to the activity queue and a consumer that appends
// them to the activity log.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-front-desk/internal/events"
)

// DefaultQueue is the durable queue activity messages are routed to.
const DefaultQueue = "frontdesk.activity"

// ActivityEvent is the message body published for every domain event.  It
// carries enough for downstream consumers to log or notify without calling
// back into the API.
type ActivityEvent struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	EntityID   string          `json:"entity_id"`
	Resources  []string        `json:"resources"`
	OccurredAt string          `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// FromEvent converts a domain event into its wire form.
func FromEvent(e events.Event) (ActivityEvent, error) {
	ev := ActivityEvent{
		EventID:    e.ID,
		Type:       string(e.Type),
		EntityID:   e.EntityID,
		Resources:  e.Resources,
		OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
	}
	if e.Payload != nil {
		body, err := json.Marshal(e.Payload)
		if err != nil {
			return ActivityEvent{}, fmt.Errorf("marshal payload of %s: %w", e.Type, err)
		}
		ev.Payload = body
	}
	return ev, nil
}
