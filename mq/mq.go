package mq

import (
	"context"
	"encoding/json"
	"log"

	"farmermall/rdx"
)

// Index represents a lifecycle event published for downstream consumers
// (search indexing, analytics). Delivery is best-effort.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id,omitempty"`
	ItemType   string `json:"item_type,omitempty"`
}

const eventsChannel = "marketplace-events"

// Emit publishes a lifecycle event to Redis. Failures are logged and
// swallowed; an unavailable broker never fails the originating request.
func Emit(eventName string, content Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] failed to marshal %s event: %v", eventName, err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), eventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish %s event: %v", eventName, err)
	}
}
