package messaging

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"backoffice/internal/store"
)

// Publisher defines an interface for publishing events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// CollectionChanged is emitted after a collection has been saved.
type CollectionChanged struct {
	Collection string    `json:"collection"`
	Count      int       `json:"count"`
	SavedAt    time.Time `json:"savedAt"`
}

const publishTimeout = 5 * time.Second

// Forward publishes a CollectionChanged event to topic after every save of
// the given keys. Publishing runs in the background and failures are only
// logged. The returned func stops forwarding.
func Forward(s *store.Store, pub Publisher, topic string, keys ...string) func() {
	cancels := make([]func(), 0, len(keys))
	for _, key := range keys {
		cancels = append(cancels, s.Subscribe(key, func(key string, data []byte) {
			var items []json.RawMessage
			if err := json.Unmarshal(data, &items); err != nil {
				log.Printf("Warning: skipping change event for %s: %v", key, err)
				return
			}
			event := CollectionChanged{Collection: key, Count: len(items), SavedAt: time.Now().UTC()}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
				defer cancel()
				if err := pub.PublishEvent(ctx, topic, key, event); err != nil {
					log.Printf("Failed to publish change event for %s: %v", key, err)
				}
			}()
		}))
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
