package events

import (
	"context"
	"encoding/json"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/storelane/storelane-backend/pkg/logger"
	"github.com/storelane/storelane-backend/pkg/pubsub"
)

// Publisher emits domain events. Publishing is fire-and-forget: failures are
// logged and never surfaced to the caller, so a broker outage cannot fail a
// committed write.
type Publisher interface {
	Publish(ctx context.Context, stream Stream, event Event)
}

// PubSubPublisher publishes events to the configured Pub/Sub topics.
type PubSubPublisher struct {
	client *pubsub.Client
	logg   *logger.Logger
}

// NewPubSubPublisher wires a publisher over the shared Pub/Sub client.
func NewPubSubPublisher(client *pubsub.Client, logg *logger.Logger) (*PubSubPublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &PubSubPublisher{client: client, logg: logg}, nil
}

// Publish serializes the event and hands it to Pub/Sub. The publish result is
// awaited on a detached context so request cancellation cannot drop the send.
func (p *PubSubPublisher) Publish(ctx context.Context, stream Stream, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logg.Error(ctx, "event publish skipped", fmt.Errorf("marshaling event %s: %w", event.Type, err))
		return
	}

	var publisher *gcppubsub.Publisher
	switch stream {
	case StreamCatalog:
		publisher = p.client.CatalogPublisher()
	case StreamOrders:
		publisher = p.client.OrdersPublisher()
	}
	if publisher == nil {
		p.logg.Error(ctx, "event publish skipped", fmt.Errorf("no publisher for stream %q", stream))
		return
	}

	detached := context.WithoutCancel(ctx)
	result := publisher.Publish(detached, &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":   event.ID,
			"event_type": event.Type,
		},
	})

	go func() {
		if _, err := result.Get(detached); err != nil {
			fields := map[string]any{"event_id": event.ID, "event_type": event.Type, "stream": string(stream)}
			p.logg.Error(p.logg.WithFields(detached, fields), "event publish failed", err)
		}
	}()
}

// NoopPublisher drops all events. Used when event publishing is disabled.
type NoopPublisher struct{}

// NewNoopPublisher returns a publisher that discards everything.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish discards the event.
func (NoopPublisher) Publish(context.Context, Stream, Event) {}
