package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/newswire/apiserver/config"
)

// approvalChannel carries content-approval events from the API server
// to the side-effect dispatcher.
const approvalChannel = "content.approved"

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// ApprovalEvent describes a content item that was just approved.
// Delivery is at-least-once; consumers must tolerate duplicates.
type ApprovalEvent struct {
	// Kind is "article" or "newsletter".
	Kind string `json:"kind"`

	// ContentID is the id of the approved item.
	ContentID int `json:"content_id"`

	// Title is the headline or subject line.
	Title string `json:"title"`

	// Body is the full text, used for the social-post excerpt.
	Body string `json:"body"`

	// AuthorID references the journalist who wrote the item.
	AuthorID int `json:"author_id"`

	// AuthorName is the author's display name.
	AuthorName string `json:"author_name"`

	// PublisherID is the item's publisher, nil for independent work.
	PublisherID *int `json:"publisher_id,omitempty"`

	// PublisherName is the publisher's display name, empty when none.
	PublisherName string `json:"publisher_name,omitempty"`

	// EditorID references the editor whose approval fired the event;
	// their social connection, if any, is used for posting.
	EditorID int `json:"editor_id"`

	// Link is the public URL of the approved item.
	Link string `json:"link"`

	// CoverImageURL is the public URL of the item's cover image, empty
	// when none was uploaded.
	CoverImageURL string `json:"cover_image_url,omitempty"`
}

// ApprovalHandler processes a decoded approval event.
type ApprovalHandler func(ctx context.Context, event ApprovalEvent) error

// Bus wraps a backend with a typed API for approval events.
type Bus struct {
	backend Backend
}

// NewBus constructs a Bus over the provided backend.
func NewBus(backend Backend) *Bus {
	return &Bus{backend: backend}
}

// NewBackend selects and constructs the configured broker backend.
func NewBackend(ctx context.Context, cfg config.EventsConfig, logger *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case "", "inline":
		return NewInlineBackend(logger), nil
	case "rabbitmq":
		return NewRabbitMQBackend(cfg.RabbitMQ)
	case "pubsub":
		return NewPubSubBackend(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// PublishApproval sends an approval event to the dispatcher channel.
func (b *Bus) PublishApproval(ctx context.Context, event ApprovalEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode approval event: %w", err)
	}
	attrs := map[string]string{"kind": event.Kind}
	if _, err := b.backend.Publish(ctx, approvalChannel, data, attrs); err != nil {
		return fmt.Errorf("publish approval event: %w", err)
	}
	return nil
}

// SubscribeApprovals consumes approval events until ctx is cancelled.
func (b *Bus) SubscribeApprovals(ctx context.Context, handler ApprovalHandler) error {
	return b.backend.Subscribe(ctx, approvalChannel, func(ctx context.Context, msg Message) error {
		var event ApprovalEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return fmt.Errorf("decode approval event %s: %w", msg.ID, err)
		}
		return handler(ctx, event)
	})
}

// Close closes the underlying backend.
func (b *Bus) Close() error {
	return b.backend.Close()
}
