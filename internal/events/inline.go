package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// inlineHandlerTimeout bounds a single in-process delivery.
const inlineHandlerTimeout = 30 * time.Second

// InlineBackend dispatches messages to in-process subscribers. It is
// the default for single-binary deployments with no broker configured.
type InlineBackend struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler
	closed   bool
}

// NewInlineBackend constructs an in-process backend.
func NewInlineBackend(logger *slog.Logger) *InlineBackend {
	return &InlineBackend{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// Publish delivers the message to every registered handler for the
// channel. Delivery happens on a separate goroutine so the publisher
// never waits on side effects; handler errors are logged and dropped.
func (i *InlineBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	i.mu.RLock()
	if i.closed {
		i.mu.RUnlock()
		return "", fmt.Errorf("inline backend is closed")
	}
	handlers := make([]Handler, len(i.handlers[channel]))
	copy(handlers, i.handlers[channel])
	i.mu.RUnlock()

	messageID := newMessageID()
	msg := Message{ID: messageID, Data: data, Attributes: attrs}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), inlineHandlerTimeout)
		defer cancel()
		for _, handler := range handlers {
			if err := handler(ctx, msg); err != nil {
				i.logger.Error("inline handler failed",
					"channel", channel, "message_id", messageID, "error", err)
			}
		}
	}()

	return messageID, nil
}

// Subscribe registers the handler and blocks until ctx is cancelled,
// matching the broker backends' contract.
func (i *InlineBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return fmt.Errorf("inline backend is closed")
	}
	i.handlers[channel] = append(i.handlers[channel], handler)
	i.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

// Close drops all registered handlers.
func (i *InlineBackend) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	i.handlers = make(map[string][]Handler)
	return nil
}
