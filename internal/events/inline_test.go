package events

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/newswire/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineBusDeliversApprovalEvents(t *testing.T) {
	backend := NewInlineBackend(slog.Default())
	bus := NewBus(backend)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ApprovalEvent, 1)
	go func() {
		_ = bus.SubscribeApprovals(ctx, func(_ context.Context, event ApprovalEvent) error {
			received <- event
			return nil
		})
	}()

	// Give the subscriber goroutine a moment to register.
	require.Eventually(t, func() bool {
		backend.mu.RLock()
		defer backend.mu.RUnlock()
		return len(backend.handlers[approvalChannel]) == 1
	}, time.Second, 5*time.Millisecond)

	publisherID := 3
	sent := ApprovalEvent{
		Kind:        "article",
		ContentID:   42,
		Title:       "Turbines",
		AuthorID:    10,
		PublisherID: &publisherID,
		EditorID:    30,
		Link:        "https://news.example.com/articles/42",
	}
	require.NoError(t, bus.PublishApproval(context.Background(), sent))

	select {
	case got := <-received:
		assert.Equal(t, sent, got)
	case <-time.After(2 * time.Second):
		t.Fatal("approval event was not delivered")
	}
}

func TestInlineBackendClosed(t *testing.T) {
	backend := NewInlineBackend(slog.Default())
	require.NoError(t, backend.Close())

	_, err := backend.Publish(context.Background(), approvalChannel, []byte("{}"), nil)
	assert.Error(t, err)

	err = backend.Subscribe(context.Background(), approvalChannel, func(context.Context, Message) error {
		return nil
	})
	assert.Error(t, err)
}

func TestNewBackendSelection(t *testing.T) {
	backend, err := NewBackend(context.Background(), config.EventsConfig{}, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &InlineBackend{}, backend)

	_, err = NewBackend(context.Background(), config.EventsConfig{Backend: "carrier-pigeon"}, slog.Default())
	assert.Error(t, err)
}
