package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/newswire/apiserver/internal/events"
	"github.com/newswire/apiserver/internal/social"
	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
)

// RecipientSource resolves the readers to notify about content from a
// given publisher and author.
type RecipientSource interface {
	NotificationRecipients(ctx context.Context, publisherID *int, authorID int) ([]string, error)
}

// ConnectionSource resolves an editor's social platform connection.
type ConnectionSource interface {
	Get(ctx context.Context, userID int) (types.SocialConnection, error)
}

// EmailSender delivers plain-text email to a set of recipients.
type EmailSender interface {
	Send(ctx context.Context, recipients []string, subject, msg string) error
}

// PostPublisher publishes a post with a stored connection's tokens.
type PostPublisher interface {
	Post(ctx context.Context, conn types.SocialConnection, text string) error
}

// SideEffects carries out the consequences of an approval: email to
// subscribed readers and a post from the approving editor's connected
// account. Failures are logged and the event is acked regardless;
// re-delivering a half-done event would duplicate sent mail.
type SideEffects struct {
	Recipients  RecipientSource
	Connections ConnectionSource
	Notifier    EmailSender
	Poster      PostPublisher
	Logger      *slog.Logger
}

// Handle processes one approval event.
func (s *SideEffects) Handle(ctx context.Context, event events.ApprovalEvent) error {
	s.notifyReaders(ctx, event)
	s.announce(ctx, event)
	return nil
}

func (s *SideEffects) notifyReaders(ctx context.Context, event events.ApprovalEvent) {
	recipients, err := s.Recipients.NotificationRecipients(ctx, event.PublisherID, event.AuthorID)
	if err != nil {
		s.Logger.Error("could not resolve notification recipients",
			"kind", event.Kind, "content_id", event.ContentID, "error", err)
		return
	}
	if len(recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("New %s: %s", event.Kind, event.Title)
	msg := fmt.Sprintf("%s just published %q.\n\nRead it here: %s\n", event.AuthorName, event.Title, event.Link)
	if event.CoverImageURL != "" {
		msg += fmt.Sprintf("\nCover image: %s\n", event.CoverImageURL)
	}

	if err := s.Notifier.Send(ctx, recipients, subject, msg); err != nil {
		s.Logger.Error("could not send approval email",
			"kind", event.Kind, "content_id", event.ContentID, "error", err)
		return
	}
	s.Logger.Info("notified readers of approved content",
		"kind", event.Kind, "content_id", event.ContentID, "recipients", len(recipients))
}

func (s *SideEffects) announce(ctx context.Context, event events.ApprovalEvent) {
	conn, err := s.Connections.Get(ctx, event.EditorID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.Logger.Error("could not load editor's social connection",
				"editor_id", event.EditorID, "error", err)
		}
		return
	}

	text := social.ComposePost(event.AuthorName, event.PublisherName, event.Title, event.Body, event.Link)
	if err := s.Poster.Post(ctx, conn, text); err != nil {
		s.Logger.Error("could not publish social post",
			"kind", event.Kind, "content_id", event.ContentID, "error", err)
		return
	}
	s.Logger.Info("announced approved content",
		"kind", event.Kind, "content_id", event.ContentID, "editor_id", event.EditorID)
}
