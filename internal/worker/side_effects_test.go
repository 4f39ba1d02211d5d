package worker

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/newswire/apiserver/internal/events"
	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecipients struct {
	emails []string
	err    error
}

func (s *stubRecipients) NotificationRecipients(context.Context, *int, int) ([]string, error) {
	return s.emails, s.err
}

type stubConnections struct {
	conn types.SocialConnection
	err  error
}

func (s *stubConnections) Get(context.Context, int) (types.SocialConnection, error) {
	return s.conn, s.err
}

type stubMailer struct {
	recipients []string
	subject    string
	body       string
	err        error
}

func (s *stubMailer) Send(_ context.Context, recipients []string, subject, msg string) error {
	s.recipients = recipients
	s.subject = subject
	s.body = msg
	return s.err
}

type stubPoster struct {
	posts []string
	err   error
}

func (s *stubPoster) Post(_ context.Context, _ types.SocialConnection, text string) error {
	if s.err != nil {
		return s.err
	}
	s.posts = append(s.posts, text)
	return nil
}

func testEvent() events.ApprovalEvent {
	publisherID := 1
	return events.ApprovalEvent{
		Kind:          "article",
		ContentID:     42,
		Title:         "Turbines explained",
		Body:          "A close look at steam.",
		AuthorID:      10,
		AuthorName:    "Anna",
		PublisherID:   &publisherID,
		PublisherName: "The Daily Engine",
		EditorID:      30,
		Link:          "https://news.example.com/articles/42",
	}
}

func TestSideEffectsSendsMailAndPost(t *testing.T) {
	mailer := &stubMailer{}
	poster := &stubPoster{}
	effects := &SideEffects{
		Recipients:  &stubRecipients{emails: []string{"r1@example.com", "r2@example.com"}},
		Connections: &stubConnections{conn: types.SocialConnection{UserID: 30, AccessToken: "tok"}},
		Notifier:    mailer,
		Poster:      poster,
		Logger:      slog.Default(),
	}

	require.NoError(t, effects.Handle(context.Background(), testEvent()))

	assert.Equal(t, []string{"r1@example.com", "r2@example.com"}, mailer.recipients)
	assert.Contains(t, mailer.subject, "Turbines explained")
	assert.Contains(t, mailer.body, "https://news.example.com/articles/42")

	require.Len(t, poster.posts, 1)
	assert.True(t, strings.HasPrefix(poster.posts[0], "Anna (The Daily Engine): Turbines explained"))
}

func TestSideEffectsSkipsPostWithoutConnection(t *testing.T) {
	mailer := &stubMailer{}
	poster := &stubPoster{}
	effects := &SideEffects{
		Recipients:  &stubRecipients{emails: []string{"r1@example.com"}},
		Connections: &stubConnections{err: store.ErrNotFound},
		Notifier:    mailer,
		Poster:      poster,
		Logger:      slog.Default(),
	}

	require.NoError(t, effects.Handle(context.Background(), testEvent()))
	assert.NotEmpty(t, mailer.recipients)
	assert.Empty(t, poster.posts)
}

func TestSideEffectsSkipsMailWithoutRecipients(t *testing.T) {
	mailer := &stubMailer{}
	effects := &SideEffects{
		Recipients:  &stubRecipients{},
		Connections: &stubConnections{err: store.ErrNotFound},
		Notifier:    mailer,
		Poster:      &stubPoster{},
		Logger:      slog.Default(),
	}

	require.NoError(t, effects.Handle(context.Background(), testEvent()))
	assert.Empty(t, mailer.recipients)
}

func TestSideEffectsAcksDespiteFailures(t *testing.T) {
	effects := &SideEffects{
		Recipients:  &stubRecipients{emails: []string{"r1@example.com"}, err: errors.New("db down")},
		Connections: &stubConnections{conn: types.SocialConnection{AccessToken: "tok"}},
		Notifier:    &stubMailer{err: errors.New("smtp down")},
		Poster:      &stubPoster{err: errors.New("api down")},
		Logger:      slog.Default(),
	}

	assert.NoError(t, effects.Handle(context.Background(), testEvent()))
}
