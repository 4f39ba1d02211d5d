package notify

import (
	"errors"
	"log/slog"
)

// Option is a functional option supplied to Init.
type Option func(*Notifier) error

// WithSender sets the sender email address.
func WithSender(sender string) Option {
	return func(n *Notifier) error {
		if sender == "" {
			return nil
		}
		n.sender = sender
		return nil
	}
}

// WithLogger sets the logger used for send reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		n.logger = logger
		return nil
	}
}

// WithKeys applies the public and private MailJet API keys. Required
// for sending real email; omit during testing.
func WithKeys(publicKey, privateKey string) Option {
	return func(n *Notifier) error {
		n.publicKey = publicKey
		n.privateKey = privateKey
		return nil
	}
}
