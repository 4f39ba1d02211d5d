// Package notify sends email to readers through the MailJet API.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

const defaultSender = "no-reply@newswire.example.com"

// Notifier sends email using the MailJet API.
type Notifier struct {
	mutex      sync.Mutex
	logger     *slog.Logger
	sender     string
	publicKey  string
	privateKey string
}

// Init initializes a notifier with the supplied options. See
// WithSender, WithLogger and WithKeys for a description of the
// options. Keys are required to send actual email, but can be
// omitted during testing. It is permissible to re-initialize a
// Notifier with different options; missing options revert to
// their defaults.
func (n *Notifier) Init(options ...Option) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.logger = slog.Default()
	n.sender = defaultSender
	n.publicKey = ""
	n.privateKey = ""

	for i, opt := range options {
		if err := opt(n); err != nil {
			return fmt.Errorf("could not apply option # %d, %v", i, err)
		}
	}

	return nil
}

// Send sends an email message to each of the recipients. Without API
// keys it logs the intent and returns nil, which keeps local
// development and tests free of outbound mail.
func (n *Notifier) Send(_ context.Context, recipients []string, subject, msg string) error {
	if len(recipients) == 0 {
		return nil
	}

	n.logger.Info("sending email notification", "recipients", len(recipients), "subject", subject)

	if n.publicKey == "" || n.privateKey == "" {
		return nil
	}

	to := make(mailjet.RecipientsV31, 0, len(recipients))
	for _, recipient := range recipients {
		to = append(to, mailjet.RecipientV31{Email: recipient})
	}

	clt := mailjet.NewMailjetClient(n.publicKey, n.privateKey)
	info := []mailjet.InfoMessagesV31{{
		From:     &mailjet.RecipientV31{Email: n.sender},
		To:       &to,
		Subject:  subject,
		TextPart: msg,
	}}

	msgs := mailjet.MessagesV31{Info: info}
	if _, err := clt.SendMailV31(&msgs); err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}

	return nil
}
