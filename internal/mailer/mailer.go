// Package mailer is the outbound email port and its Resend implementation.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/loamlabs/wheelhouse/pkg/sentinel"
)

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a rendered report. Implementations report acceptance by the
// transport; they do not retry.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Resend delivers mail through the Resend API.
type Resend struct {
	client *resend.Client
	logger *slog.Logger
}

// NewResend constructs a Resend-backed mailer.
func NewResend(apiKey string, logger *slog.Logger) *Resend {
	return &Resend{
		client: resend.NewClient(apiKey),
		logger: logger,
	}
}

// Send hands the message to Resend. Any rejection is wrapped as a delivery
// error so pipelines can apply their failure discipline.
func (r *Resend) Send(ctx context.Context, msg Message) error {
	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel.ErrDelivery, err)
	}

	r.logger.InfoContext(ctx, "email accepted",
		"email_id", sent.Id,
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
