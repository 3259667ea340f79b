package email

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// DefaultSendTimeout applies when the caller's context has no deadline.
// The sendgrid REST client has no timeout of its own.
const DefaultSendTimeout = 10 * time.Second

func (s *Service) deliver(ctx context.Context, data EmailData, htmlContent, textContent string) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultSendTimeout)
		defer cancel()
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(data.FromName, data.From),
		data.Subject,
		mail.NewEmail("", data.To),
		textContent,
		htmlContent,
	)

	resp, err := s.sender.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending %s to %s: %w", data.TemplateName, data.To, err)
	}

	// Sendgrid answers 202 Accepted; anything outside 2xx is a rejection.
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid rejected %s: status %d: %s", data.TemplateName, resp.StatusCode, resp.Body)
	}

	return nil
}
