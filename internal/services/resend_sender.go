package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"
)

// resendSender delivers messages through the Resend API.
type resendSender struct {
	client *resend.Client
}

func newResendSender(apiKey string, timeout time.Duration) *resendSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &resendSender{
		client: resend.NewCustomClient(&http.Client{Timeout: timeout}, apiKey),
	}
}

func (s *resendSender) send(ctx context.Context, msg OutboundEmail) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
