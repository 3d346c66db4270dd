package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/ithomeportal/unilink-energy/config"
)

// gmailSender sends as the portal's Google Workspace mailbox using a stored
// refresh token for the gmail.send scope.
type gmailSender struct {
	oauth        *oauth2.Config
	refreshToken string
}

func newGmailSender(cfg *config.Config) (*gmailSender, error) {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GmailRefreshToken == "" {
		return nil, errors.New("gmail mail provider needs GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GMAIL_REFRESH_TOKEN")
	}
	return &gmailSender{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Scopes:       []string{gmail.GmailSendScope},
			Endpoint:     google.Endpoint,
		},
		refreshToken: cfg.GmailRefreshToken,
	}, nil
}

func (s *gmailSender) client(ctx context.Context) (*gmail.Service, error) {
	token := &oauth2.Token{
		RefreshToken: s.refreshToken,
		TokenType:    "Bearer",
	}

	tokenSource := s.oauth.TokenSource(ctx, token)

	// Create a new service using the token source
	return gmail.NewService(ctx, option.WithTokenSource(tokenSource))
}

func (s *gmailSender) send(ctx context.Context, msg OutboundEmail) error {
	srv, err := s.client(ctx)
	if err != nil {
		return err
	}

	message := gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(buildMIME(msg, time.Now()))),
	}

	_, err = srv.Users.Messages.Send("me", &message).Context(ctx).Do()
	return err
}

// buildMIME renders msg as multipart/alternative with a plain-text and an
// HTML part, both base64 encoded.
func buildMIME(msg OutboundEmail, now time.Time) string {
	boundary := fmt.Sprintf("----=_Part_%d", now.UnixNano())

	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=\"" + boundary + "\"\r\n\r\n")

	writePart := func(contentType, body string) {
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: " + contentType + "; charset=\"UTF-8\"\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		b.WriteString(base64.StdEncoding.EncodeToString([]byte(body)))
		b.WriteString("\r\n")
	}
	writePart("text/plain", msg.Text)
	writePart("text/html", msg.HTML)

	b.WriteString("--" + boundary + "--\r\n")
	return b.String()
}
