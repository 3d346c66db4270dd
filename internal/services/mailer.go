package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ithomeportal/unilink-energy/config"
	"github.com/ithomeportal/unilink-energy/internal/logging"
	"github.com/ithomeportal/unilink-energy/internal/utils"
)

// Mailer delivers the two emails the login flow sends.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string, expiresIn time.Duration) error
	SendLoginNotification(ctx context.Context, notice LoginNotice) error
}

// LoginNotice describes a successful login for the operations mailbox.
type LoginNotice struct {
	Email     string
	IPAddress string
	UserAgent string
	At        time.Time
}

// OutboundEmail is a rendered message ready for a transport.
type OutboundEmail struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// sender is the transport half of a Mailer.
type sender interface {
	send(ctx context.Context, msg OutboundEmail) error
}

// TemplateMailer renders the portal's emails and hands them to a transport.
type TemplateMailer struct {
	from         string
	notification string
	timeout      time.Duration
	transport    sender
	location     *time.Location
}

// NewMailer picks a transport from cfg.MailProvider.
func NewMailer(cfg *config.Config) (*TemplateMailer, error) {
	var transport sender
	switch cfg.MailProvider {
	case "gmail":
		gm, err := newGmailSender(cfg)
		if err != nil {
			return nil, err
		}
		transport = gm
	case "log":
		transport = newLogSender(logging.Component("mail"))
	case "resend", "":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY is required for the resend mail provider")
		}
		transport = newResendSender(cfg.ResendAPIKey, cfg.MailTimeout)
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
	return newTemplateMailer(cfg.MailFrom, cfg.NotificationEmail, cfg.MailTimeout, transport), nil
}

func newTemplateMailer(from, notification string, timeout time.Duration, transport sender) *TemplateMailer {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &TemplateMailer{
		from:         from,
		notification: notification,
		timeout:      timeout,
		transport:    transport,
		location:     loc,
	}
}

func (m *TemplateMailer) SendVerificationCode(ctx context.Context, to, code string, expiresIn time.Duration) error {
	body, err := render(verificationTemplate, map[string]any{
		"Code":    code,
		"Minutes": int(expiresIn.Minutes()),
		"Year":    time.Now().Year(),
	})
	if err != nil {
		return err
	}

	return m.deliver(ctx, OutboundEmail{
		From:    m.fromHeader(),
		To:      []string{to},
		Subject: "Your Carbon Footprint Portal Verification Code",
		HTML:    body,
		Text:    utils.HTMLToText(body),
	})
}

func (m *TemplateMailer) SendLoginNotification(ctx context.Context, notice LoginNotice) error {
	body, err := render(notificationTemplate, map[string]any{
		"Email":     notice.Email,
		"IP":        notice.IPAddress,
		"UserAgent": notice.UserAgent,
		"Timestamp": notice.At.In(m.location).Format("Monday, January 2, 2006 at 3:04:05 PM MST"),
	})
	if err != nil {
		return err
	}

	return m.deliver(ctx, OutboundEmail{
		From:    m.fromHeader(),
		To:      []string{m.notification},
		Subject: "[Carbon Portal] New Login: " + notice.Email,
		HTML:    body,
		Text:    utils.HTMLToText(body),
	})
}

func (m *TemplateMailer) deliver(ctx context.Context, msg OutboundEmail) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	if err := m.transport.send(ctx, msg); err != nil {
		return fmt.Errorf("send %q to %s: %w", msg.Subject, strings.Join(msg.To, ","), err)
	}
	return nil
}

func (m *TemplateMailer) fromHeader() string {
	return "Unilink Transportation <" + m.from + ">"
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f4f4;">
  <table width="100%" cellpadding="0" cellspacing="0" style="max-width: 600px; margin: 0 auto; background-color: #ffffff;">
    <tr><td style="background: linear-gradient(135deg, #0f172a 0%, #1e3a8a 100%); padding: 40px 30px; text-align: center;">
      <h1 style="color: #ffffff; margin: 0; font-size: 24px;">Unilink Transportation</h1>
      <p style="color: #94a3b8; margin: 10px 0 0 0; font-size: 14px;">Carbon Footprint Portal</p>
    </td></tr>
    <tr><td style="padding: 40px 30px;">
      <h2 style="color: #1e293b; margin: 0 0 20px 0; font-size: 20px;">Verification Code</h2>
      <p style="color: #475569; font-size: 16px;">Enter the following code to complete your login to the Carbon Footprint Portal:</p>
      <div style="background-color: #f1f5f9; border-radius: 8px; padding: 25px; text-align: center;">
        <span style="font-size: 36px; font-weight: 700; letter-spacing: 8px; color: #0f172a;">{{.Code}}</span>
      </div>
      <p style="color: #64748b; font-size: 14px;">This code expires in <strong>{{.Minutes}} minutes</strong>.</p>
      <p style="color: #64748b; font-size: 14px;">If you did not request this code, please ignore this email.</p>
    </td></tr>
    <tr><td style="background-color: #f8fafc; padding: 25px 30px; text-align: center;">
      <p style="color: #94a3b8; margin: 0; font-size: 12px;">&copy; {{.Year}} Unilink Transportation. All rights reserved.</p>
    </td></tr>
  </table>
</body>
</html>`))

var notificationTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f4f4;">
  <table width="100%" cellpadding="0" cellspacing="0" style="max-width: 600px; margin: 0 auto; background-color: #ffffff;">
    <tr><td style="background: linear-gradient(135deg, #166534 0%, #15803d 100%); padding: 30px; text-align: center;">
      <h1 style="color: #ffffff; margin: 0; font-size: 20px;">Carbon Footprint Portal - Login Alert</h1>
    </td></tr>
    <tr><td style="padding: 30px;">
      <p style="color: #475569; font-size: 16px;">A new user has successfully logged into the Carbon Footprint Portal.</p>
      <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f8fafc; border-radius: 8px;">
        <tr><td style="padding: 15px 20px;"><strong>Email</strong><p>{{.Email}}</p></td></tr>
        <tr><td style="padding: 15px 20px;"><strong>IP Address</strong><p>{{.IP}}</p></td></tr>
        <tr><td style="padding: 15px 20px;"><strong>Timestamp</strong><p>{{.Timestamp}}</p></td></tr>
        <tr><td style="padding: 15px 20px;"><strong>User Agent</strong><p style="word-break: break-all;">{{.UserAgent}}</p></td></tr>
      </table>
    </td></tr>
    <tr><td style="background-color: #f8fafc; padding: 20px 30px; text-align: center;">
      <p style="color: #94a3b8; margin: 0; font-size: 12px;">This is an automated notification from the Carbon Footprint Portal.</p>
    </td></tr>
  </table>
</body>
</html>`))
