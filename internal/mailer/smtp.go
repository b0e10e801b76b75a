// Package mailer sends the contact form notification over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/portfolio-cms/internal/config"
)

// ErrNotConfigured is returned before any network I/O when a required SMTP
// setting is missing.
var ErrNotConfigured = errors.New("smtp not configured")

const (
	dialTimeout    = 5 * time.Second
	sessionTimeout = 15 * time.Second
)

// Settings holds the SMTP submission parameters.
type Settings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string
}

// SettingsFromConfig extracts the SMTP settings from the application config.
func SettingsFromConfig(cfg *config.Config) Settings {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	return Settings{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		From:      from,
		Recipient: cfg.ContactRecipient,
	}
}

// Validate reports ErrNotConfigured when any setting is missing.
func (s Settings) Validate() error {
	var missing []string
	if s.Host == "" {
		missing = append(missing, "host")
	}
	if s.Port <= 0 {
		missing = append(missing, "port")
	}
	if s.Username == "" {
		missing = append(missing, "username")
	}
	if s.Password == "" {
		missing = append(missing, "password")
	}
	if s.From == "" {
		missing = append(missing, "from")
	}
	if s.Recipient == "" {
		missing = append(missing, "recipient")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// SMTPMailer submits mail over an authenticated, encrypted SMTP session.
// Port 465 uses implicit TLS, every other port must offer STARTTLS.
type SMTPMailer struct {
	settings  Settings
	tlsConfig *tls.Config
}

// NewSMTPMailer creates a mailer. Settings are validated on every send.
func NewSMTPMailer(settings Settings) *SMTPMailer {
	return &SMTPMailer{
		settings:  settings,
		tlsConfig: &tls.Config{ServerName: settings.Host, MinVersion: tls.VersionTLS12},
	}
}

// SendContactNotification forwards a contact form submission to the configured recipient.
func (m *SMTPMailer) SendContactNotification(ctx context.Context, n ContactNotification) error {
	if err := m.settings.Validate(); err != nil {
		return err
	}

	msg := BuildContactMessage(m.settings.From, m.settings.Recipient, n)
	return m.send(ctx, []string{m.settings.Recipient}, msg)
}

func (m *SMTPMailer) send(ctx context.Context, to []string, msg []byte) error {
	addr := net.JoinHostPort(m.settings.Host, strconv.Itoa(m.settings.Port))

	dialer := &net.Dialer{Timeout: dialTimeout}
	var (
		conn net.Conn
		err  error
	)
	if m.settings.Port == 465 {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: m.tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}

	deadline := time.Now().Add(sessionTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.settings.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer c.Close()

	if m.settings.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return errors.New("smtp server does not support STARTTLS")
		}
		if err := c.StartTLS(m.tlsConfig); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.settings.Username, m.settings.Password, m.settings.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp authentication failed: %w", err)
	}
	if err := c.Mail(m.settings.From); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// BuildContactMessage renders the notification email with CRLF line endings.
func BuildContactMessage(from, to string, n ContactNotification) []byte {
	subject := mime.QEncoding.Encode("utf-8", "New portfolio contact: "+n.Subject)

	body := fmt.Sprintf(
		"New contact message received:\n\n"+
			"Name: %s\n"+
			"Email: %s\n"+
			"Subject: %s\n\n"+
			"Message:\n%s\n\n"+
			"---\n"+
			"This message was sent through the contact form of your portfolio.\n",
		n.Name, n.Email, n.Subject, n.Message,
	)

	headers := []string{
		"From: " + from,
		"To: " + to,
		"Reply-To: " + sanitizeHeader(n.Email),
		"Subject: " + subject,
		"Date: " + time.Now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Transfer-Encoding: 8bit",
	}

	var msg strings.Builder
	for _, h := range headers {
		msg.WriteString(h)
		msg.WriteString("\r\n")
	}
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(msg.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}
