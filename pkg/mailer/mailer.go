package mailer

import (
	"bytes"
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

	"gymstore/pkg/config"
	"gymstore/pkg/logger"
)

var ErrNotConfigured = errors.New("mailer is not configured")

// Mailer delivers one HTML message. Callers bound the call with ctx.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	now      func() time.Time
}

// New returns an SMTP mailer, or a mailer that always fails with
// ErrNotConfigured when SMTP_HOST is unset.
func New(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		cfg.Log.Warn("SMTP_HOST not set, notifications will not be delivered")
		return disabledMailer{}
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		now:      time.Now,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("failed to negotiate tls: %w", err)
		}
	}
	if m.username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	if _, err := w.Write(m.buildMessage(to, subject, htmlBody)); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return c.Quit()
}

func (m *SMTPMailer) buildMessage(to, subject, htmlBody string) []byte {
	var buf bytes.Buffer
	headers := [][2]string{
		{"From", m.from},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("utf-8", subject)},
		{"Date", m.now().UTC().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="UTF-8"`},
	}
	for _, h := range headers {
		buf.WriteString(h[0] + ": " + stripNewlines(h[1]) + "\r\n")
	}
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	return buf.Bytes()
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

type disabledMailer struct{}

func (disabledMailer) Send(context.Context, string, string, string) error {
	return ErrNotConfigured
}

// Notifier sends best-effort notifications. It never returns the delivery
// error to the caller's control flow; the outcome is reported for display.
type Notifier struct {
	mailer  Mailer
	timeout time.Duration
	log     *logger.Logger
}

type Result struct {
	Sent  bool
	Error string
}

func NewNotifier(m Mailer, timeout time.Duration, log *logger.Logger) *Notifier {
	return &Notifier{mailer: m, timeout: timeout, log: log}
}

func (n *Notifier) Notify(ctx context.Context, to, subject, htmlBody string) Result {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	if err := n.mailer.Send(sendCtx, to, subject, htmlBody); err != nil {
		n.log.ForContext(ctx).Warn("Failed to send notification", "to", to, "subject", subject, "error", err)
		return Result{Error: err.Error()}
	}

	n.log.ForContext(ctx).Info("Notification sent", "to", to, "subject", subject)
	return Result{Sent: true}
}
