package channel

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/lunabeam/lunabeam/internal/pkg/notify/auth"
	"github.com/lunabeam/lunabeam/pkg/retry"
)

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailChannel implements email notification channel
type EmailChannel struct {
	smtpHost     string
	smtpPort     int
	fromEmail    string
	fromName     string
	authProvider auth.IAuthProvider
	sendMail     SendMailFunc
	attempts     int
	backoff      time.Duration
	now          func() time.Time
}

type EmailOption func(*EmailChannel)

// WithSendMail replaces the SMTP transport.
func WithSendMail(fn SendMailFunc) EmailOption {
	return func(c *EmailChannel) { c.sendMail = fn }
}

// WithEmailRetry sets how often a failed send is attempted and the base wait.
func WithEmailRetry(attempts int, backoff time.Duration) EmailOption {
	return func(c *EmailChannel) {
		c.attempts = attempts
		c.backoff = backoff
	}
}

// NewEmailChannel creates a new email notification channel
func NewEmailChannel(smtpHost string, smtpPort int, fromEmail, fromName string, opts ...EmailOption) *EmailChannel {
	c := &EmailChannel{
		smtpHost:  smtpHost,
		smtpPort:  smtpPort,
		fromEmail: fromEmail,
		fromName:  fromName,
		sendMail:  smtp.SendMail,
		attempts:  3,
		backoff:   500 * time.Millisecond,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuth sets authentication provider; SMTP only supports basic auth
func (c *EmailChannel) SetAuth(provider auth.IAuthProvider) error {
	if provider == nil {
		return nil
	}
	if provider.GetAuthType() != auth.AuthTypeBasic {
		return fmt.Errorf("email channel only supports basic auth")
	}
	c.authProvider = provider
	return provider.Validate()
}

// Send sends email, retrying transient SMTP failures
func (c *EmailChannel) Send(ctx context.Context, msg Message) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return errors.New("email recipient is required")
	}
	for _, to := range msg.To {
		if strings.ContainsAny(to, "\r\n") {
			return fmt.Errorf("invalid recipient %q", to)
		}
	}

	var smtpAuth smtp.Auth
	if basic, ok := c.authProvider.(*auth.BasicAuth); ok {
		smtpAuth = smtp.PlainAuth("", basic.Username, basic.Password, c.smtpHost)
	}
	addr := fmt.Sprintf("%s:%d", c.smtpHost, c.smtpPort)
	raw := c.buildMessage(msg)

	err := retry.Do(ctx, func(ctx context.Context) error {
		return c.sendMail(addr, smtpAuth, c.fromEmail, msg.To, raw)
	}, retry.WithMaxAttempts(c.attempts), retry.WithBackoff(retry.Exponential(c.backoff)))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (c *EmailChannel) buildMessage(msg Message) []byte {
	from := c.fromEmail
	if c.fromName != "" {
		from = mime.QEncoding.Encode("utf-8", c.fromName) + " <" + c.fromEmail + ">"
	}
	subject := strings.NewReplacer("\r", " ", "\n", " ").Replace(msg.Subject)

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + c.now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// Validate validates the configuration
func (c *EmailChannel) Validate() error {
	if c.smtpHost == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.smtpPort <= 0 {
		return fmt.Errorf("smtp port is required")
	}
	if c.fromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	if c.authProvider != nil {
		return c.authProvider.Validate()
	}
	return nil
}

// Close closes the connection
func (c *EmailChannel) Close() error {
	return nil
}
