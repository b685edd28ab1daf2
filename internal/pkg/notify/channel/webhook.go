package channel

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/lunabeam/lunabeam/internal/pkg/notify/auth"
	"github.com/lunabeam/lunabeam/pkg/log"
)

// WebhookChannel posts messages as JSON, typically to a serverless mail
// function.
type WebhookChannel struct {
	webhookURL   string
	method       string
	authProvider auth.IAuthProvider
	client       *resty.Client
}

type webhookPayload struct {
	To      []string       `json:"to"`
	Subject string         `json:"subject"`
	Body    string         `json:"body"`
	Data    map[string]any `json:"data,omitempty"`
}

// NewWebhookChannel creates a new generic webhook notification channel
func NewWebhookChannel(webhookURL, method string, timeout time.Duration, retries int) *WebhookChannel {
	if method == "" {
		method = http.MethodPost
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &WebhookChannel{
		webhookURL: webhookURL,
		method:     method,
		client:     client,
	}
}

// SetAuth sets authentication provider (supports multiple auth methods)
func (c *WebhookChannel) SetAuth(provider auth.IAuthProvider) error {
	if provider == nil {
		return nil
	}
	c.authProvider = provider
	return provider.Validate()
}

// Send sends message to webhook
func (c *WebhookChannel) Send(ctx context.Context, msg Message) error {
	if err := c.Validate(); err != nil {
		return err
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookPayload{To: msg.To, Subject: msg.Subject, Body: msg.Body, Data: msg.Data})
	if c.authProvider != nil {
		if key, value := c.authProvider.GetAuthHeader(); key != "" && value != "" {
			req.SetHeader(key, value)
		}
	}

	resp, err := req.Execute(c.method, c.webhookURL)
	if err != nil {
		log.WithContext(ctx).Errorw("webhook send request failed", "error", err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		log.WithContext(ctx).Errorw("webhook request failed", "statusCode", resp.StatusCode(), "response", resp.String())
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode())
	}
	return nil
}

// Validate validates the configuration
func (c *WebhookChannel) Validate() error {
	if c.webhookURL == "" {
		return fmt.Errorf("webhook URL is required")
	}
	if c.authProvider != nil {
		return c.authProvider.Validate()
	}
	return nil
}

// Close closes the connection
func (c *WebhookChannel) Close() error {
	return nil
}
