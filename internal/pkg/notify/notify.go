// Copyright 2025 LunaBeam Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	claimsvc "github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/internal/pkg/notify/auth"
	"github.com/lunabeam/lunabeam/internal/pkg/notify/channel"
	"github.com/lunabeam/lunabeam/internal/pkg/notify/template"
	"github.com/lunabeam/lunabeam/pkg/log"
)

// ChannelType represents the notification channel type
type ChannelType string

const (
	ChannelTypeEmail   ChannelType = "email"
	ChannelTypeWebhook ChannelType = "webhook"
	ChannelTypeLog     ChannelType = "log"
)

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"fromName"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Attempts int    `mapstructure:"attempts"`
}

type WebhookConfig struct {
	URL     string `mapstructure:"url"`
	Method  string `mapstructure:"method"`
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"`
	Retries int    `mapstructure:"retries"`
}

// Config is the [notify] section of the configuration file.
type Config struct {
	Channel ChannelType   `mapstructure:"channel"`
	Email   EmailConfig   `mapstructure:"email"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

func (c *Config) SetDefaults() {
	if c.Channel == "" {
		c.Channel = ChannelTypeLog
	}
	if c.Email.Port == 0 {
		c.Email.Port = 587
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "LunaBeam"
	}
	if c.Email.Attempts <= 0 {
		c.Email.Attempts = 3
	}
	if c.Webhook.Timeout <= 0 {
		c.Webhook.Timeout = 10
	}
}

// NewChannel builds the channel selected by the configuration.
func NewChannel(c Config) (channel.INotifyChannel, error) {
	var (
		ch       channel.INotifyChannel
		provider auth.IAuthProvider
	)
	switch c.Channel {
	case ChannelTypeEmail:
		ch = channel.NewEmailChannel(c.Email.Host, c.Email.Port, c.Email.From, c.Email.FromName,
			channel.WithEmailRetry(c.Email.Attempts, 500*time.Millisecond))
		if c.Email.Username != "" {
			provider = auth.NewBasicAuth(c.Email.Username, c.Email.Password)
		}
	case ChannelTypeWebhook:
		ch = channel.NewWebhookChannel(c.Webhook.URL, c.Webhook.Method,
			time.Duration(c.Webhook.Timeout)*time.Second, c.Webhook.Retries)
		if c.Webhook.Token != "" {
			provider = auth.NewBearerAuth(c.Webhook.Token)
		}
	case ChannelTypeLog:
		ch = channel.NewLogChannel()
	default:
		return nil, fmt.Errorf("unsupported notify channel: %s", c.Channel)
	}

	if provider != nil {
		if err := ch.SetAuth(provider); err != nil {
			return nil, fmt.Errorf("notify channel %s auth: %w", c.Channel, err)
		}
	}
	if err := ch.Validate(); err != nil {
		return nil, fmt.Errorf("notify channel %s: %w", c.Channel, err)
	}
	return ch, nil
}

// InvitationNotifier renders claim invitations and hands them to a channel.
type InvitationNotifier struct {
	channel  channel.INotifyChannel
	engine   *template.TemplateEngine
	template template.Template
}

func NewInvitationNotifier(ch channel.INotifyChannel) *InvitationNotifier {
	return &InvitationNotifier{
		channel:  ch,
		engine:   template.NewTemplateEngine(),
		template: template.Invitation,
	}
}

var _ claimsvc.Notifier = (*InvitationNotifier)(nil)

func (n *InvitationNotifier) Send(ctx context.Context, inv claimsvc.Invitation) error {
	if inv.Contact == "" {
		return errors.New("invitation has no contact")
	}
	subject, body, err := n.engine.RenderTemplate(n.template, inv)
	if err != nil {
		return err
	}

	msg := channel.Message{
		To:      []string{inv.Contact},
		Subject: subject,
		Body:    body,
		Data: map[string]any{
			"claimId":            inv.ClaimId,
			"subjectDisplayName": inv.SubjectDisplayName,
			"issuerDisplayName":  inv.IssuerDisplayName,
			"claimLink":          inv.ClaimLink,
			"expiresAt":          inv.ExpiresAt.UTC().Format(time.RFC3339),
		},
	}
	if err := n.channel.Send(ctx, msg); err != nil {
		return err
	}
	log.WithContext(ctx).Infow("claim invitation sent", "claimId", inv.ClaimId)
	return nil
}

func (n *InvitationNotifier) Close() error {
	return n.channel.Close()
}
