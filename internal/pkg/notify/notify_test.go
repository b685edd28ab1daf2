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
	"testing"
	"time"

	claimsvc "github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/internal/pkg/notify/auth"
	"github.com/lunabeam/lunabeam/internal/pkg/notify/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureChannel struct {
	msgs []channel.Message
	err  error
}

func (c *captureChannel) SetAuth(auth.IAuthProvider) error { return nil }
func (c *captureChannel) Validate() error                  { return nil }
func (c *captureChannel) Close() error                     { return nil }

func (c *captureChannel) Send(_ context.Context, msg channel.Message) error {
	c.msgs = append(c.msgs, msg)
	return c.err
}

func TestInvitationNotifier(t *testing.T) {
	ch := &captureChannel{}
	n := NewInvitationNotifier(ch)

	err := n.Send(context.Background(), claimsvc.Invitation{
		ClaimId:            "01HX",
		Contact:            "alice@example.com",
		SubjectDisplayName: "Alice",
		IssuerDisplayName:  "Mom",
		ClaimLink:          "https://lunabeam.test/claim?token=t0k",
		ExpiresAt:          time.Date(2025, 5, 17, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, ch.msgs, 1)

	msg := ch.msgs[0]
	assert.Equal(t, []string{"alice@example.com"}, msg.To)
	assert.Equal(t, "Mom invited you to LunaBeam", msg.Subject)
	assert.Contains(t, msg.Body, "https://lunabeam.test/claim?token=t0k")
	assert.Equal(t, "2025-05-17T09:00:00Z", msg.Data["expiresAt"])
}

func TestInvitationNotifier_Errors(t *testing.T) {
	ch := &captureChannel{err: errors.New("down")}
	n := NewInvitationNotifier(ch)

	assert.Error(t, n.Send(context.Background(), claimsvc.Invitation{}))
	assert.ErrorContains(t, n.Send(context.Background(), claimsvc.Invitation{Contact: "a@example.com"}), "down")
}

func TestNewChannel(t *testing.T) {
	var conf Config
	conf.SetDefaults()
	ch, err := NewChannel(conf)
	require.NoError(t, err)
	assert.IsType(t, &channel.LogChannel{}, ch)

	conf.Channel = ChannelTypeEmail
	_, err = NewChannel(conf)
	assert.Error(t, err, "email needs a host")

	conf.Email.Host = "smtp.example.com"
	conf.Email.From = "noreply@lunabeam.test"
	conf.Email.Username = "mailer"
	_, err = NewChannel(conf)
	assert.Error(t, err, "basic auth needs a password")

	conf.Email.Password = "secret"
	ch, err = NewChannel(conf)
	require.NoError(t, err)
	assert.IsType(t, &channel.EmailChannel{}, ch)

	conf.Channel = ChannelTypeWebhook
	conf.Webhook.URL = "https://hooks.lunabeam.test/mail"
	ch, err = NewChannel(conf)
	require.NoError(t, err)
	assert.IsType(t, &channel.WebhookChannel{}, ch)

	conf.Channel = "pigeon"
	_, err = NewChannel(conf)
	assert.Error(t, err)
}

func TestProvideNotifier(t *testing.T) {
	n, cleanup, err := ProvideNotifier(Config{})
	require.NoError(t, err)
	defer cleanup()
	assert.NoError(t, n.Send(context.Background(), claimsvc.Invitation{Contact: "a@example.com", ClaimLink: "x"}))
}
