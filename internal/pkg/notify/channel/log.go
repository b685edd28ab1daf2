package channel

import (
	"context"

	"github.com/lunabeam/lunabeam/internal/pkg/notify/auth"
	"github.com/lunabeam/lunabeam/pkg/log"
)

// LogChannel writes messages to the application log instead of sending
// them. Meant for local runs.
type LogChannel struct{}

func NewLogChannel() *LogChannel {
	return &LogChannel{}
}

func (c *LogChannel) SetAuth(auth.IAuthProvider) error { return nil }

func (c *LogChannel) Send(ctx context.Context, msg Message) error {
	log.WithContext(ctx).Infow("notification", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}

func (c *LogChannel) Validate() error { return nil }

func (c *LogChannel) Close() error { return nil }
