package channel

import (
	"context"

	"github.com/lunabeam/lunabeam/internal/pkg/notify/auth"
)

// Message is a rendered notification addressed to one or more recipients.
type Message struct {
	To      []string
	Subject string
	Body    string
	// Data is the structured content behind Body, forwarded by channels
	// that deliver JSON.
	Data map[string]any
}

// INotifyChannel defines the interface for notification channels
type INotifyChannel interface {
	// SetAuth sets the authentication provider
	SetAuth(provider auth.IAuthProvider) error
	// Send delivers a message
	Send(ctx context.Context, msg Message) error
	// Validate validates the channel configuration
	Validate() error
	// Close releases the channel's resources
	Close() error
}
