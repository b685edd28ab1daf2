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

package claim

import (
	"context"
	"fmt"
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/pkg/cache"
	"github.com/lunabeam/lunabeam/pkg/duration"
	"github.com/lunabeam/lunabeam/pkg/trace"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

const (
	// PolicyRevoke revokes earlier live claims of a subject when a new one is issued.
	PolicyRevoke = "revoke"
	// PolicyReject refuses to issue while a live claim exists.
	PolicyReject = "reject"
)

// Config is the [claim] section of the configuration file.
type Config struct {
	LivePolicy          string `mapstructure:"livePolicy"`
	TTL                 string `mapstructure:"ttl"`
	LinkBaseURL         string `mapstructure:"linkBaseURL"`
	MinCredentialLength int    `mapstructure:"minCredentialLength"`
	MaxPasscodeAttempts int    `mapstructure:"maxPasscodeAttempts"`
	AttemptWindow       string `mapstructure:"attemptWindow"`
	PasscodeCost        int    `mapstructure:"passcodeCost"`
	CredentialCost      int    `mapstructure:"credentialCost"`
	ListLimit           int    `mapstructure:"listLimit"`

	ttl           time.Duration
	attemptWindow time.Duration
}

func (c *Config) SetDefaults() {
	if c.LivePolicy == "" {
		c.LivePolicy = PolicyRevoke
	}
	if c.TTL == "" {
		c.TTL = "7d"
	}
	if c.LinkBaseURL == "" {
		c.LinkBaseURL = "http://localhost:8080/claim"
	}
	if c.MinCredentialLength <= 0 {
		c.MinCredentialLength = 6
	}
	if c.MaxPasscodeAttempts == 0 {
		c.MaxPasscodeAttempts = 5
	}
	if c.AttemptWindow == "" {
		c.AttemptWindow = "15m"
	}
	if c.PasscodeCost == 0 {
		c.PasscodeCost = bcrypt.DefaultCost
	}
	if c.CredentialCost == 0 {
		c.CredentialCost = bcrypt.DefaultCost
	}
	if c.ListLimit <= 0 {
		c.ListLimit = 50
	}
}

// Validate checks the section and resolves its durations.
func (c *Config) Validate() error {
	if c.LivePolicy != PolicyRevoke && c.LivePolicy != PolicyReject {
		return fmt.Errorf("claim.livePolicy must be %q or %q, got %q", PolicyRevoke, PolicyReject, c.LivePolicy)
	}
	ttl, err := duration.Parse(c.TTL)
	if err != nil || ttl <= 0 {
		return fmt.Errorf("claim.ttl %q is not a positive duration", c.TTL)
	}
	window, err := duration.Parse(c.AttemptWindow)
	if err != nil || window <= 0 {
		return fmt.Errorf("claim.attemptWindow %q is not a positive duration", c.AttemptWindow)
	}
	if c.MinCredentialLength > maxCredentialBytes {
		return fmt.Errorf("claim.minCredentialLength cannot exceed %d", maxCredentialBytes)
	}
	for name, cost := range map[string]int{"passcodeCost": c.PasscodeCost, "credentialCost": c.CredentialCost} {
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return fmt.Errorf("claim.%s must be between %d and %d", name, bcrypt.MinCost, bcrypt.MaxCost)
		}
	}
	c.ttl = ttl
	c.attemptWindow = window
	return nil
}

// DefaultTTL is the lifetime given to claims issued without one.
func (c *Config) DefaultTTL() time.Duration {
	return c.ttl
}

// Service runs the claim lifecycle: issue, validate, finalize, revoke and
// the supporting operations around them.
type Service struct {
	cfg      Config
	repos    *repo.Repositories
	notifier Notifier
	throttle *throttle
	tracer   oteltrace.Tracer
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = func() time.Time { return now().UTC() }
	}
}

func NewService(cfg Config, repos *repo.Repositories, c cache.ICache, notifier Notifier, opts ...Option) (*Service, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		cfg:      cfg,
		repos:    repos,
		notifier: notifier,
		throttle: &throttle{cache: c, max: cfg.MaxPasscodeAttempts, window: cfg.attemptWindow},
		tracer:   trace.Tracer("lunabeam/claim"),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, oteltrace.Span) {
	return s.tracer.Start(ctx, "claim."+name)
}

func endSpan(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(CodeOf(err)))
	}
	span.End()
}
