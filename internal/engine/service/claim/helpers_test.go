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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/internal/engine/repo/repotest"
	"github.com/lunabeam/lunabeam/pkg/cache"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var baseTime = time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Invitation
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, inv Invitation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, inv)
	return n.err
}

func (n *recordingNotifier) last() Invitation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fixture struct {
	svc      *Service
	repos    *repo.Repositories
	clock    *fakeClock
	notifier *recordingNotifier
	ctx      context.Context
}

func newFixture(t *testing.T, mutate ...func(*Config)) *fixture {
	t.Helper()
	cfg := Config{
		LinkBaseURL:    "https://lunabeam.test/claim",
		PasscodeCost:   bcrypt.MinCost,
		CredentialCost: bcrypt.MinCost,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	f := &fixture{
		repos:    repotest.New(t),
		clock:    &fakeClock{t: baseTime},
		notifier: &recordingNotifier{},
		ctx:      context.Background(),
	}
	svc, err := NewService(cfg, f.repos, cache.NewFastCache(0), f.notifier, WithClock(f.clock.Now))
	require.NoError(t, err)
	f.svc = svc
	return f
}

// seedSubject stores an identity with its profile.
func (f *fixture) seedSubject(t *testing.T, identityId string, placeholder bool) {
	t.Helper()
	status := model.IdentityStatusActive
	if placeholder {
		status = model.IdentityStatusProvisioned
	}
	require.NoError(t, f.repos.Identity.Create(f.ctx, &model.Identity{
		IdentityId:  identityId,
		Placeholder: placeholder,
		Status:      status,
	}))
	require.NoError(t, f.repos.Profile.Create(f.ctx, &model.Profile{
		IdentityId:    identityId,
		DisplayName:   "Alice",
		AuthStatus:    model.AuthStatusUnclaimed,
		AccountStatus: model.AccountStatusProvisioned,
	}))
}

func (f *fixture) seedSupporter(t *testing.T, individual, supporter, permission string) {
	t.Helper()
	require.NoError(t, f.repos.Supporter.Create(f.ctx, &model.Supporter{
		IndividualId: individual,
		SupporterId:  supporter,
		Role:         model.SupporterRoleParent,
		Permission:   permission,
	}))
}

func (f *fixture) issue(t *testing.T, subject string) *Issued {
	t.Helper()
	issued, err := f.svc.Issue(f.ctx, IssueRequest{
		SubjectIdentity: subject,
		InviteeContact:  "alice@example.com",
		TTL:             24 * time.Hour,
	})
	require.NoError(t, err)
	return issued
}

func (f *fixture) status(t *testing.T, claimId string) string {
	t.Helper()
	row, err := f.repos.Claim.GetByClaimId(f.ctx, claimId, false)
	require.NoError(t, err)
	return row.Status
}

func requireCode(t *testing.T, err error, code Code) {
	t.Helper()
	require.Error(t, err)
	var ce *Error
	require.True(t, errors.As(err, &ce), "not a claim error: %v", err)
	require.Equal(t, code, ce.Code, "error: %v", err)
}
