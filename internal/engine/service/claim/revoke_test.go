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
	"testing"
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueAs(t *testing.T, f *fixture, subject, issuer string) *Issued {
	t.Helper()
	issued, err := f.svc.Issue(f.ctx, IssueRequest{
		SubjectIdentity:   subject,
		IssuerIdentity:    issuer,
		IssuerDisplayName: "Coach Sam",
		InviteeContact:    "alice@example.com",
		Message:           "welcome",
	})
	require.NoError(t, err)
	return issued
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)
	f.seedSubject(t, "U1", false)
	f.seedSupporter(t, "U1", "sam", model.PermissionEditor)
	f.seedSupporter(t, "U1", "mom", model.PermissionAdmin)
	f.seedSupporter(t, "U1", "aunt", model.PermissionEditor)

	issued := issueAs(t, f, "U1", "sam")

	_, err := f.svc.Revoke(f.ctx, issued.View.ClaimId, "aunt")
	assert.ErrorIs(t, err, ErrForbidden, "editors other than the issuer cannot revoke")
	_, err = f.svc.Revoke(f.ctx, issued.View.ClaimId, "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Revoke(f.ctx, "missing", "sam")
	assert.ErrorIs(t, err, ErrNotFound)

	view, err := f.svc.Revoke(f.ctx, issued.View.ClaimId, "sam")
	require.NoError(t, err)
	assert.Equal(t, statemachine.ClaimRevoked, view.Status)

	row, err := f.repos.Claim.GetByClaimId(f.ctx, issued.View.ClaimId, false)
	require.NoError(t, err)
	require.NotNil(t, row.RevokedAt)

	_, err = f.svc.Validate(f.ctx, issued.Token, "")
	assert.ErrorIs(t, err, ErrRevoked)

	_, err = f.svc.Revoke(f.ctx, issued.View.ClaimId, "mom")
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestRevoke_AcceptedClaim(t *testing.T) {
	f := newFixture(t)
	f.seedSubject(t, "U1", false)
	f.seedSupporter(t, "U1", "mom", model.PermissionAdmin)
	issued := f.issue(t, "U1")

	_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: issued.Passcode, Credential: "sixchars"})
	require.NoError(t, err)

	_, err = f.svc.Revoke(f.ctx, issued.View.ClaimId, "mom")
	assert.ErrorIs(t, err, ErrAlreadyUsed)
	assert.Equal(t, string(statemachine.ClaimAccepted), f.status(t, issued.View.ClaimId))
}

func TestResend(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.LivePolicy = PolicyReject })
	f.seedSubject(t, "U1", false)
	f.seedSupporter(t, "U1", "sam", model.PermissionEditor)

	original := issueAs(t, f, "U1", "sam")
	f.clock.Advance(time.Hour)

	resent, err := f.svc.Resend(f.ctx, original.View.ClaimId, "sam")
	require.NoError(t, err)
	require.NoError(t, resent.DeliveryError)
	assert.NotEqual(t, original.View.ClaimId, resent.View.ClaimId)
	assert.NotEqual(t, original.Token, resent.Token)
	assert.Equal(t, 2, f.notifier.count())

	inv := f.notifier.last()
	assert.Equal(t, resent.Link, inv.ClaimLink)
	assert.Equal(t, "Coach Sam", inv.IssuerDisplayName)
	assert.Equal(t, "welcome", inv.Message)

	_, err = f.svc.Validate(f.ctx, original.Token, "")
	assert.ErrorIs(t, err, ErrRevoked)
	_, err = f.svc.Validate(f.ctx, resent.Token, "")
	assert.NoError(t, err)

	row, err := f.repos.Claim.GetByClaimId(f.ctx, resent.View.ClaimId, false)
	require.NoError(t, err)
	assert.Equal(t, original.View.ClaimId, row.Metadata[metaReplaces])
	assert.Equal(t, "sam", row.IssuerIdentity)
}

func TestResend_ExpiredAndAccepted(t *testing.T) {
	f := newFixture(t)
	f.seedSubject(t, "U1", false)
	f.seedSupporter(t, "U1", "sam", model.PermissionEditor)

	expired := issueAs(t, f, "U1", "sam")
	f.clock.Advance(8 * 24 * time.Hour)

	resent, err := f.svc.Resend(f.ctx, expired.View.ClaimId, "sam")
	require.NoError(t, err)

	_, err = f.svc.Finalize(f.ctx, FinalizeRequest{Token: resent.Token, Passcode: resent.Passcode, Credential: "sixchars"})
	require.NoError(t, err)

	_, err = f.svc.Resend(f.ctx, resent.View.ClaimId, "sam")
	assert.ErrorIs(t, err, ErrAlreadyUsed)

	_, err = f.svc.Resend(f.ctx, resent.View.ClaimId, "stranger")
	assert.ErrorIs(t, err, ErrForbidden)
}
