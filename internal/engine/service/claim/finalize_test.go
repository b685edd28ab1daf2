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
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFinalize(t *testing.T) {
	f := newFixture(t)
	f.seedSubject(t, "U1", false)
	issued := f.issue(t, "U1")

	_, err := f.svc.Validate(f.ctx, issued.Token, "")
	require.NoError(t, err)

	out, err := f.svc.Finalize(f.ctx, FinalizeRequest{
		Token:      issued.Token,
		Passcode:   strings.ToLower(issued.Passcode),
		Credential: "sixchars",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", out.DisplayName)
	assert.Equal(t, "alice@example.com", out.Contact)
	assert.Equal(t, "U1", out.IdentityId)

	profile, err := f.repos.Profile.Get(f.ctx, "U1", false)
	require.NoError(t, err)
	assert.Equal(t, model.AuthStatusActive, profile.AuthStatus)
	assert.Equal(t, model.AccountStatusActive, profile.AccountStatus)
	assert.True(t, profile.PasswordSet)
	require.NotNil(t, profile.ClaimedAt)

	identity, err := f.repos.Identity.Get(f.ctx, "U1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte("sixchars")))

	row, err := f.repos.Claim.GetByClaimId(f.ctx, issued.View.ClaimId, false)
	require.NoError(t, err)
	assert.Equal(t, string(statemachine.ClaimAccepted), row.Status)
	require.NotNil(t, row.ClaimedAt)
	assert.True(t, row.ClaimedAt.Equal(baseTime))
	assert.Equal(t, "U1", row.ClaimedIdentity)

	_, err = f.svc.Validate(f.ctx, issued.Token, "")
	assert.ErrorIs(t, err, ErrAlreadyUsed)

	_, err = f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: issued.Passcode, Credential: "another1"})
	assert.ErrorIs(t, err, ErrInvalidClaim)
	assert.ErrorIs(t, err, ErrAlreadyUsed)
}

func TestFinalize_WrongPasscodeLeavesClaimUsable(t *testing.T) {
	f := newFixture(t)
	f.seedSubject(t, "U1", false)
	f.seedSupporter(t, "U1", "mom", model.PermissionAdmin)
	issued := f.issue(t, "U1")

	_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: "WRONG1", Credential: "sixchars"})
	assert.ErrorIs(t, err, ErrInvalidClaim)
	assert.ErrorIs(t, err, ErrPasscodeMismatch)

	_, err = f.svc.Validate(f.ctx, issued.Token, "")
	assert.NoError(t, err)

	identity, err := f.repos.Identity.Get(f.ctx, "U1")
	require.NoError(t, err)
	assert.Empty(t, identity.PasswordHash)

	profile, err := f.repos.Profile.Get(f.ctx, "U1", false)
	require.NoError(t, err)
	assert.Equal(t, model.AuthStatusUnclaimed, profile.AuthStatus)
	assert.Equal(t, model.AccountStatusProvisioned, profile.AccountStatus)
	assert.False(t, profile.PasswordSet)
	assert.Nil(t, profile.ClaimedAt)

	row, err := f.repos.Claim.GetByClaimId(f.ctx, issued.View.ClaimId, false)
	require.NoError(t, err)
	assert.Equal(t, string(statemachine.ClaimPending), row.Status)
	assert.Nil(t, row.ClaimedAt)
	assert.Empty(t, row.ClaimedIdentity)

	supporters, err := f.repos.Supporter.ListByIndividual(f.ctx, "U1")
	require.NoError(t, err)
	require.Len(t, supporters, 1)
	assert.Equal(t, "mom", supporters[0].SupporterId)

	_, err = f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: issued.Passcode, Credential: "sixchars"})
	assert.NoError(t, err)
}

func TestFinalize_CredentialPolicyFirst(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.MinCredentialLength = 8 })
	f.seedSubject(t, "U1", false)
	issued := f.issue(t, "U1")

	for _, cred := range []string{"short", "        ", strings.Repeat("x", 73)} {
		_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: issued.Passcode, Credential: cred})
		requireCode(t, err, CodeCredentialPolicy)
	}
	// a bad credential is reported even for a token that does not exist
	_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: "nope", Passcode: "X", Credential: "short"})
	requireCode(t, err, CodeCredentialPolicy)

	assert.Equal(t, string(statemachine.ClaimPending), f.status(t, issued.View.ClaimId))
}

func TestFinalize_InvalidClaimReasons(t *testing.T) {
	f := newFixture(t)
	f.seedSubject(t, "U1", false)
	f.seedSubject(t, "U2", false)

	_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: "missing", Passcode: "AAAAAA", Credential: "sixchars"})
	assert.ErrorIs(t, err, ErrInvalidClaim)
	assert.Equal(t, CodeNotFound, ReasonOf(err))

	revoked := f.issue(t, "U1")
	f.issue(t, "U1")
	_, err = f.svc.Finalize(f.ctx, FinalizeRequest{Token: revoked.Token, Passcode: revoked.Passcode, Credential: "sixchars"})
	assert.Equal(t, CodeRevoked, ReasonOf(err))

	expiring := f.issue(t, "U2")
	f.clock.Advance(24 * time.Hour)
	_, err = f.svc.Finalize(f.ctx, FinalizeRequest{Token: expiring.Token, Passcode: expiring.Passcode, Credential: "sixchars"})
	assert.ErrorIs(t, err, ErrInvalidClaim)
	assert.Equal(t, CodeExpired, ReasonOf(err))
}

func TestFinalize_Throttle(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.MaxPasscodeAttempts = 2 })
	f.seedSubject(t, "U1", false)
	issued := f.issue(t, "U1")

	for range 2 {
		_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: "WRONG1", Credential: "sixchars"})
		assert.ErrorIs(t, err, ErrPasscodeMismatch)
	}
	_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: issued.Passcode, Credential: "sixchars"})
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Equal(t, string(statemachine.ClaimPending), f.status(t, issued.View.ClaimId))
}

func TestFinalize_ThrottleIgnoresTokenPadding(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.MaxPasscodeAttempts = 2 })
	f.seedSubject(t, "U1", false)
	issued := f.issue(t, "U1")

	_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: "WRONG1", Credential: "sixchars"})
	assert.ErrorIs(t, err, ErrPasscodeMismatch)
	_, err = f.svc.Finalize(f.ctx, FinalizeRequest{Token: " " + issued.Token + "\t", Passcode: "WRONG1", Credential: "sixchars"})
	assert.ErrorIs(t, err, ErrPasscodeMismatch)

	for i := 1; i <= 5; i++ {
		padded := issued.Token + strings.Repeat(" ", i)
		_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: padded, Passcode: "WRONG1", Credential: "sixchars"})
		assert.ErrorIs(t, err, ErrTooManyAttempts)
	}
	_, err = f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token + "     ", Passcode: issued.Passcode, Credential: "sixchars"})
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Equal(t, string(statemachine.ClaimPending), f.status(t, issued.View.ClaimId))
}

func TestFinalize_ThrottleConcurrentGuesses(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.MaxPasscodeAttempts = 2 })
	f.seedSubject(t, "U1", false)
	issued := f.issue(t, "U1")

	const guesses = 6
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		mismatched int
		throttled  int
	)
	for range guesses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: "WRONG1", Credential: "sixchars"})
			mu.Lock()
			defer mu.Unlock()
			switch ReasonOf(err) {
			case CodePasscodeMismatch:
				mismatched++
			case CodeTooManyAttempts:
				throttled++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, mismatched)
	assert.Equal(t, guesses-2, throttled)

	_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: issued.Passcode, Credential: "sixchars"})
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestFinalize_UnknownTokenDoesNotUseAttempts(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.MaxPasscodeAttempts = 1 })

	for range 3 {
		_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: "missing", Passcode: "AAAAAA", Credential: "sixchars"})
		assert.Equal(t, CodeNotFound, ReasonOf(err))
	}
}

func TestFinalize_ConcurrentAttemptsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	f.seedSubject(t, "U1", true)
	f.seedSupporter(t, "U1", "parent", model.PermissionAdmin)
	issued := f.issue(t, "U1")

	const attempts = 4
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
		losers  []error
	)
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := f.svc.Finalize(f.ctx, FinalizeRequest{
				Token:      issued.Token,
				Passcode:   issued.Passcode,
				Credential: "sixchars" + strings.Repeat("!", i),
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				losers = append(losers, err)
				return
			}
			winners = append(winners, out.IdentityId)
		}(i)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	require.Len(t, losers, attempts-1)
	for _, err := range losers {
		assert.ErrorIs(t, err, ErrAlreadyUsed)
	}

	// exactly one identity replaced the placeholder
	list, err := f.repos.Supporter.ListByIndividual(f.ctx, winners[0])
	require.NoError(t, err)
	assert.Len(t, list, 1)
	placeholder, err := f.repos.Identity.Get(f.ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, winners[0], placeholder.MergedInto)
}

func TestFinalize_PlaceholderMigration(t *testing.T) {
	f := newFixture(t)
	f.seedSubject(t, "U1", true)
	f.seedSupporter(t, "U1", "mom", model.PermissionAdmin)
	f.seedSupporter(t, "U1", "coach", model.PermissionViewer)
	issued := f.issue(t, "U1")

	out, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: issued.Passcode, Credential: "sixchars"})
	require.NoError(t, err)
	require.NotEqual(t, "U1", out.IdentityId)

	fresh, err := f.repos.Identity.Get(f.ctx, out.IdentityId)
	require.NoError(t, err)
	assert.False(t, fresh.Placeholder)
	assert.Equal(t, model.IdentityStatusActive, fresh.Status)
	assert.Equal(t, "alice@example.com", fresh.Email)

	old, err := f.repos.Identity.Get(f.ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, model.IdentityStatusMerged, old.Status)
	assert.Empty(t, old.PasswordHash)

	profile, err := f.repos.Profile.Get(f.ctx, out.IdentityId, false)
	require.NoError(t, err)
	assert.Equal(t, model.AuthStatusActive, profile.AuthStatus)

	supporters, err := f.repos.Supporter.ListByIndividual(f.ctx, out.IdentityId)
	require.NoError(t, err)
	assert.Len(t, supporters, 2)
	left, err := f.repos.Supporter.ListByIndividual(f.ctx, "U1")
	require.NoError(t, err)
	assert.Empty(t, left)

	row, err := f.repos.Claim.GetByClaimId(f.ctx, issued.View.ClaimId, false)
	require.NoError(t, err)
	assert.Equal(t, "U1", row.SubjectIdentity)
	assert.Equal(t, out.IdentityId, row.ClaimedIdentity)
}

func TestFinalize_RollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	f.seedSubject(t, "U1", false)
	issued := f.issue(t, "U1")

	// the profile disappears between issue and finalize
	require.NoError(t, f.repos.Profile.Activate(f.ctx, "U1", "elsewhere", baseTime))

	_, err := f.svc.Finalize(f.ctx, FinalizeRequest{Token: issued.Token, Passcode: issued.Passcode, Credential: "sixchars"})
	assert.ErrorIs(t, err, ErrPersistence)

	assert.Equal(t, string(statemachine.ClaimPending), f.status(t, issued.View.ClaimId))
	identity, err := f.repos.Identity.Get(f.ctx, "U1")
	require.NoError(t, err)
	assert.Empty(t, identity.PasswordHash)
}
