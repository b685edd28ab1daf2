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
	"strings"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/pkg/id"
	"github.com/lunabeam/lunabeam/pkg/log"
	"github.com/lunabeam/lunabeam/pkg/metrics"
	"github.com/lunabeam/lunabeam/pkg/statemachine"
	"golang.org/x/crypto/bcrypt"
)

type FinalizeRequest struct {
	Token      string
	Passcode   string
	Credential string
}

type Finalized struct {
	ClaimId     string `json:"claimId"`
	DisplayName string `json:"displayName"`
	Contact     string `json:"email"`
	IdentityId  string `json:"identityId"`
}

// Finalize accepts a claim and binds the credential to its subject in one
// transaction. Nothing is written unless every step succeeds.
func (s *Service) Finalize(ctx context.Context, req FinalizeRequest) (out *Finalized, err error) {
	ctx, span := s.startSpan(ctx, "Finalize")
	defer func() {
		metrics.RecordClaimFinalization(resultLabel(err))
		endSpan(span, err)
	}()

	if err := s.checkCredential(req.Credential); err != nil {
		return nil, err
	}
	// lookup trims too; the attempt counter must key on the same token
	token := strings.TrimSpace(req.Token)
	tokenHash := hashToken(token)
	attempt, allowed := s.throttle.reserve(ctx, tokenHash)
	if !allowed {
		return nil, &Error{Code: CodeInvalidClaim, Reason: CodeTooManyAttempts, Message: "too many passcode attempts"}
	}

	mismatch := false
	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		c, err := s.lookup(ctx, tx, token, true)
		if err != nil {
			return invalid(err)
		}
		now := s.now()
		if err := c.check(now); err != nil {
			return invalid(err)
		}
		if bcrypt.CompareHashAndPassword([]byte(c.passcodeHash), []byte(normalizePasscode(req.Passcode))) != nil {
			mismatch = true
			return &Error{Code: CodeInvalidClaim, Reason: CodePasscodeMismatch, Message: "passcode does not match"}
		}

		to, err := statemachine.NewClaimStateMachine(c.Status).Fire(statemachine.EventAccept)
		if err != nil {
			return invalid(c.check(now))
		}
		ok, err := tx.Claim.Transition(ctx, c.ClaimId, c.Status, to, map[string]any{"claimed_at": now})
		if err != nil {
			return persistence(err)
		}
		if !ok {
			return &Error{Code: CodeInvalidClaim, Reason: CodeAlreadyUsed, Message: fmt.Sprintf("claim %s was already used", c.ClaimId)}
		}

		identityId, err := s.bindCredential(ctx, tx, c, req.Credential)
		if err != nil {
			return err
		}
		if err := tx.Claim.SetClaimedIdentity(ctx, c.ClaimId, identityId); err != nil {
			return persistence(err)
		}
		if err := tx.Profile.Activate(ctx, c.SubjectIdentity, identityId, now); err != nil {
			return persistence(err)
		}
		if identityId != c.SubjectIdentity {
			if _, err := tx.Supporter.Repoint(ctx, c.SubjectIdentity, identityId); err != nil {
				return persistence(err)
			}
		}

		out = &Finalized{
			ClaimId:     c.ClaimId,
			DisplayName: c.DisplayName,
			Contact:     c.InviteeContact,
			IdentityId:  identityId,
		}
		return nil
	})

	switch {
	case mismatch:
		if attempt > 0 && attempt >= int64(s.cfg.MaxPasscodeAttempts) {
			log.WithContext(ctx).Warnw("claim passcode attempts exhausted", "attempts", attempt)
		}
		return nil, persistence(err)
	case err != nil:
		s.throttle.release(ctx, tokenHash, attempt)
		return nil, persistence(err)
	}

	s.throttle.reset(ctx, tokenHash)
	log.WithContext(ctx).Infow("claim finalized", "claimId", out.ClaimId, "identityId", out.IdentityId)
	return out, nil
}

// bindCredential stores the credential for the claim's subject. A placeholder
// subject is replaced by a fresh identity and marked merged into it; the id
// that now owns the account is returned.
func (s *Service) bindCredential(ctx context.Context, tx *repo.Repositories, c *Claim, credential string) (string, error) {
	subject, err := tx.Identity.Get(ctx, c.SubjectIdentity)
	if err != nil {
		return "", persistence(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), s.cfg.CredentialCost)
	if err != nil {
		return "", persistence(fmt.Errorf("hash credential: %w", err))
	}

	if !subject.Placeholder {
		if err := tx.Identity.SetPassword(ctx, subject.IdentityId, string(hash)); err != nil {
			return "", persistence(err)
		}
		return subject.IdentityId, nil
	}

	email := subject.Email
	if email == "" {
		email = c.InviteeContact
	}
	identityId := id.GetUUIDWithoutDashes()
	if err := tx.Identity.Create(ctx, &model.Identity{
		IdentityId:   identityId,
		Email:        email,
		PasswordHash: string(hash),
		Status:       model.IdentityStatusActive,
	}); err != nil {
		return "", persistence(err)
	}
	if err := tx.Identity.MarkMerged(ctx, subject.IdentityId, identityId); err != nil {
		return "", persistence(err)
	}
	return identityId, nil
}
