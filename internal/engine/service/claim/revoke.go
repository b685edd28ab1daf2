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
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/pkg/log"
	"github.com/lunabeam/lunabeam/pkg/metrics"
	"github.com/lunabeam/lunabeam/pkg/statemachine"
)

// Revoke invalidates a pending claim early. Only its issuer or an admin
// supporter of the subject may do so.
func (s *Service) Revoke(ctx context.Context, claimId, actor string) (view *View, err error) {
	ctx, span := s.startSpan(ctx, "Revoke")
	defer func() { endSpan(span, err) }()

	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		c, err := s.loadManaged(ctx, tx, claimId, actor)
		if err != nil {
			return err
		}
		now := s.now()
		if err := s.revokeTx(ctx, tx, c, now); err != nil {
			return err
		}
		c.Status = statemachine.ClaimRevoked
		c.RevokedAt = &now
		v := c.View()
		view = &v
		return nil
	})
	if err != nil {
		return nil, persistence(err)
	}
	metrics.RecordClaimsRevoked(1)
	log.WithContext(ctx).Infow("claim revoked", "claimId", claimId, "actor", actor)
	return view, nil
}

// Resend replaces a claim with a fresh one for the same invitee and delivers
// it. The link token is only stored hashed, so the old link cannot be sent
// again; a pending original is revoked whatever the live-claim policy.
func (s *Service) Resend(ctx context.Context, claimId, actor string) (issued *Issued, err error) {
	ctx, span := s.startSpan(ctx, "Resend")
	defer func() { endSpan(span, err) }()

	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		c, err := s.loadManaged(ctx, tx, claimId, actor)
		if err != nil {
			return err
		}
		if c.Status == statemachine.ClaimAccepted {
			return newError(CodeAlreadyUsed, "claim %s was already used", c.ClaimId)
		}
		if c.Status == statemachine.ClaimPending {
			if err := s.revokeTx(ctx, tx, c, s.now()); err != nil && CodeOf(err) != CodeExpired {
				return err
			}
		}

		issuer := c.IssuerIdentity
		if issuer == "" {
			issuer = actor
		}
		var txErr error
		issued, txErr = s.issueTx(ctx, tx, IssueRequest{
			SubjectIdentity:   c.SubjectIdentity,
			IssuerIdentity:    issuer,
			IssuerDisplayName: c.meta(metaIssuerDisplayName),
			InviteeContact:    c.InviteeContact,
			DisplayName:       c.DisplayName,
			Message:           c.Message,
		}, PolicyRevoke)
		if txErr != nil {
			return txErr
		}
		return tx.Claim.MergeMetadata(ctx, issued.View.ClaimId, map[string]any{metaReplaces: c.ClaimId})
	})
	if err != nil {
		return nil, persistence(err)
	}

	s.deliver(ctx, issued)
	log.WithContext(ctx).Infow("claim resent", "claimId", claimId, "newClaimId", issued.View.ClaimId, "actor", actor)
	return issued, nil
}

// loadManaged locks a claim and checks that actor is its issuer or an admin
// supporter of its subject.
func (s *Service) loadManaged(ctx context.Context, tx *repo.Repositories, claimId, actor string) (*Claim, error) {
	row, err := tx.Claim.GetByClaimId(ctx, claimId, true)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, newError(CodeNotFound, "claim %s does not exist", claimId)
		}
		return nil, persistence(err)
	}
	c, err := fromModel(row)
	if err != nil {
		return nil, err
	}
	if actor != "" && actor == c.IssuerIdentity {
		return c, nil
	}
	if err := s.authorize(ctx, tx, c.SubjectIdentity, actor, model.PermissionAdmin); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) revokeTx(ctx context.Context, tx *repo.Repositories, c *Claim, now time.Time) error {
	if err := c.check(now); err != nil {
		return err
	}
	to, err := statemachine.NewClaimStateMachine(c.Status).Fire(statemachine.EventRevoke)
	if err != nil {
		return newError(CodeValidation, "claim %s cannot be revoked from %s", c.ClaimId, c.Status)
	}
	ok, err := tx.Claim.Transition(ctx, c.ClaimId, c.Status, to, map[string]any{"revoked_at": now})
	if err != nil {
		return persistence(err)
	}
	if !ok {
		row, err := tx.Claim.GetByClaimId(ctx, c.ClaimId, false)
		if err != nil {
			return persistence(err)
		}
		if current, err := fromModel(row); err == nil {
			if err := current.check(now); err != nil {
				return err
			}
		}
		return newError(CodePersistence, "claim %s changed concurrently", c.ClaimId)
	}
	return nil
}
