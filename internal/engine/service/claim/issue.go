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
	"net/url"
	"strings"
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/pkg/id"
	"github.com/lunabeam/lunabeam/pkg/log"
	"github.com/lunabeam/lunabeam/pkg/metrics"
	"github.com/lunabeam/lunabeam/pkg/statemachine"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type IssueRequest struct {
	SubjectIdentity string
	// IssuerIdentity is empty for a self-serve claim.
	IssuerIdentity    string
	IssuerDisplayName string
	InviteeContact    string
	// DisplayName defaults to the subject's profile name.
	DisplayName string
	Message     string
	// TTL defaults to the configured claim lifetime.
	TTL time.Duration
}

// Issued is returned once per claim. Token and Passcode are not stored in
// clear anywhere and cannot be recovered later.
type Issued struct {
	View     View   `json:"claim"`
	Token    string `json:"token"`
	Passcode string `json:"passcode"`
	Link     string `json:"link"`
	// DeliveryError is set when the claim was stored but the invitation
	// could not be sent.
	DeliveryError error `json:"-"`

	claim *Claim
}

// Issue creates a claim for an existing subject and sends the invitation.
// An issuer other than the subject must be an editor or admin supporter.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (issued *Issued, err error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("claim.subject", req.SubjectIdentity))

	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		if req.IssuerIdentity != "" && req.IssuerIdentity != req.SubjectIdentity {
			if err := s.authorize(ctx, tx, req.SubjectIdentity, req.IssuerIdentity, model.PermissionEditor); err != nil {
				return err
			}
		}
		var txErr error
		issued, txErr = s.issueTx(ctx, tx, req, s.cfg.LivePolicy)
		return txErr
	})
	if err != nil {
		return nil, persistence(err)
	}

	s.deliver(ctx, issued)
	return issued, nil
}

// issueTx stores a new pending claim. It locks the subject's profile row so
// concurrent issues for one subject run one after another.
func (s *Service) issueTx(ctx context.Context, tx *repo.Repositories, req IssueRequest, policy string) (*Issued, error) {
	contact, err := normalizeContact(req.InviteeContact)
	if err != nil {
		return nil, err
	}
	ttl := req.TTL
	if ttl == 0 {
		ttl = s.cfg.ttl
	}
	if ttl < 0 {
		return nil, newError(CodeValidation, "ttl must be positive")
	}

	profile, err := tx.Profile.Get(ctx, req.SubjectIdentity, true)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, newError(CodeNotFound, "subject %s does not exist", req.SubjectIdentity)
		}
		return nil, persistence(err)
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = profile.DisplayName
	}

	now := s.now()
	live, err := tx.Claim.ListLive(ctx, req.SubjectIdentity, now)
	if err != nil {
		return nil, persistence(err)
	}
	if len(live) > 0 {
		if policy == PolicyReject {
			return nil, newError(CodeDuplicateIdentity, "subject %s already has a live claim", req.SubjectIdentity)
		}
		n, err := tx.Claim.RevokeLive(ctx, req.SubjectIdentity, now)
		if err != nil {
			return nil, persistence(err)
		}
		metrics.RecordClaimsRevoked(n)
		log.WithContext(ctx).Infow("revoked live claims before reissue", "subject", req.SubjectIdentity, "count", n)
	}

	token, err := newToken()
	if err != nil {
		return nil, persistence(fmt.Errorf("generate token: %w", err))
	}
	passcode, err := newPasscode()
	if err != nil {
		return nil, persistence(fmt.Errorf("generate passcode: %w", err))
	}
	passcodeHash, err := bcrypt.GenerateFromPassword([]byte(passcode), s.cfg.PasscodeCost)
	if err != nil {
		return nil, persistence(fmt.Errorf("hash passcode: %w", err))
	}
	link, err := buildLink(s.cfg.LinkBaseURL, token)
	if err != nil {
		return nil, persistence(err)
	}

	meta := datatypes.JSONMap{}
	if req.IssuerDisplayName != "" {
		meta[metaIssuerDisplayName] = req.IssuerDisplayName
	}
	row := &model.Claim{
		ClaimId:         id.GetUlidAt(now),
		TokenHash:       hashToken(token),
		PasscodeHash:    string(passcodeHash),
		SubjectIdentity: req.SubjectIdentity,
		IssuerIdentity:  req.IssuerIdentity,
		InviteeContact:  contact,
		DisplayName:     displayName,
		Message:         strings.TrimSpace(req.Message),
		Metadata:        meta,
		Status:          string(statemachine.ClaimPending),
		IssuedAt:        now,
		ExpiresAt:       now.Add(ttl),
	}
	if err := tx.Claim.Create(ctx, row); err != nil {
		return nil, persistence(err)
	}

	c, err := fromModel(row)
	if err != nil {
		return nil, err
	}
	log.WithContext(ctx).Infow("claim issued",
		"claimId", c.ClaimId,
		"subject", c.SubjectIdentity,
		"issuer", c.IssuerIdentity,
		"expiresAt", c.ExpiresAt,
	)
	return &Issued{View: c.View(), Token: token, Passcode: passcode, Link: link, claim: c}, nil
}

// deliver sends the invitation of a committed claim and records the outcome
// in its metadata. A failure is reported on issued, never returned.
func (s *Service) deliver(ctx context.Context, issued *Issued) {
	c := issued.claim
	inv := Invitation{
		ClaimId:            c.ClaimId,
		Contact:            c.InviteeContact,
		SubjectDisplayName: c.DisplayName,
		IssuerDisplayName:  c.meta(metaIssuerDisplayName),
		ClaimLink:          issued.Link,
		Message:            c.Message,
		ExpiresAt:          c.ExpiresAt,
	}

	var sendErr error
	if s.notifier == nil {
		sendErr = fmt.Errorf("no notifier configured")
	} else {
		sendErr = s.notifier.Send(ctx, inv)
	}

	meta := map[string]any{
		metaDeliveryStatus: deliverySent,
		metaDeliveredAt:    s.now().Format(time.RFC3339),
	}
	if sendErr != nil {
		meta[metaDeliveryStatus] = deliveryFailed
		meta[metaDeliveryError] = sendErr.Error()
		issued.DeliveryError = &Error{Code: CodeDelivery, Message: "invitation not delivered", Cause: sendErr}
		log.WithContext(ctx).Warnw("claim invitation delivery failed", "claimId", inv.ClaimId, "error", sendErr)
	}
	if err := s.repos.Claim.MergeMetadata(ctx, inv.ClaimId, meta); err != nil {
		log.WithContext(ctx).Errorw("record claim delivery failed", "claimId", inv.ClaimId, "error", err)
	}
	issued.View.DeliveryStatus = meta[metaDeliveryStatus].(string)
	metrics.RecordClaimIssued(sendErr == nil)
}

func buildLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse claim link base %q: %w", base, err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// authorize requires actor to be the subject or a supporter of it with at
// least the given permission tier.
func (s *Service) authorize(ctx context.Context, tx *repo.Repositories, subject, actor, minPermission string) error {
	if actor == "" {
		return newError(CodeForbidden, "actor is required")
	}
	if actor == subject {
		return nil
	}
	sup, err := tx.Supporter.Get(ctx, subject, actor)
	if err != nil {
		if repo.IsNotFound(err) {
			return newError(CodeForbidden, "%s is not a supporter of %s", actor, subject)
		}
		return persistence(err)
	}
	if model.PermissionRank(sup.Permission) < model.PermissionRank(minPermission) {
		return newError(CodeForbidden, "%s needs %s permission on %s", actor, minPermission, subject)
	}
	return nil
}

// CanManage reports whether actor may issue claims for subject.
func (s *Service) CanManage(ctx context.Context, subject, actor string) (bool, error) {
	err := s.authorize(ctx, s.repos, subject, actor, model.PermissionEditor)
	if err == nil {
		return true, nil
	}
	if CodeOf(err) == CodeForbidden {
		return false, nil
	}
	return false, err
}
