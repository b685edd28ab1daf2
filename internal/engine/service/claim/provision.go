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
	"strings"
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/pkg/id"
	"github.com/lunabeam/lunabeam/pkg/log"
)

type ProvisionRequest struct {
	IssuerIdentity    string
	IssuerDisplayName string
	Email             string
	DisplayName       string
	Role              string
	Permission        string
	Message           string
	TTL               time.Duration
}

type Provisioned struct {
	IdentityId string `json:"identityId"`
	*Issued
}

// Provision creates a placeholder account for an individual on behalf of a
// supporter, links the supporter to it and issues the first claim. The
// account exists only if the claim was stored.
func (s *Service) Provision(ctx context.Context, req ProvisionRequest) (out *Provisioned, err error) {
	ctx, span := s.startSpan(ctx, "Provision")
	defer func() { endSpan(span, err) }()

	if req.IssuerIdentity == "" {
		return nil, newError(CodeValidation, "issuer is required")
	}
	contact, err := normalizeContact(req.Email)
	if err != nil {
		return nil, err
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, newError(CodeValidation, "display name is required")
	}
	role := req.Role
	if role == "" {
		role = model.SupporterRoleOther
	}
	if !model.ValidRole(role) {
		return nil, newError(CodeValidation, "unknown supporter role %q", role)
	}
	permission := req.Permission
	if permission == "" {
		permission = model.PermissionAdmin
	}
	if model.PermissionRank(permission) == 0 {
		return nil, newError(CodeValidation, "unknown permission %q", permission)
	}

	err = s.repos.Transaction(ctx, func(tx *repo.Repositories) error {
		identityId := id.GetUUIDWithoutDashes()
		if err := tx.Identity.Create(ctx, &model.Identity{
			IdentityId:  identityId,
			Email:       contact,
			Placeholder: true,
			Status:      model.IdentityStatusProvisioned,
		}); err != nil {
			return persistence(err)
		}
		if err := tx.Profile.Create(ctx, &model.Profile{
			IdentityId:    identityId,
			DisplayName:   displayName,
			Email:         contact,
			AuthStatus:    model.AuthStatusUnclaimed,
			AccountStatus: model.AccountStatusProvisioned,
		}); err != nil {
			return persistence(err)
		}
		if err := tx.Supporter.Create(ctx, &model.Supporter{
			IndividualId: identityId,
			SupporterId:  req.IssuerIdentity,
			Role:         role,
			Permission:   permission,
		}); err != nil {
			return persistence(err)
		}

		issued, err := s.issueTx(ctx, tx, IssueRequest{
			SubjectIdentity:   identityId,
			IssuerIdentity:    req.IssuerIdentity,
			IssuerDisplayName: req.IssuerDisplayName,
			InviteeContact:    contact,
			DisplayName:       displayName,
			Message:           req.Message,
			TTL:               req.TTL,
		}, s.cfg.LivePolicy)
		if err != nil {
			return err
		}
		out = &Provisioned{IdentityId: identityId, Issued: issued}
		return nil
	})
	if err != nil {
		return nil, persistence(err)
	}

	s.deliver(ctx, out.Issued)
	log.WithContext(ctx).Infow("individual provisioned",
		"identityId", out.IdentityId,
		"issuer", req.IssuerIdentity,
		"role", role,
		"permission", permission,
	)
	return out, nil
}
