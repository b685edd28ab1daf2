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

package repo

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/pkg/database"
	"github.com/lunabeam/lunabeam/pkg/statemachine"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IClaimRepository interface {
	Create(ctx context.Context, c *model.Claim) error
	GetByTokenHash(ctx context.Context, tokenHash string, lock bool) (*model.Claim, error)
	GetByClaimId(ctx context.Context, claimId string, lock bool) (*model.Claim, error)
	ListBySubject(ctx context.Context, subject string, limit int) ([]model.Claim, error)
	ListLive(ctx context.Context, subject string, now time.Time) ([]model.Claim, error)
	// Transition moves a claim from one status to another, setting the
	// extra columns in the same statement. It reports false when the claim
	// was no longer in the from status.
	Transition(ctx context.Context, claimId string, from, to statemachine.ClaimStatus, fields map[string]any) (bool, error)
	RevokeLive(ctx context.Context, subject string, now time.Time) (int64, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	SetClaimedIdentity(ctx context.Context, claimId, identityId string) error
	MergeMetadata(ctx context.Context, claimId string, patch map[string]any) error
}

type ClaimRepo struct {
	db database.IDatabase
}

func NewClaimRepo(db database.IDatabase) IClaimRepository {
	return &ClaimRepo{db: db}
}

func (cr *ClaimRepo) Create(ctx context.Context, c *model.Claim) error {
	if err := cr.db.Database().WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

func (cr *ClaimRepo) GetByTokenHash(ctx context.Context, tokenHash string, lock bool) (*model.Claim, error) {
	var c model.Claim
	err := forUpdate(cr.db.Database().WithContext(ctx), lock).
		Where("token_hash = ?", tokenHash).
		First(&c).Error
	if err != nil {
		return nil, fmt.Errorf("get claim by token: %w", err)
	}
	return &c, nil
}

func (cr *ClaimRepo) GetByClaimId(ctx context.Context, claimId string, lock bool) (*model.Claim, error) {
	var c model.Claim
	err := forUpdate(cr.db.Database().WithContext(ctx), lock).
		Where("claim_id = ?", claimId).
		First(&c).Error
	if err != nil {
		return nil, fmt.Errorf("get claim %s: %w", claimId, err)
	}
	return &c, nil
}

func (cr *ClaimRepo) ListBySubject(ctx context.Context, subject string, limit int) ([]model.Claim, error) {
	var claims []model.Claim
	q := cr.db.Database().WithContext(ctx).
		Where("subject_identity = ?", subject).
		Order("issued_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&claims).Error; err != nil {
		return nil, fmt.Errorf("list claims of %s: %w", subject, err)
	}
	return claims, nil
}

func (cr *ClaimRepo) ListLive(ctx context.Context, subject string, now time.Time) ([]model.Claim, error) {
	var claims []model.Claim
	err := cr.db.Database().WithContext(ctx).
		Where("subject_identity = ? AND status = ? AND expires_at > ?", subject, statemachine.ClaimPending, now).
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("list live claims of %s: %w", subject, err)
	}
	return claims, nil
}

func (cr *ClaimRepo) Transition(ctx context.Context, claimId string, from, to statemachine.ClaimStatus, fields map[string]any) (bool, error) {
	updates := make(map[string]any, len(fields)+1)
	maps.Copy(updates, fields)
	updates["status"] = string(to)

	res := cr.db.Database().WithContext(ctx).
		Model(&model.Claim{}).
		Where("claim_id = ? AND status = ?", claimId, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("transition claim %s %s→%s: %w", claimId, from, to, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (cr *ClaimRepo) RevokeLive(ctx context.Context, subject string, now time.Time) (int64, error) {
	res := cr.db.Database().WithContext(ctx).
		Model(&model.Claim{}).
		Where("subject_identity = ? AND status = ? AND expires_at > ?", subject, statemachine.ClaimPending, now).
		Updates(map[string]any{
			"status":     string(statemachine.ClaimRevoked),
			"revoked_at": now,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("revoke live claims of %s: %w", subject, res.Error)
	}
	return res.RowsAffected, nil
}

func (cr *ClaimRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := cr.db.Database().WithContext(ctx).
		Model(&model.Claim{}).
		Where("status = ? AND expires_at <= ?", statemachine.ClaimPending, now).
		Update("status", string(statemachine.ClaimExpired))
	if res.Error != nil {
		return 0, fmt.Errorf("expire overdue claims: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (cr *ClaimRepo) SetClaimedIdentity(ctx context.Context, claimId, identityId string) error {
	res := cr.db.Database().WithContext(ctx).
		Model(&model.Claim{}).
		Where("claim_id = ?", claimId).
		Update("claimed_identity", identityId)
	if res.Error != nil {
		return fmt.Errorf("set claimed identity of %s: %w", claimId, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("set claimed identity of %s: %w", claimId, ErrNotFound)
	}
	return nil
}

func (cr *ClaimRepo) MergeMetadata(ctx context.Context, claimId string, patch map[string]any) error {
	return cr.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Claim
		if err := forUpdate(tx, true).Select("id", "metadata").Where("claim_id = ?", claimId).First(&c).Error; err != nil {
			return fmt.Errorf("load metadata of %s: %w", claimId, err)
		}
		merged := datatypes.JSONMap{}
		maps.Copy(merged, c.Metadata)
		maps.Copy(merged, patch)
		if err := tx.Model(&model.Claim{}).Where("id = ?", c.ID).Update("metadata", merged).Error; err != nil {
			return fmt.Errorf("update metadata of %s: %w", claimId, err)
		}
		return nil
	})
}
