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

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/pkg/database"
)

type IIdentityRepository interface {
	Create(ctx context.Context, identity *model.Identity) error
	Get(ctx context.Context, identityId string) (*model.Identity, error)
	// SetPassword stores the hash and activates the identity.
	SetPassword(ctx context.Context, identityId, passwordHash string) error
	MarkMerged(ctx context.Context, identityId, into string) error
}

type IdentityRepo struct {
	db database.IDatabase
}

func NewIdentityRepo(db database.IDatabase) IIdentityRepository {
	return &IdentityRepo{db: db}
}

func (ir *IdentityRepo) Create(ctx context.Context, identity *model.Identity) error {
	if err := ir.db.Database().WithContext(ctx).Create(identity).Error; err != nil {
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}

func (ir *IdentityRepo) Get(ctx context.Context, identityId string) (*model.Identity, error) {
	var identity model.Identity
	if err := ir.db.Database().WithContext(ctx).Where("identity_id = ?", identityId).First(&identity).Error; err != nil {
		return nil, fmt.Errorf("get identity %s: %w", identityId, err)
	}
	return &identity, nil
}

func (ir *IdentityRepo) SetPassword(ctx context.Context, identityId, passwordHash string) error {
	res := ir.db.Database().WithContext(ctx).
		Model(&model.Identity{}).
		Where("identity_id = ? AND status <> ?", identityId, model.IdentityStatusMerged).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"placeholder":   false,
			"status":        model.IdentityStatusActive,
		})
	if res.Error != nil {
		return fmt.Errorf("set password of %s: %w", identityId, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("set password of %s: %w", identityId, ErrNotFound)
	}
	return nil
}

func (ir *IdentityRepo) MarkMerged(ctx context.Context, identityId, into string) error {
	res := ir.db.Database().WithContext(ctx).
		Model(&model.Identity{}).
		Where("identity_id = ? AND placeholder = ?", identityId, true).
		Updates(map[string]any{
			"merged_into": into,
			"status":      model.IdentityStatusMerged,
		})
	if res.Error != nil {
		return fmt.Errorf("merge identity %s: %w", identityId, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("merge identity %s: %w", identityId, ErrNotFound)
	}
	return nil
}
