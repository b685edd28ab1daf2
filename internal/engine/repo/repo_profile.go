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
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/pkg/database"
)

type IProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	Get(ctx context.Context, identityId string, lock bool) (*model.Profile, error)
	// Activate marks the profile claimed and, when the identity migrated,
	// moves it to the new identity id.
	Activate(ctx context.Context, fromIdentity, toIdentity string, claimedAt time.Time) error
}

type ProfileRepo struct {
	db database.IDatabase
}

func NewProfileRepo(db database.IDatabase) IProfileRepository {
	return &ProfileRepo{db: db}
}

func (pr *ProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	if err := pr.db.Database().WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (pr *ProfileRepo) Get(ctx context.Context, identityId string, lock bool) (*model.Profile, error) {
	var profile model.Profile
	err := forUpdate(pr.db.Database().WithContext(ctx), lock).
		Where("identity_id = ?", identityId).
		First(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", identityId, err)
	}
	return &profile, nil
}

func (pr *ProfileRepo) Activate(ctx context.Context, fromIdentity, toIdentity string, claimedAt time.Time) error {
	res := pr.db.Database().WithContext(ctx).
		Model(&model.Profile{}).
		Where("identity_id = ?", fromIdentity).
		Updates(map[string]any{
			"identity_id":    toIdentity,
			"auth_status":    model.AuthStatusActive,
			"password_set":   true,
			"account_status": model.AccountStatusActive,
			"claimed_at":     claimedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("activate profile %s: %w", fromIdentity, res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("activate profile %s: %w", fromIdentity, ErrNotFound)
	}
	return nil
}
