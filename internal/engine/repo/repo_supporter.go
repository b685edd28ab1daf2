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

type ISupporterRepository interface {
	Create(ctx context.Context, s *model.Supporter) error
	Get(ctx context.Context, individualId, supporterId string) (*model.Supporter, error)
	ListByIndividual(ctx context.Context, individualId string) ([]model.Supporter, error)
	// Repoint moves every relationship of one individual to another.
	Repoint(ctx context.Context, fromIndividual, toIndividual string) (int64, error)
}

type SupporterRepo struct {
	db database.IDatabase
}

func NewSupporterRepo(db database.IDatabase) ISupporterRepository {
	return &SupporterRepo{db: db}
}

func (sr *SupporterRepo) Create(ctx context.Context, s *model.Supporter) error {
	if err := sr.db.Database().WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create supporter link: %w", err)
	}
	return nil
}

func (sr *SupporterRepo) Get(ctx context.Context, individualId, supporterId string) (*model.Supporter, error) {
	var s model.Supporter
	err := sr.db.Database().WithContext(ctx).
		Where("individual_id = ? AND supporter_id = ?", individualId, supporterId).
		First(&s).Error
	if err != nil {
		return nil, fmt.Errorf("get supporter %s of %s: %w", supporterId, individualId, err)
	}
	return &s, nil
}

func (sr *SupporterRepo) ListByIndividual(ctx context.Context, individualId string) ([]model.Supporter, error) {
	var list []model.Supporter
	err := sr.db.Database().WithContext(ctx).
		Where("individual_id = ?", individualId).
		Order("id").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list supporters of %s: %w", individualId, err)
	}
	return list, nil
}

func (sr *SupporterRepo) Repoint(ctx context.Context, fromIndividual, toIndividual string) (int64, error) {
	res := sr.db.Database().WithContext(ctx).
		Model(&model.Supporter{}).
		Where("individual_id = ?", fromIndividual).
		Update("individual_id", toIndividual)
	if res.Error != nil {
		return 0, fmt.Errorf("repoint supporters of %s: %w", fromIndividual, res.Error)
	}
	return res.RowsAffected, nil
}
