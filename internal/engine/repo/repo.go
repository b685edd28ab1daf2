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
	"errors"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned, possibly wrapped, when a lookup matches no row.
var ErrNotFound = gorm.ErrRecordNotFound

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Repositories groups every repository over one database handle.
type Repositories struct {
	db        database.IDatabase
	Claim     IClaimRepository
	Identity  IIdentityRepository
	Profile   IProfileRepository
	Supporter ISupporterRepository
}

func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		db:        db,
		Claim:     NewClaimRepo(db),
		Identity:  NewIdentityRepo(db),
		Profile:   NewProfileRepo(db),
		Supporter: NewSupporterRepo(db),
	}
}

// Transaction runs fn with repositories bound to a single database
// transaction. Returning an error from fn rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(database.NewGormDB(tx)))
	})
}

// Migrate creates or updates the tables of every model.
func (r *Repositories) Migrate(ctx context.Context) error {
	return r.db.Database().WithContext(ctx).AutoMigrate(model.All()...)
}

func forUpdate(db *gorm.DB, lock bool) *gorm.DB {
	if !lock {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
