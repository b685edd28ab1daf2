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

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/pkg/statemachine"
)

// List returns the claims of a subject, newest first, for an actor that is
// the subject or an editor supporter of it.
func (s *Service) List(ctx context.Context, subject, actor string) ([]View, error) {
	if err := s.authorize(ctx, s.repos, subject, actor, model.PermissionEditor); err != nil {
		return nil, err
	}
	rows, err := s.repos.Claim.ListBySubject(ctx, subject, s.cfg.ListLimit)
	if err != nil {
		return nil, persistence(err)
	}
	now := s.now()
	views := make([]View, 0, len(rows))
	for i := range rows {
		c, err := fromModel(&rows[i])
		if err != nil {
			return nil, err
		}
		v := c.View()
		if v.Status == statemachine.ClaimPending && !c.Usable(now) {
			v.Status = statemachine.ClaimExpired
		}
		views = append(views, v)
	}
	return views, nil
}
