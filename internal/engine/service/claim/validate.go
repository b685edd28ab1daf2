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

	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/pkg/metrics"
)

// Validate looks a link token up without changing anything. When contact is
// given it must match the invitee, otherwise the claim is reported missing.
// The returned error is NotFound, Expired, AlreadyUsed, Revoked or
// PersistenceError.
func (s *Service) Validate(ctx context.Context, token, contact string) (view *View, err error) {
	ctx, span := s.startSpan(ctx, "Validate")
	defer func() {
		metrics.RecordClaimValidation(resultLabel(err))
		endSpan(span, err)
	}()

	c, err := s.lookup(ctx, s.repos, token, false)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(contact) != "" && !c.contactMatches(contact) {
		return nil, newError(CodeNotFound, "no claim for this token and contact")
	}
	if err := c.check(s.now()); err != nil {
		return nil, err
	}
	v := c.View()
	return &v, nil
}

func (s *Service) lookup(ctx context.Context, repos *repo.Repositories, token string, lock bool) (*Claim, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, newError(CodeNotFound, "token is required")
	}
	row, err := repos.Claim.GetByTokenHash(ctx, hashToken(token), lock)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, newError(CodeNotFound, "no claim for this token")
		}
		return nil, persistence(err)
	}
	return fromModel(row)
}

// resultLabel names the outcome of an operation for metrics.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if r := ReasonOf(err); r != "" {
		return string(r)
	}
	if c := CodeOf(err); c != "" {
		return string(c)
	}
	return "error"
}
