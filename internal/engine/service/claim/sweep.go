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

	"github.com/lunabeam/lunabeam/pkg/log"
	"github.com/lunabeam/lunabeam/pkg/metrics"
)

// SweepExpired marks every pending claim past its expiry as expired and
// returns how many were changed. Reads already treat such claims as expired;
// the sweep only makes the stored status agree.
func (s *Service) SweepExpired(ctx context.Context) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "SweepExpired")
	defer func() { endSpan(span, err) }()

	n, err = s.repos.Claim.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, persistence(err)
	}
	metrics.RecordClaimsExpired(n)
	if n > 0 {
		log.WithContext(ctx).Infow("expired overdue claims", "count", n)
	}
	return n, nil
}

// Sweep is SweepExpired shaped as a scheduled job.
func (s *Service) Sweep(ctx context.Context) error {
	_, err := s.SweepExpired(ctx)
	return err
}
