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
	"time"

	"github.com/lunabeam/lunabeam/pkg/cache"
	"github.com/lunabeam/lunabeam/pkg/log"
)

const attemptKeyPrefix = "claim:attempts:"

// throttle counts passcode attempts per token in the cache. An attempt is
// kept when the passcode did not match and given back otherwise.
// Cache failures are logged and never block a finalization.
type throttle struct {
	cache  cache.ICache
	max    int
	window time.Duration
}

func attemptKey(tokenHash string) string {
	return attemptKeyPrefix + tokenHash
}

// reserve counts an attempt before the passcode is compared, so concurrent
// guesses on one token cannot all pass under the limit. It returns the attempt
// number, 0 when nothing was counted, and false once the limit is used up.
func (t *throttle) reserve(ctx context.Context, tokenHash string) (int64, bool) {
	if t.cache == nil || t.max <= 0 {
		return 0, true
	}
	key := attemptKey(tokenHash)
	n, err := t.cache.Incr(ctx, key).Result()
	if err != nil {
		log.WithContext(ctx).Warnw("count passcode attempt failed", "error", err)
		return 0, true
	}
	if n == 1 {
		if err := t.cache.Expire(ctx, key, t.window).Err(); err != nil {
			log.WithContext(ctx).Warnw("set passcode attempt window failed", "error", err)
		}
	}
	if n > int64(t.max) {
		t.release(ctx, tokenHash, n)
		return n, false
	}
	return n, true
}

// release gives back an attempt that never compared a passcode.
func (t *throttle) release(ctx context.Context, tokenHash string, attempt int64) {
	if t.cache == nil || attempt == 0 {
		return
	}
	key := attemptKey(tokenHash)
	n, err := t.cache.Decr(ctx, key).Result()
	if err != nil {
		log.WithContext(ctx).Warnw("release passcode attempt failed", "error", err)
		return
	}
	// a reset raced the release
	if n < 0 {
		t.reset(ctx, tokenHash)
	}
}

func (t *throttle) reset(ctx context.Context, tokenHash string) {
	if t.cache == nil {
		return
	}
	if err := t.cache.Del(ctx, attemptKey(tokenHash)).Err(); err != nil {
		log.WithContext(ctx).Warnw("reset passcode attempts failed", "error", err)
	}
}
