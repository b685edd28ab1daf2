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

package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/lunabeam/lunabeam/pkg/safe"
	"github.com/redis/go-redis/v9"
)

const defaultLocalMaxBytes = 32 * 1024 * 1024

// FastCache is an in-process ICache on top of VictoriaMetrics fastcache.
// Expiration is tracked beside the cache and enforced on read.
type FastCache struct {
	cache *fastcache.Cache
	ttls  map[string]time.Time
	mu    sync.RWMutex
	now   func() time.Time
}

func NewFastCache(maxBytes int) *FastCache {
	if maxBytes <= 0 {
		maxBytes = defaultLocalMaxBytes
	}
	return &FastCache{
		cache: fastcache.New(maxBytes),
		ttls:  make(map[string]time.Time),
		now:   time.Now,
	}
}

// expiredLocked reports whether key has passed its deadline. Caller holds mu.
func (fc *FastCache) expiredLocked(key string) bool {
	exp, ok := fc.ttls[key]
	return ok && !fc.now().Before(exp)
}

func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if fc.expiredLocked(key) {
		return redis.NewStringResult("", redis.Nil)
	}
	value, ok := fc.cache.HasGet(nil, []byte(key))
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(value), nil)
}

func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	data, err := encode(value)
	if err != nil {
		return redis.NewStatusResult("", err)
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.cache.Set([]byte(key), data)
	delete(fc.ttls, key)
	if expiration > 0 {
		fc.scheduleLocked(key, expiration)
	}
	return redis.NewStatusResult("OK", nil)
}

func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var count int64
	for _, key := range keys {
		if fc.cache.Has([]byte(key)) && !fc.expiredLocked(key) {
			count++
		}
		fc.cache.Del([]byte(key))
		delete(fc.ttls, key)
	}
	return redis.NewIntResult(count, nil)
}

func (fc *FastCache) Incr(ctx context.Context, key string) *redis.IntCmd {
	return fc.incrBy(key, 1)
}

func (fc *FastCache) Decr(ctx context.Context, key string) *redis.IntCmd {
	return fc.incrBy(key, -1)
}

// incrBy keeps the key's deadline, like redis INCR and DECR do.
func (fc *FastCache) incrBy(key string, delta int64) *redis.IntCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var n int64
	if !fc.expiredLocked(key) {
		if raw, ok := fc.cache.HasGet(nil, []byte(key)); ok {
			v, err := strconv.ParseInt(string(raw), 10, 64)
			if err != nil {
				return redis.NewIntResult(0, err)
			}
			n = v
		}
	} else {
		delete(fc.ttls, key)
	}
	n += delta
	fc.cache.Set([]byte(key), []byte(strconv.FormatInt(n, 10)))
	return redis.NewIntResult(n, nil)
}

func (fc *FastCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if !fc.cache.Has([]byte(key)) || fc.expiredLocked(key) {
		return redis.NewBoolResult(false, nil)
	}
	if expiration <= 0 {
		fc.cache.Del([]byte(key))
		delete(fc.ttls, key)
		return redis.NewBoolResult(true, nil)
	}
	fc.scheduleLocked(key, expiration)
	return redis.NewBoolResult(true, nil)
}

// scheduleLocked records the deadline and frees the entry once it passes.
func (fc *FastCache) scheduleLocked(key string, expiration time.Duration) {
	fc.ttls[key] = fc.now().Add(expiration)
	safe.Go(func() {
		<-time.After(expiration)
		fc.cleanupExpiredKey(key)
	})
}

func (fc *FastCache) cleanupExpiredKey(key string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.expiredLocked(key) {
		fc.cache.Del([]byte(key))
		delete(fc.ttls, key)
	}
}

func (fc *FastCache) Reset() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.cache.Reset()
	fc.ttls = make(map[string]time.Time)
}

func encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case int:
		return []byte(strconv.Itoa(v)), nil
	case int64:
		return []byte(strconv.FormatInt(v, 10)), nil
	default:
		return sonic.Marshal(v)
	}
}
