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
	"github.com/google/wire"
)

// ProviderSet provides the ICache selected by the redis mode.
var ProviderSet = wire.NewSet(ProvideCache)

// ProvideCache returns a redis-backed cache, or a process-local FastCache
// when the mode is empty or "local".
func ProvideCache(conf Redis) (ICache, func(), error) {
	if conf.Mode == "" || conf.Mode == ModeLocal {
		fc := NewFastCache(conf.LocalMaxBytes)
		return fc, fc.Reset, nil
	}
	client, err := NewRedis(conf)
	if err != nil {
		return nil, nil, err
	}
	rc := NewRedisCache(client)
	return rc, func() { _ = rc.Close() }, nil
}
