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

package notify

import (
	"github.com/google/wire"
	claimsvc "github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/pkg/log"
)

// ProviderSet provides notify layer related dependencies
var ProviderSet = wire.NewSet(ProvideNotifier)

func ProvideNotifier(conf Config) (claimsvc.Notifier, func(), error) {
	conf.SetDefaults()
	ch, err := NewChannel(conf)
	if err != nil {
		return nil, nil, err
	}
	n := NewInvitationNotifier(ch)
	log.Infow("notifier initialized", "channel", conf.Channel)
	return n, func() { _ = n.Close() }, nil
}
