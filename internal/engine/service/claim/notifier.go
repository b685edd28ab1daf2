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
)

// Invitation is everything a notifier needs to tell an invitee about a claim.
// The passcode is never part of it: issuers relay it on a separate channel.
type Invitation struct {
	ClaimId            string
	Contact            string
	SubjectDisplayName string
	IssuerDisplayName  string
	ClaimLink          string
	Message            string
	ExpiresAt          time.Time
}

// Notifier delivers invitations.
type Notifier interface {
	Send(ctx context.Context, inv Invitation) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, inv Invitation) error

func (f NotifierFunc) Send(ctx context.Context, inv Invitation) error {
	return f(ctx, inv)
}
