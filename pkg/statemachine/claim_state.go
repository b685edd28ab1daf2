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

package statemachine

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimAccepted ClaimStatus = "accepted"
	ClaimExpired  ClaimStatus = "expired"
	ClaimRevoked  ClaimStatus = "revoked"
)

const (
	EventAccept Event = "accept"
	EventRevoke Event = "revoke"
	EventExpire Event = "expire"
)

// IsValid reports whether s is one of the known claim states.
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimPending, ClaimAccepted, ClaimExpired, ClaimRevoked:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimAccepted || s == ClaimExpired || s == ClaimRevoked
}

// NewClaimStateMachine returns the claim lifecycle positioned at status.
// Every claim starts pending and leaves it exactly once.
func NewClaimStateMachine(status ClaimStatus) *StateMachine[ClaimStatus] {
	sm := NewWithState(status)

	sm.On(ClaimPending, EventAccept, ClaimAccepted).
		On(ClaimPending, EventRevoke, ClaimRevoked).
		On(ClaimPending, EventExpire, ClaimExpired)

	return sm
}
