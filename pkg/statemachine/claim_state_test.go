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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   ClaimStatus
		expected bool
	}{
		{ClaimPending, false},
		{ClaimAccepted, true},
		{ClaimExpired, true},
		{ClaimRevoked, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsTerminal())
			assert.True(t, tt.status.IsValid())
		})
	}
	assert.False(t, ClaimStatus("archived").IsValid())
}

func TestClaimStateMachine(t *testing.T) {
	tests := []struct {
		name    string
		from    ClaimStatus
		event   Event
		want    ClaimStatus
		wantErr bool
	}{
		{"accept pending", ClaimPending, EventAccept, ClaimAccepted, false},
		{"revoke pending", ClaimPending, EventRevoke, ClaimRevoked, false},
		{"expire pending", ClaimPending, EventExpire, ClaimExpired, false},
		{"accept accepted", ClaimAccepted, EventAccept, ClaimAccepted, true},
		{"revoke accepted", ClaimAccepted, EventRevoke, ClaimAccepted, true},
		{"accept revoked", ClaimRevoked, EventAccept, ClaimRevoked, true},
		{"accept expired", ClaimExpired, EventAccept, ClaimExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewClaimStateMachine(tt.from)
			got, err := sm.Fire(tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, sm.Current())
		})
	}
}
