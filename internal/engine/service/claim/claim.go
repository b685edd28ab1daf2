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
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/model"
	"github.com/lunabeam/lunabeam/pkg/statemachine"
)

const (
	metaIssuerDisplayName = "issuerDisplayName"
	metaDeliveryStatus    = "deliveryStatus"
	metaDeliveryError     = "deliveryError"
	metaDeliveredAt       = "deliveredAt"
	metaReplaces          = "replaces"

	deliverySent   = "sent"
	deliveryFailed = "failed"
)

// Claim is a claim row that passed the lifecycle invariants.
type Claim struct {
	ClaimId         string
	SubjectIdentity string
	IssuerIdentity  string
	InviteeContact  string
	DisplayName     string
	Message         string
	Metadata        map[string]any
	Status          statemachine.ClaimStatus
	IssuedAt        time.Time
	ExpiresAt       time.Time
	ClaimedAt       *time.Time
	ClaimedIdentity string
	RevokedAt       *time.Time

	passcodeHash string
}

func fromModel(m *model.Claim) (*Claim, error) {
	status := statemachine.ClaimStatus(m.Status)
	if !status.IsValid() {
		return nil, &Error{Code: CodePersistence, Message: fmt.Sprintf("claim %s has unknown status %q", m.ClaimId, m.Status)}
	}
	if status == statemachine.ClaimAccepted && m.ClaimedAt == nil {
		return nil, &Error{Code: CodePersistence, Message: fmt.Sprintf("claim %s accepted without claimed_at", m.ClaimId)}
	}
	if m.PasscodeHash == "" || m.TokenHash == "" {
		return nil, &Error{Code: CodePersistence, Message: fmt.Sprintf("claim %s has no secrets", m.ClaimId)}
	}
	return &Claim{
		ClaimId:         m.ClaimId,
		SubjectIdentity: m.SubjectIdentity,
		IssuerIdentity:  m.IssuerIdentity,
		InviteeContact:  m.InviteeContact,
		DisplayName:     m.DisplayName,
		Message:         m.Message,
		Metadata:        m.Metadata,
		Status:          status,
		IssuedAt:        m.IssuedAt.UTC(),
		ExpiresAt:       m.ExpiresAt.UTC(),
		ClaimedAt:       m.ClaimedAt,
		ClaimedIdentity: m.ClaimedIdentity,
		RevokedAt:       m.RevokedAt,
		passcodeHash:    m.PasscodeHash,
	}, nil
}

// Usable reports whether the claim can still be finalized at now.
func (c *Claim) Usable(now time.Time) bool {
	return c.Status == statemachine.ClaimPending && now.Before(c.ExpiresAt)
}

// check returns the error describing why the claim is not usable, or nil.
func (c *Claim) check(now time.Time) error {
	switch c.Status {
	case statemachine.ClaimAccepted:
		return newError(CodeAlreadyUsed, "claim %s was already used", c.ClaimId)
	case statemachine.ClaimRevoked:
		return newError(CodeRevoked, "claim %s was revoked", c.ClaimId)
	case statemachine.ClaimExpired:
		return newError(CodeExpired, "claim %s expired at %s", c.ClaimId, c.ExpiresAt.Format(time.RFC3339))
	}
	if !now.Before(c.ExpiresAt) {
		return newError(CodeExpired, "claim %s expired at %s", c.ClaimId, c.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// contactMatches compares contacts in constant time after normalization.
func (c *Claim) contactMatches(contact string) bool {
	given := strings.ToLower(strings.TrimSpace(contact))
	return subtle.ConstantTimeCompare([]byte(given), []byte(c.InviteeContact)) == 1
}

func (c *Claim) meta(key string) string {
	v, _ := c.Metadata[key].(string)
	return v
}

// View is what callers outside the service may see of a claim. It never
// carries the contact in clear or any secret.
type View struct {
	ClaimId           string                   `json:"claimId"`
	SubjectIdentity   string                   `json:"subjectIdentity"`
	DisplayName       string                   `json:"displayName"`
	IssuerDisplayName string                   `json:"issuerDisplayName,omitempty"`
	MaskedContact     string                   `json:"maskedContact"`
	Status            statemachine.ClaimStatus `json:"status"`
	IssuedAt          time.Time                `json:"issuedAt"`
	ExpiresAt         time.Time                `json:"expiresAt"`
	ClaimedAt         *time.Time               `json:"claimedAt,omitempty"`
	DeliveryStatus    string                   `json:"deliveryStatus,omitempty"`
}

func (c *Claim) View() View {
	return View{
		ClaimId:           c.ClaimId,
		SubjectIdentity:   c.SubjectIdentity,
		DisplayName:       c.DisplayName,
		IssuerDisplayName: c.meta(metaIssuerDisplayName),
		MaskedContact:     MaskContact(c.InviteeContact),
		Status:            c.Status,
		IssuedAt:          c.IssuedAt,
		ExpiresAt:         c.ExpiresAt,
		ClaimedAt:         c.ClaimedAt,
		DeliveryStatus:    c.meta(metaDeliveryStatus),
	}
}

// MaskContact keeps the first character of the local part and the domain:
// "jamie@example.com" becomes "j***@example.com".
func MaskContact(contact string) string {
	at := strings.LastIndex(contact, "@")
	if at <= 0 {
		return "***"
	}
	return contact[:1] + "***" + contact[at:]
}
