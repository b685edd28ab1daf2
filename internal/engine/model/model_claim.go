package model

import (
	"time"

	"gorm.io/datatypes"
)

// Claim is one invitation to take over an account. Token and passcode are
// stored only as hashes.
type Claim struct {
	BaseModel
	ClaimId         string            `gorm:"column:claim_id;size:26;uniqueIndex" json:"claimId"`
	TokenHash       string            `gorm:"column:token_hash;size:64;uniqueIndex" json:"-"`
	PasscodeHash    string            `gorm:"column:passcode_hash;size:72" json:"-"`
	SubjectIdentity string            `gorm:"column:subject_identity;size:64;index:idx_claim_subject_status" json:"subjectIdentity"`
	IssuerIdentity  string            `gorm:"column:issuer_identity;size:64" json:"issuerIdentity"`
	InviteeContact  string            `gorm:"column:invitee_contact;size:320" json:"inviteeContact"`
	DisplayName     string            `gorm:"column:display_name;size:128" json:"displayName"`
	Message         string            `gorm:"column:message;size:2000" json:"message"`
	Metadata        datatypes.JSONMap `gorm:"column:metadata" json:"metadata"`
	Status          string            `gorm:"column:status;size:16;index:idx_claim_subject_status;index:idx_claim_status_expires" json:"status"`
	IssuedAt        time.Time         `gorm:"column:issued_at" json:"issuedAt"`
	ExpiresAt       time.Time         `gorm:"column:expires_at;index:idx_claim_status_expires" json:"expiresAt"`
	ClaimedAt       *time.Time        `gorm:"column:claimed_at" json:"claimedAt"`
	ClaimedIdentity string            `gorm:"column:claimed_identity;size:64" json:"claimedIdentity"`
	RevokedAt       *time.Time        `gorm:"column:revoked_at" json:"revokedAt"`
}

func (Claim) TableName() string {
	return "t_claim"
}
