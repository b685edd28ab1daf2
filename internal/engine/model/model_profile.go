package model

import "time"

type Profile struct {
	BaseModel
	IdentityId    string     `gorm:"column:identity_id;size:64;uniqueIndex" json:"identityId"`
	DisplayName   string     `gorm:"column:display_name;size:128" json:"displayName"`
	Email         string     `gorm:"column:email;size:320" json:"email"`
	AuthStatus    string     `gorm:"column:auth_status;size:16" json:"authStatus"`
	PasswordSet   bool       `gorm:"column:password_set" json:"passwordSet"`
	AccountStatus string     `gorm:"column:account_status;size:16" json:"accountStatus"`
	ClaimedAt     *time.Time `gorm:"column:claimed_at" json:"claimedAt"`
}

func (Profile) TableName() string {
	return "t_profile"
}

const (
	AuthStatusUnclaimed = "unclaimed"
	AuthStatusActive    = "active"

	AccountStatusProvisioned = "provisioned"
	AccountStatusActive      = "active"
)
