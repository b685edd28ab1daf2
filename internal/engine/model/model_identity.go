package model

// Identity holds the login credential. A supporter-provisioned account
// starts as a placeholder without a password.
type Identity struct {
	BaseModel
	IdentityId   string `gorm:"column:identity_id;size:64;uniqueIndex" json:"identityId"`
	Email        string `gorm:"column:email;size:320;index" json:"email"`
	PasswordHash string `gorm:"column:password_hash;size:72" json:"-"`
	Placeholder  bool   `gorm:"column:placeholder" json:"placeholder"`
	MergedInto   string `gorm:"column:merged_into;size:64" json:"mergedInto"`
	Status       string `gorm:"column:status;size:16" json:"status"`
}

func (Identity) TableName() string {
	return "t_identity"
}

const (
	IdentityStatusProvisioned = "provisioned"
	IdentityStatusActive      = "active"
	IdentityStatusMerged      = "merged"
)
