package model

// Supporter links an individual to someone who helps manage their account.
type Supporter struct {
	BaseModel
	IndividualId string `gorm:"column:individual_id;size:64;uniqueIndex:idx_supporter_pair" json:"individualId"`
	SupporterId  string `gorm:"column:supporter_id;size:64;uniqueIndex:idx_supporter_pair;index" json:"supporterId"`
	Role         string `gorm:"column:role;size:16" json:"role"`
	Permission   string `gorm:"column:permission;size:16" json:"permission"`
}

func (Supporter) TableName() string {
	return "t_supporter"
}

const (
	SupporterRoleParent   = "parent"
	SupporterRoleCoach    = "coach"
	SupporterRoleProvider = "provider"
	SupporterRoleOther    = "other"

	PermissionViewer = "viewer"
	PermissionEditor = "editor"
	PermissionAdmin  = "admin"
)

// PermissionRank orders the tiers; unknown tiers rank below viewer.
func PermissionRank(p string) int {
	switch p {
	case PermissionViewer:
		return 1
	case PermissionEditor:
		return 2
	case PermissionAdmin:
		return 3
	}
	return 0
}

func ValidRole(role string) bool {
	switch role {
	case SupporterRoleParent, SupporterRoleCoach, SupporterRoleProvider, SupporterRoleOther:
		return true
	}
	return false
}
