package domain

// SystemActorID is recorded as audit sender for scheduled jobs.
const SystemActorID = "system"

const (
	PermissionControlCentersShow   = "CONTROL_CENTERS_SHOW"
	PermissionControlCentersManage = "CONTROL_CENTERS_MANAGE"
	PermissionUserStatusManage     = "USER_STATUS_MANAGE"
	PermissionStatisticsTrackings  = "STATISTICS_TRACKINGS_SHOW"
	PermissionWildcard             = "*"
)

// Profile is the authenticated caller as carried by the access token.
type Profile struct {
	Sub         string   `json:"sub"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

func (p Profile) HasPermission(permission string) bool {
	if p.Role == RoleAdministrator {
		return true
	}
	for _, item := range p.Permissions {
		if item == PermissionWildcard || item == permission {
			return true
		}
	}
	return false
}

func SystemProfile() Profile {
	return Profile{Sub: SystemActorID, Role: RoleAdministrator}
}
