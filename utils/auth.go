package utils

import "github.com/bwmarrin/discordgo"

// Permission levels
const (
	DeveloperPermission = "developer"
	AdminPermission     = "admin"
	UserPermission      = "user"
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// CheckPermission returns the highest permission level of an interaction
// member. Manage Server or a configured admin role grants admin.
func CheckPermission(member *discordgo.Member, adminRoleIDs, developerUserIDs []string) string {
	if member == nil || member.User == nil {
		return UserPermission
	}
	if contains(developerUserIDs, member.User.ID) {
		return DeveloperPermission
	}
	if member.Permissions&discordgo.PermissionManageServer != 0 || member.Permissions&discordgo.PermissionAdministrator != 0 {
		return AdminPermission
	}
	for _, roleID := range member.Roles {
		if contains(adminRoleIDs, roleID) {
			return AdminPermission
		}
	}
	return UserPermission
}

// IsAdmin reports whether the member may use admin commands.
func IsAdmin(member *discordgo.Member, adminRoleIDs, developerUserIDs []string) bool {
	level := CheckPermission(member, adminRoleIDs, developerUserIDs)
	return level == AdminPermission || level == DeveloperPermission
}
