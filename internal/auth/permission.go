package auth

import "github.com/tophat51/notarobloxrevival/internal/session"

// Permission levels stored in users.permission_level.
const (
	PermissionUser      = 1
	PermissionModerator = 3
	PermissionAdmin     = 5
)

func IsAdmin(u *session.User) bool {
	return u != nil && u.Attributes.PermissionLevel >= PermissionAdmin
}
