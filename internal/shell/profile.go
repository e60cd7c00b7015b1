package shell

import (
	"strings"
	"unicode/utf8"
)

const (
	RoleAdministrator = "ADMINISTRATOR"
	RoleUser          = "USER"
)

// AdminPrivileges are listed in the admin profile popover. They have no
// backing actions.
var AdminPrivileges = []string{"Add User", "Delete User", "Update User", "Read Users List"}

// Profile is the identity shown in the navbar. No authentication backs it.
type Profile struct {
	Name                string
	Role                string
	Admin               bool
	ShowAdminPrivileges bool
	AllowNotifications  bool
}

// NewProfile builds the profile for an admin or a plain user. Admins see
// their privileges by default.
func NewProfile(name string, admin bool) Profile {
	role := RoleUser
	if admin {
		role = RoleAdministrator
	}
	return Profile{
		Name:                name,
		Role:                role,
		Admin:               admin,
		ShowAdminPrivileges: admin,
		AllowNotifications:  true,
	}
}

// Initial is the avatar letter.
func (p Profile) Initial() string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}

// Privileges returns the privilege list when it is visible.
func (p Profile) Privileges() []string {
	if !p.Admin || !p.ShowAdminPrivileges {
		return nil
	}
	return AdminPrivileges
}
