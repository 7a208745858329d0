package accesscontrol

// Permission names referenced by the user/group management ACLs.
const (
	PermView             = "view"
	PermViewPortrait     = "view_portrait"
	PermAdd              = "add"
	PermEdit             = "edit"
	PermDelete           = "delete"
	PermAddUser          = "add_user"
	PermEditUser         = "edit_user"
	PermDeleteUser       = "delete_user"
	PermManageExpiration = "manage_expiration"
	PermAddGroup         = "add_group"
	PermEditGroup        = "edit_group"
	PermDeleteGroup      = "delete_group"
	PermManageMembership = "manage_membership"
	PermManage           = "manage"
	PermLogin            = "login"
)

// PermAll is the catch-all marker matching every permission; only
// meaningful inside ACL entries.
const PermAll = "*"

// ManagementPermissions are the generic node management permissions.
var ManagementPermissions = []string{
	PermAdd, PermEdit, PermDelete,
}

// UserManagementPermissions cover managing user principals.
var UserManagementPermissions = []string{
	PermAddUser, PermEditUser, PermDeleteUser, PermManageExpiration,
}

// GroupManagementPermissions cover managing group principals.
var GroupManagementPermissions = []string{
	PermAddGroup, PermEditGroup, PermDeleteGroup,
}

// AdminPermissions is the full bundle granted to the admin role.
var AdminPermissions = concat(
	[]string{PermView, PermManageMembership, PermViewPortrait},
	ManagementPermissions,
	UserManagementPermissions,
	GroupManagementPermissions,
)

func concat(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		out = append(out, list...)
	}
	return out
}
