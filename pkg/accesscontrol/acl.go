package accesscontrol

import "github.com/tendant/simple-ugm/pkg/auth"

// Effect is the outcome an ACL entry assigns to a matched request.
type Effect string

const (
	Allow Effect = "allow"
	Deny  Effect = "deny"
)

// Principal reference markers. An entry's Principal is either a concrete
// principal id, a role reference built with RolePrincipal, or one of these.
const (
	Everyone      = "system.Everyone"
	Authenticated = "system.Authenticated"
)

// RolePrincipal builds the principal reference for a role.
func RolePrincipal(role string) string {
	return "role:" + role
}

// Entry is a single ordered ACL element: who, what effect, which
// permissions.
type Entry struct {
	Effect      Effect
	Principal   string
	Permissions []string
}

// Grants reports whether the entry's permission set contains the given
// permission.
func (e Entry) Grants(permission string) bool {
	for _, p := range e.Permissions {
		if p == permission || p == PermAll {
			return true
		}
	}
	return false
}

// Matches reports whether the entry's principal reference applies to the
// caller: exact principal id, held role, everyone, or any authenticated
// user.
func (e Entry) Matches(authCtx auth.AuthContext) bool {
	switch e.Principal {
	case Everyone:
		return true
	case Authenticated:
		return authCtx.Authenticated()
	}
	if e.Principal == authCtx.UserID && authCtx.Authenticated() {
		return true
	}
	for _, role := range authCtx.Roles {
		if e.Principal == RolePrincipal(role) {
			return true
		}
	}
	return false
}

// ACL is an ordered permission list; the first entry matching both the
// caller and the requested permission decides.
type ACL []Entry

// DefaultACL returns the static role-based base policy shared by the
// Users, Groups and Group nodes. It always terminates with a catch-all
// deny, so unmatched requests are denied.
func DefaultACL() ACL {
	return ACL{
		{Allow, RolePrincipal("editor"), []string{PermView, PermManageMembership}},
		{Allow, RolePrincipal("admin"), AdminPermissions},
		{Allow, RolePrincipal("manager"), concat(AdminPermissions, []string{PermManage})},
		{Allow, Everyone, []string{PermLogin}},
		{Deny, Everyone, []string{PermAll}},
	}
}

// UserACL returns the base policy for single User nodes: any authenticated
// user may view portraits, then the default policy applies.
func UserACL() ACL {
	return append(ACL{
		{Allow, Authenticated, []string{PermViewPortrait}},
	}, DefaultACL()...)
}
