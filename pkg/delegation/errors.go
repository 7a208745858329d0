package delegation

import (
	"fmt"
	"strings"
)

// InvalidConfigError is returned when a loaded rule lists a default group
// that is not part of its target set. The load aborts without installing a
// partial rule set.
type InvalidConfigError struct {
	AdminGroupID string
	GroupID      string
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid delegation rule for %q: default group %q not in target set",
		e.AdminGroupID, e.GroupID)
}

// AmbiguousDelegationError is returned when the authenticated principal is a
// member of more than one admin group. The resolver refuses to pick one;
// the affected principal's authorization fails closed until an operator
// fixes the memberships.
type AmbiguousDelegationError struct {
	UserID        string
	AdminGroupIDs []string
}

func (e AmbiguousDelegationError) Error() string {
	return fmt.Sprintf("user %q is a member of multiple admin groups (%s), only one management group allowed per user",
		e.UserID, strings.Join(e.AdminGroupIDs, ", "))
}

// UnmanagedGroupError is returned when IsDefault is queried for a group
// outside the admin group's target set.
type UnmanagedGroupError struct {
	AdminGroupID string
	GroupID      string
}

func (e UnmanagedGroupError) Error() string {
	return fmt.Sprintf("group %q not managed by %q", e.GroupID, e.AdminGroupID)
}
