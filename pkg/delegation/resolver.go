package delegation

import (
	"context"
	"fmt"

	"github.com/tendant/simple-ugm/pkg/auth"
	"github.com/tendant/simple-ugm/pkg/config"
	"github.com/tendant/simple-ugm/pkg/directory"
)

// Resolver determines, for an authenticated principal, which groups and
// users it may administer under the loaded local-manager rules.
type Resolver struct {
	rules  *RuleSet
	groups *directory.PrincipalContainer
	cfg    config.UGMConfig
}

// NewResolver creates a resolver over the given rule set and groups
// container.
func NewResolver(rules *RuleSet, groups *directory.PrincipalContainer, cfg config.UGMConfig) *Resolver {
	return &Resolver{
		rules:  rules,
		groups: groups,
		cfg:    cfg,
	}
}

// AppliesTo reports whether delegation logic applies to the authenticated
// principal at all. Delegation only ever adds rights for principals that
// would otherwise have none of the broader management roles, so it is
// skipped when delegation is disabled, for the fixed super-admin identity,
// and for principals already holding an admin or manager role.
func (r *Resolver) AppliesTo(authCtx auth.AuthContext) bool {
	if !r.cfg.DelegationEnabled {
		return false
	}
	if !authCtx.Authenticated() {
		return false
	}
	if authCtx.UserID == r.cfg.AdminUser {
		return false
	}
	if config.HasAnyAdminRole(authCtx.Roles, r.cfg.AdminRoles()) {
		return false
	}
	return true
}

// AdminGroupID returns the single admin group the principal belongs to, or
// "" when the principal is a member of no admin group (a normal outcome:
// the principal is simply not a delegate). Membership in more than one
// admin group is a configuration error; the resolver returns
// AmbiguousDelegationError rather than guessing.
func (r *Resolver) AdminGroupID(authCtx auth.AuthContext) (string, error) {
	var admGIDs []string
	for _, gid := range authCtx.GroupIDs {
		if _, ok := r.rules.RuleFor(gid); ok {
			admGIDs = append(admGIDs, gid)
		}
	}
	switch len(admGIDs) {
	case 0:
		return "", nil
	case 1:
		return admGIDs[0], nil
	default:
		return "", AmbiguousDelegationError{UserID: authCtx.UserID, AdminGroupIDs: admGIDs}
	}
}

// TargetGroupIDs returns the group ids the principal may administer, in
// configured order. Empty when the principal is not a delegate.
func (r *Resolver) TargetGroupIDs(authCtx auth.AuthContext) ([]string, error) {
	admGID, err := r.AdminGroupID(authCtx)
	if err != nil {
		return nil, err
	}
	if admGID == "" {
		return nil, nil
	}
	rule, ok := r.rules.RuleFor(admGID)
	if !ok {
		return nil, nil
	}
	return rule.Target, nil
}

// TargetUserIDs returns the deduplicated union of the member ids of every
// target group. A target group missing from the directory is skipped; a
// backend failure propagates so the authorization decision fails closed.
func (r *Resolver) TargetUserIDs(ctx context.Context, authCtx auth.AuthContext) ([]string, error) {
	targetGIDs, err := r.TargetGroupIDs(authCtx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var uids []string
	for _, gid := range targetGIDs {
		group, err := r.groups.Get(ctx, gid)
		if err != nil {
			if directory.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve target group %s: %w", gid, err)
		}
		for _, uid := range group.MemberIDs() {
			if _, dup := seen[uid]; dup {
				continue
			}
			seen[uid] = struct{}{}
			uids = append(uids, uid)
		}
	}
	return uids, nil
}

// IsDefault reports whether gid is a default group of the given admin
// group's rule. Querying a group outside the rule's target set is a
// programming or configuration error and returns UnmanagedGroupError.
func (r *Resolver) IsDefault(adminGroupID, gid string) (bool, error) {
	rule, ok := r.rules.RuleFor(adminGroupID)
	if !ok {
		return false, UnmanagedGroupError{AdminGroupID: adminGroupID, GroupID: gid}
	}
	if !rule.Manages(gid) {
		return false, UnmanagedGroupError{AdminGroupID: adminGroupID, GroupID: gid}
	}
	return rule.IsDefault(gid), nil
}
