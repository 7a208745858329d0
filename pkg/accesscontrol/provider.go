package accesscontrol

import (
	"context"

	"github.com/tendant/simple-ugm/pkg/auth"
	"github.com/tendant/simple-ugm/pkg/delegation"
)

// Provider computes one segment of a node's effective ACL. Providers are
// invoked in a fixed, declared order by the Checker; there is no implicit
// chaining between them.
type Provider interface {
	ACL(ctx context.Context, node Node, authCtx auth.AuthContext) (ACL, error)
}

// StaticProvider supplies the role-based base policy per node kind.
type StaticProvider struct{}

// NewStaticProvider creates the static base policy provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// ACL returns the base policy for the node kind. Single User nodes carry
// the authenticated-view-portrait extension.
func (p *StaticProvider) ACL(ctx context.Context, node Node, authCtx auth.AuthContext) (ACL, error) {
	if node.Kind == NodeUser {
		return UserACL(), nil
	}
	return DefaultACL(), nil
}

// DelegationProvider supplies the dynamic, principal-specific entries
// derived from the local-manager rules. Its entries are prepended ahead of
// the static base policy so delegated grants take precedence over the
// node's otherwise-restrictive defaults.
type DelegationProvider struct {
	resolver *delegation.Resolver
}

// NewDelegationProvider creates the delegation ACL provider.
func NewDelegationProvider(resolver *delegation.Resolver) *DelegationProvider {
	return &DelegationProvider{resolver: resolver}
}

// ACL returns the delegate's entries for the node, or an empty list when
// the eligibility gate is closed or the node is outside the delegate's
// target set. Resolution errors (ambiguous admin groups, backend failure)
// propagate so the authorization decision fails closed.
func (p *DelegationProvider) ACL(ctx context.Context, node Node, authCtx auth.AuthContext) (ACL, error) {
	if !p.resolver.AppliesTo(authCtx) {
		return nil, nil
	}

	switch node.Kind {
	case NodeUsers:
		return p.usersACL(authCtx)
	case NodeUser:
		return p.userACL(ctx, node.ID, authCtx)
	case NodeGroups:
		return p.groupsACL(authCtx)
	case NodeGroup:
		return p.groupACL(node.ID, authCtx)
	}
	return nil, nil
}

func (p *DelegationProvider) usersACL(authCtx auth.AuthContext) (ACL, error) {
	targetGIDs, err := p.resolver.TargetGroupIDs(authCtx)
	if err != nil {
		return nil, err
	}
	if len(targetGIDs) == 0 {
		return nil, nil
	}
	return ACL{
		{Allow, authCtx.UserID, []string{PermView, PermAdd, PermAddUser}},
	}, nil
}

func (p *DelegationProvider) userACL(ctx context.Context, uid string, authCtx auth.AuthContext) (ACL, error) {
	targetUIDs, err := p.resolver.TargetUserIDs(ctx, authCtx)
	if err != nil {
		return nil, err
	}
	for _, target := range targetUIDs {
		if target == uid {
			return ACL{
				{Allow, authCtx.UserID, []string{
					PermView, PermEdit, PermEditUser,
					PermManageExpiration, PermManageMembership,
				}},
			}, nil
		}
	}
	return nil, nil
}

func (p *DelegationProvider) groupsACL(authCtx auth.AuthContext) (ACL, error) {
	targetGIDs, err := p.resolver.TargetGroupIDs(authCtx)
	if err != nil {
		return nil, err
	}
	if len(targetGIDs) == 0 {
		return nil, nil
	}
	return ACL{
		{Allow, authCtx.UserID, []string{PermView}},
	}, nil
}

func (p *DelegationProvider) groupACL(gid string, authCtx auth.AuthContext) (ACL, error) {
	admGID, err := p.resolver.AdminGroupID(authCtx)
	if err != nil {
		return nil, err
	}
	if admGID == "" {
		return nil, nil
	}
	targetGIDs, err := p.resolver.TargetGroupIDs(authCtx)
	if err != nil {
		return nil, err
	}
	managed := false
	for _, target := range targetGIDs {
		if target == gid {
			managed = true
			break
		}
	}
	if !managed {
		return nil, nil
	}

	permissions := []string{PermView}
	isDefault, err := p.resolver.IsDefault(admGID, gid)
	if err != nil {
		return nil, err
	}
	// default target groups are pre-assigned; their membership is not
	// re-assignable by the delegate
	if !isDefault {
		permissions = append(permissions, PermManageMembership)
	}
	return ACL{
		{Allow, authCtx.UserID, permissions},
	}, nil
}
