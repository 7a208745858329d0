package accesscontrol

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-ugm/pkg/auth"
)

// Decision is the outcome of an authorization check, including the entry
// that decided it for audit logging.
type Decision struct {
	Allowed bool
	Matched *Entry
}

// Checker evaluates authorization requests against the effective ACL
// assembled from its provider chain.
type Checker struct {
	providers []Provider
}

// NewChecker creates a checker invoking the given providers in order. The
// composition contract: earlier providers' entries are consulted first, so
// a dynamic provider placed ahead of the static one takes precedence over
// the base policy but can never override an explicit deny an earlier
// provider emits.
func NewChecker(providers ...Provider) *Checker {
	return &Checker{providers: providers}
}

// EffectiveACL assembles the ordered effective ACL for a node by
// concatenating each provider's entries in declaration order.
func (c *Checker) EffectiveACL(ctx context.Context, node Node, authCtx auth.AuthContext) (ACL, error) {
	var acl ACL
	for _, provider := range c.providers {
		entries, err := provider.ACL(ctx, node, authCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to compute acl for %s node: %w", node.Kind, err)
		}
		acl = append(acl, entries...)
	}
	return acl, nil
}

// Authorize scans the node's effective ACL for the first entry whose
// principal reference matches the caller and whose permission set contains
// the requested permission; that entry's effect decides. Any resolution
// error denies: configuration errors and backend failures must never fail
// open.
func (c *Checker) Authorize(ctx context.Context, node Node, authCtx auth.AuthContext, permission string) (Decision, error) {
	acl, err := c.EffectiveACL(ctx, node, authCtx)
	if err != nil {
		slog.Warn("Authorization fails closed on resolution error",
			"user", authCtx.UserID, "node", node.Kind, "id", node.ID,
			"permission", permission, "err", err)
		return Decision{Allowed: false}, err
	}

	for i := range acl {
		entry := acl[i]
		if entry.Matches(authCtx) && entry.Grants(permission) {
			return Decision{Allowed: entry.Effect == Allow, Matched: &entry}, nil
		}
	}
	// the static base policy ends with a catch-all deny, so an unmatched
	// request only happens with a custom provider chain
	return Decision{Allowed: false}, nil
}
