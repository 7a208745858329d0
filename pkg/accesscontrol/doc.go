// Package accesscontrol composes static role-based ACLs with dynamic
// delegation-derived grants into the effective, ordered permission list an
// authorization check scans.
//
// # Overview
//
// The accesscontrol package provides:
//   - Permission vocabulary and static base ACLs for the four node kinds
//   - Provider interface for ACL segments, invoked in declared order
//   - DelegationProvider translating local-manager grants into entries
//   - Checker evaluating first-match-wins authorization decisions
//
// # Basic Usage
//
//	import "github.com/tendant/simple-ugm/pkg/accesscontrol"
//
//	checker := accesscontrol.NewChecker(
//		accesscontrol.NewDelegationProvider(resolver),
//		accesscontrol.NewStaticProvider(),
//	)
//
//	decision, err := checker.Authorize(ctx,
//		accesscontrol.UserNode("bob"), authCtx,
//		accesscontrol.PermEditUser)
//	if err != nil {
//		// resolution failed; the decision is a deny
//	}
//
// # Composition
//
// The delegation provider runs ahead of the static provider, so delegated
// grants take precedence over the restrictive base policy. The base policy
// terminates with a catch-all deny; unmatched requests are denied by
// default.
//
// # Related Packages
//
//   - pkg/delegation - rule resolution feeding the dynamic entries
//   - pkg/auth - the AuthContext matched against entry principals
package accesscontrol
