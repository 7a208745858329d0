// Package delegation implements delegated administration (local manager)
// rules and their resolution.
//
// A configured admin group grants its members scoped administrative rights
// over a subset of other groups and their member users, without making them
// full administrators.
//
// # Overview
//
// The delegation package provides:
//   - Rule: target and default group sets per admin group
//   - RuleSet: XML-backed rule table with load-time validation
//   - Resolver: per-principal resolution of admin group, target groups and
//     target users, plus the eligibility gate
//
// # Basic Usage
//
//	import "github.com/tendant/simple-ugm/pkg/delegation"
//
//	rules := delegation.NewRuleSet(cfg.DelegationConfigPath)
//	if err := rules.Load(); err != nil {
//		// a rule whose default set leaks outside its target set
//		// aborts the load
//	}
//
//	resolver := delegation.NewResolver(rules, groups, cfg)
//	if resolver.AppliesTo(authCtx) {
//		gids, err := resolver.TargetGroupIDs(authCtx)
//		uids, err := resolver.TargetUserIDs(ctx, authCtx)
//	}
//
// # Configuration Resource
//
// The rule table persists as one element per admin group id, each holding
// ordered target and default lists:
//
//	<localmanager>
//	  <admingroupA>
//	    <target>
//	      <item>g1</item>
//	      <item>g2</item>
//	    </target>
//	    <default>
//	      <item>g1</item>
//	    </default>
//	  </admingroupA>
//	</localmanager>
//
// A missing resource yields an empty table: delegation is disabled, not
// broken.
//
// # Related Packages
//
//   - pkg/accesscontrol - composes delegation grants into effective ACLs
//   - pkg/directory - group membership enumeration
package delegation
