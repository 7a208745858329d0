// Package auth carries the identity of the calling principal through
// authorization decisions.
//
// # Overview
//
// The auth package provides:
//   - AuthContext, the authenticated identity (user id, roles, group ids)
//   - Construction of an AuthContext from verified JWT claims
//   - HMAC token parsing for services that receive raw bearer tokens
//
// An AuthContext is plain data. It makes no claims about what the
// principal may do; that is decided by the accesscontrol package.
//
// # Basic Usage
//
//	authCtx, err := auth.ParseToken(tokenStr, secret)
//	if err != nil {
//		// reject the request
//	}
//	if authCtx.HasRole("manager") {
//		// ...
//	}
//
// # Related Packages
//
//   - pkg/accesscontrol: evaluates what an AuthContext is permitted to do
//   - pkg/delegation: resolves delegated administration rights for an AuthContext
package auth
