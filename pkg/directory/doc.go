// Package directory provides the principal containers that wrap an external
// directory backend.
//
// # Overview
//
// The directory package provides:
//   - Backend interface abstracting the directory store (lookup, search, enumeration)
//   - Session holding the current pair of backend handles and their generation
//   - PrincipalContainer lazily materializing user/group principals
//   - Explicit invalidation protocol for structural directory mutations
//   - In-memory and PostgreSQL reference stores
//
// # Basic Usage
//
//	import "github.com/tendant/simple-ugm/pkg/directory"
//
//	dir := directory.NewInMemDirectory()
//	session, err := directory.NewSession(dir.UsersFactory(), dir.GroupsFactory())
//	users := directory.NewUsersContainer(session)
//	groups := directory.NewGroupsContainer(session)
//
//	// Lazy fetch and cache
//	alice, err := users.Get(ctx, "alice")
//
//	// After any structural mutation performed outside the containers
//	dir.CreateUser(ctx, directory.PrincipalRecord{ID: "bob"})
//	err = users.Invalidate()
//
// # Invalidation Protocol
//
// Both containers share one Session. Invalidate on either container clears
// that container's cache and refreshes the session, swapping the users and
// groups backend handles together under one lock and advancing the
// generation. The sibling container compares generations on access and
// drops its own stale cache, so membership queries on either side always
// observe the same generation of directory state.
//
// The containers do not self-detect directory writes: whichever operation
// mutates the directory must call Invalidate before other code observes the
// mutation's effects.
//
// # Related Packages
//
//   - pkg/delegation - delegated administration rules and resolution
//   - pkg/principal - user and group management on top of the containers
package directory
