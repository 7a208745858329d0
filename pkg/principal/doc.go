// Package principal provides user and group management on top of the
// directory containers.
//
// # Overview
//
// The principal package provides:
//   - User/group create and delete with existence and login-uniqueness checks
//   - Group membership management
//   - Delegate-scoped listings (local managers only see their target sets)
//   - The mandatory container invalidation after every structural mutation
//
// # Basic Usage
//
//	import "github.com/tendant/simple-ugm/pkg/principal"
//
//	service := principal.NewService(users, groups, dir, resolver, cfg)
//
//	err := service.CreateUser(ctx, directory.PrincipalRecord{
//		ID:         "bob",
//		Attributes: map[string]string{"uid": "bob", "cn": "Bob"},
//		GroupIDs:   []string{"staff_g"},
//	})
//
//	ids, err := service.ListUsers(ctx, authCtx)
//
// # Related Packages
//
//   - pkg/directory - containers and directory stores
//   - pkg/delegation - the scoping rules applied to listings
package principal
