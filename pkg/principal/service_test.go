package principal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-ugm/pkg/auth"
	"github.com/tendant/simple-ugm/pkg/config"
	"github.com/tendant/simple-ugm/pkg/delegation"
	"github.com/tendant/simple-ugm/pkg/directory"
)

func setupService(t *testing.T) (*Service, *directory.InMemDirectory) {
	ctx := context.Background()

	dir := directory.NewInMemDirectory()
	require.NoError(t, dir.CreateGroup(ctx, directory.PrincipalRecord{ID: "managers_g", MemberIDs: []string{"alice"}}))
	require.NoError(t, dir.CreateGroup(ctx, directory.PrincipalRecord{ID: "staff_g", MemberIDs: []string{"bob"}}))
	require.NoError(t, dir.CreateGroup(ctx, directory.PrincipalRecord{ID: "other_g", MemberIDs: []string{"dave"}}))
	require.NoError(t, dir.CreateUser(ctx, directory.PrincipalRecord{
		ID:         "alice",
		Attributes: map[string]string{"uid": "alice", "login": "alice"},
		GroupIDs:   []string{"managers_g"},
	}))
	require.NoError(t, dir.CreateUser(ctx, directory.PrincipalRecord{
		ID:         "bob",
		Attributes: map[string]string{"uid": "bob", "login": "bob"},
		GroupIDs:   []string{"staff_g"},
	}))
	require.NoError(t, dir.CreateUser(ctx, directory.PrincipalRecord{
		ID:         "dave",
		Attributes: map[string]string{"uid": "dave", "login": "dave"},
		GroupIDs:   []string{"other_g"},
	}))

	session, err := directory.NewSession(dir.UsersFactory(), dir.GroupsFactory())
	require.NoError(t, err)
	users := directory.NewUsersContainer(session)
	groups := directory.NewGroupsContainer(session)

	rules := delegation.NewRuleSet("")
	require.NoError(t, rules.PutRule(delegation.Rule{
		AdminGroupID: "managers_g",
		Target:       []string{"staff_g"},
	}))

	cfg := config.UGMConfig{
		DelegationEnabled: true,
		AdminUser:         "admin",
		AdminRoleNames:    "admin,manager",
		UserIDAttr:        "uid",
		UserLoginAttr:     "login",
	}
	resolver := delegation.NewResolver(rules, groups, cfg)

	return NewService(users, groups, dir, resolver, cfg), dir
}

func TestService_CreateUser(t *testing.T) {
	ctx := context.Background()
	service, _ := setupService(t)

	t.Run("Success", func(t *testing.T) {
		err := service.CreateUser(ctx, directory.PrincipalRecord{
			ID:         "carol",
			Attributes: map[string]string{"uid": "carol", "login": "carol"},
			GroupIDs:   []string{"staff_g"},
		})
		require.NoError(t, err)

		carol, err := service.GetUser(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, []string{"staff_g"}, carol.GroupIDs())

		// membership is visible through the groups container right away
		staff, err := service.GetGroup(ctx, "staff_g")
		require.NoError(t, err)
		assert.Contains(t, staff.MemberIDs(), "carol")
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		err := service.CreateUser(ctx, directory.PrincipalRecord{
			ID:         "bob",
			Attributes: map[string]string{"uid": "bob", "login": "bob2"},
		})
		require.Error(t, err)

		var exists ErrPrincipalAlreadyExists
		require.ErrorAs(t, err, &exists)
		assert.Equal(t, "bob", exists.ID)
	})

	t.Run("DuplicateLogin", func(t *testing.T) {
		err := service.CreateUser(ctx, directory.PrincipalRecord{
			ID:         "robert",
			Attributes: map[string]string{"uid": "robert", "login": "bob"},
		})
		require.Error(t, err)

		var notUnique ErrLoginNotUnique
		require.ErrorAs(t, err, &notUnique)
		assert.Equal(t, "bob", notUnique.Login)
	})

	t.Run("MissingID", func(t *testing.T) {
		err := service.CreateUser(ctx, directory.PrincipalRecord{})
		assert.Error(t, err)
	})
}

func TestService_CreateGroup(t *testing.T) {
	ctx := context.Background()
	service, _ := setupService(t)

	require.NoError(t, service.CreateGroup(ctx, directory.PrincipalRecord{ID: "new_g"}))

	err := service.CreateGroup(ctx, directory.PrincipalRecord{ID: "new_g"})
	var exists ErrPrincipalAlreadyExists
	require.ErrorAs(t, err, &exists)
}

func TestService_Membership(t *testing.T) {
	ctx := context.Background()
	service, _ := setupService(t)

	require.NoError(t, service.AddMember(ctx, "staff_g", "dave"))
	staff, err := service.GetGroup(ctx, "staff_g")
	require.NoError(t, err)
	assert.Contains(t, staff.MemberIDs(), "dave")

	require.NoError(t, service.RemoveMember(ctx, "staff_g", "dave"))
	staff, err = service.GetGroup(ctx, "staff_g")
	require.NoError(t, err)
	assert.NotContains(t, staff.MemberIDs(), "dave")
}

func TestService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	service, _ := setupService(t)

	require.NoError(t, service.DeleteUser(ctx, "bob"))

	_, err := service.GetUser(ctx, "bob")
	assert.True(t, directory.IsNotFound(err))

	staff, err := service.GetGroup(ctx, "staff_g")
	require.NoError(t, err)
	assert.NotContains(t, staff.MemberIDs(), "bob")
}

func TestService_ListUsers(t *testing.T) {
	ctx := context.Background()
	service, dir := setupService(t)

	t.Run("DelegateSeesTargetUsersOnly", func(t *testing.T) {
		aliceCtx := auth.AuthContext{UserID: "alice", GroupIDs: []string{"managers_g"}}
		ids, err := service.ListUsers(ctx, aliceCtx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"bob"}, ids)
	})

	t.Run("AdminSeesEveryone", func(t *testing.T) {
		adminCtx := auth.AuthContext{UserID: "root", Roles: []string{"admin"}}
		ids, err := service.ListUsers(ctx, adminCtx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alice", "bob", "dave"}, ids)
	})

	t.Run("NonDelegateSeesFullListing", func(t *testing.T) {
		daveCtx := auth.AuthContext{UserID: "dave", GroupIDs: []string{"other_g"}}
		ids, err := service.ListUsers(ctx, daveCtx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alice", "bob", "dave"}, ids)
	})

	t.Run("DegradesToEmptyWhenUnavailable", func(t *testing.T) {
		dir.SetUnavailable(true)
		defer dir.SetUnavailable(false)

		adminCtx := auth.AuthContext{UserID: "root", Roles: []string{"admin"}}
		ids, err := service.ListUsers(ctx, adminCtx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestService_ListGroups(t *testing.T) {
	ctx := context.Background()
	service, _ := setupService(t)

	t.Run("DelegateSeesTargetGroupsOnly", func(t *testing.T) {
		aliceCtx := auth.AuthContext{UserID: "alice", GroupIDs: []string{"managers_g"}}
		ids, err := service.ListGroups(ctx, aliceCtx)
		require.NoError(t, err)
		assert.Equal(t, []string{"staff_g"}, ids)
	})

	t.Run("AdminSeesEveryGroup", func(t *testing.T) {
		adminCtx := auth.AuthContext{UserID: "root", Roles: []string{"admin"}}
		ids, err := service.ListGroups(ctx, adminCtx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"managers_g", "staff_g", "other_g"}, ids)
	})
}
