package principal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-ugm/pkg/auth"
	"github.com/tendant/simple-ugm/pkg/config"
	"github.com/tendant/simple-ugm/pkg/delegation"
	"github.com/tendant/simple-ugm/pkg/directory"
)

// Service provides user and group management on top of the principal
// containers. Every structural mutation goes through the directory Mutator
// and is followed by a container invalidation, so other code never observes
// the mutation through a stale backend handle.
type Service struct {
	users    *directory.PrincipalContainer
	groups   *directory.PrincipalContainer
	mutator  directory.Mutator
	resolver *delegation.Resolver
	cfg      config.UGMConfig
}

// NewService creates a principal management service.
func NewService(users, groups *directory.PrincipalContainer, mutator directory.Mutator,
	resolver *delegation.Resolver, cfg config.UGMConfig) *Service {
	return &Service{
		users:    users,
		groups:   groups,
		mutator:  mutator,
		resolver: resolver,
		cfg:      cfg,
	}
}

// GetUser returns the materialized user principal for id.
func (s *Service) GetUser(ctx context.Context, id string) (*directory.Principal, error) {
	return s.users.Get(ctx, id)
}

// GetGroup returns the materialized group principal for id.
func (s *Service) GetGroup(ctx context.Context, id string) (*directory.Principal, error) {
	return s.groups.Get(ctx, id)
}

// CreateUser adds a user to the directory. The id must be unused and the
// login attribute, when distinct from the id attribute, must be unique
// across users.
func (s *Service) CreateUser(ctx context.Context, rec directory.PrincipalRecord) error {
	if err := s.checkNotExists(ctx, s.users, rec.ID); err != nil {
		return err
	}
	if err := s.checkLoginUnique(ctx, rec.ID, rec.Attributes[s.cfg.UserLoginAttr]); err != nil {
		return err
	}
	if err := s.mutator.CreateUser(ctx, rec); err != nil {
		return fmt.Errorf("failed to create user %s: %w", rec.ID, err)
	}
	return s.users.Invalidate()
}

// CreateGroup adds a group to the directory.
func (s *Service) CreateGroup(ctx context.Context, rec directory.PrincipalRecord) error {
	if err := s.checkNotExists(ctx, s.groups, rec.ID); err != nil {
		return err
	}
	if err := s.mutator.CreateGroup(ctx, rec); err != nil {
		return fmt.Errorf("failed to create group %s: %w", rec.ID, err)
	}
	return s.groups.Invalidate()
}

// DeleteUser removes a user from the directory.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.mutator.DeleteUser(ctx, id); err != nil {
		return err
	}
	return s.users.Invalidate()
}

// DeleteGroup removes a group from the directory.
func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	if err := s.mutator.DeleteGroup(ctx, id); err != nil {
		return err
	}
	return s.groups.Invalidate()
}

// AddMember adds a user to a group.
func (s *Service) AddMember(ctx context.Context, groupID, userID string) error {
	if err := s.mutator.AddMember(ctx, groupID, userID); err != nil {
		return err
	}
	return s.groups.Invalidate()
}

// RemoveMember removes a user from a group.
func (s *Service) RemoveMember(ctx context.Context, groupID, userID string) error {
	if err := s.mutator.RemoveMember(ctx, groupID, userID); err != nil {
		return err
	}
	return s.groups.Invalidate()
}

// ListUsers enumerates the user ids visible to the caller. For a delegate
// the listing is restricted to the users of its target groups; everyone
// else sees the full directory listing. Enumeration degrades to empty on
// backend unavailability.
func (s *Service) ListUsers(ctx context.Context, authCtx auth.AuthContext) ([]string, error) {
	if s.resolver.AppliesTo(authCtx) {
		admGID, err := s.resolver.AdminGroupID(authCtx)
		if err != nil {
			return nil, err
		}
		if admGID != "" {
			return s.resolver.TargetUserIDs(ctx, authCtx)
		}
	}

	var ids []string
	for id := range s.users.Iterate(ctx) {
		ids = append(ids, id)
	}
	return ids, nil
}

// ListGroups enumerates the group ids visible to the caller. For a delegate
// the listing is restricted to its target groups, in configured order.
func (s *Service) ListGroups(ctx context.Context, authCtx auth.AuthContext) ([]string, error) {
	if s.resolver.AppliesTo(authCtx) {
		admGID, err := s.resolver.AdminGroupID(authCtx)
		if err != nil {
			return nil, err
		}
		if admGID != "" {
			return s.resolver.TargetGroupIDs(authCtx)
		}
	}

	var ids []string
	for id := range s.groups.Iterate(ctx) {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Service) checkNotExists(ctx context.Context, container *directory.PrincipalContainer, id string) error {
	if id == "" {
		return fmt.Errorf("principal id is required")
	}
	_, err := container.Get(ctx, id)
	if err == nil {
		return ErrPrincipalAlreadyExists{ID: id}
	}
	if !directory.IsNotFound(err) {
		return fmt.Errorf("failed to check existence of %s: %w", id, err)
	}
	return nil
}

// checkLoginUnique searches for other users carrying the same login
// attribute value. Skipped when the login attribute is the id attribute,
// since id uniqueness already covers it.
func (s *Service) checkLoginUnique(ctx context.Context, id, login string) error {
	if login == "" || s.cfg.UserLoginAttr == s.cfg.UserIDAttr {
		return nil
	}
	backend, _ := s.users.Backend()
	results, err := backend.Search(ctx,
		map[string]string{s.cfg.UserLoginAttr: login},
		[]string{s.cfg.UserLoginAttr})
	if err != nil {
		return fmt.Errorf("failed to check login uniqueness: %w", err)
	}
	for _, result := range results {
		if result.ID != id {
			slog.Warn("Rejected user with duplicate login attribute",
				"id", id, "login", login, "existing", result.ID)
			return ErrLoginNotUnique{Login: login}
		}
	}
	return nil
}
