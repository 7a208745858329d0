package directory

import (
	"fmt"
	"sync"
)

// Session owns the current pair of directory backend handles shared by the
// Users and Groups containers. Both handles belong to the same generation;
// Refresh swaps them together under one lock, so a membership query on
// either side never observes a users handle from one generation and a
// groups handle from another.
type Session struct {
	mu            sync.RWMutex
	generation    uint64
	usersFactory  BackendFactory
	groupsFactory BackendFactory
	users         Backend
	groups        Backend
}

// NewSession binds the initial backend handles and starts at generation 1.
func NewSession(usersFactory, groupsFactory BackendFactory) (*Session, error) {
	users, err := usersFactory()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire users backend: %w", err)
	}
	groups, err := groupsFactory()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire groups backend: %w", err)
	}
	return &Session{
		generation:    1,
		usersFactory:  usersFactory,
		groupsFactory: groupsFactory,
		users:         users,
		groups:        groups,
	}, nil
}

// Generation returns the current session generation. Containers compare it
// against the generation their cache was built for and drop stale entries
// on access.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Users returns the current users backend handle and its generation.
func (s *Session) Users() (Backend, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users, s.generation
}

// Groups returns the current groups backend handle and its generation.
func (s *Session) Groups() (Backend, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups, s.generation
}

// Refresh drops both backend handles, acquires fresh ones and advances the
// generation. This is the only mutator of session state. It must be called
// after any structural directory mutation performed outside the containers;
// the session does not detect external writes on its own.
func (s *Session) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.usersFactory()
	if err != nil {
		return fmt.Errorf("failed to acquire users backend: %w", err)
	}
	groups, err := s.groupsFactory()
	if err != nil {
		return fmt.Errorf("failed to acquire groups backend: %w", err)
	}
	s.users = users
	s.groups = groups
	s.generation++
	return nil
}
