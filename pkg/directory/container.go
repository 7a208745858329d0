package directory

import (
	"context"
	"iter"
	"log/slog"
	"sync"
)

// PrincipalContainer is a lazy cache of materialized principals backed by
// one side of a directory Session. Principals are fetched on first access
// and kept until the container is invalidated or the session moves to a
// newer generation.
type PrincipalContainer struct {
	kind    PrincipalKind
	session *Session

	mu         sync.RWMutex
	cache      map[string]*Principal
	generation uint64
}

// NewUsersContainer creates the container for user principals.
func NewUsersContainer(session *Session) *PrincipalContainer {
	return newContainer(KindUser, session)
}

// NewGroupsContainer creates the container for group principals.
func NewGroupsContainer(session *Session) *PrincipalContainer {
	return newContainer(KindGroup, session)
}

func newContainer(kind PrincipalKind, session *Session) *PrincipalContainer {
	return &PrincipalContainer{
		kind:       kind,
		session:    session,
		cache:      make(map[string]*Principal),
		generation: session.Generation(),
	}
}

// Kind returns which principal kind this container holds.
func (c *PrincipalContainer) Kind() PrincipalKind {
	return c.kind
}

// Backend returns the current backend handle for this container's side of
// the session, plus its generation. Callers needing raw search access (for
// example attribute uniqueness checks) go through here so they always see
// the current generation.
func (c *PrincipalContainer) Backend() (Backend, uint64) {
	if c.kind == KindGroup {
		return c.session.Groups()
	}
	return c.session.Users()
}

// Get returns the cached principal for id, fetching it from the backend on
// a cache miss. Repeated calls return the same instance until the next
// invalidation. A cache built against an older session generation is
// dropped before the lookup, so the result always comes from the current
// backend handle.
func (c *PrincipalContainer) Get(ctx context.Context, id string) (*Principal, error) {
	backend, generation := c.Backend()

	c.mu.RLock()
	if c.generation == generation {
		if p, ok := c.cache[id]; ok {
			c.mu.RUnlock()
			return p, nil
		}
	}
	c.mu.RUnlock()

	rec, err := backend.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		c.cache = make(map[string]*Principal)
		c.generation = generation
	}
	// another Get may have raced us here; keep the first instance so
	// repeated lookups stay identity-stable
	if p, ok := c.cache[id]; ok {
		return p, nil
	}
	p := newPrincipal(rec)
	c.cache[id] = p
	return p, nil
}

// Invalidate drops this container's cache and refreshes the shared session,
// swapping both backend handles to a new generation. The sibling container
// notices the generation change on its next access and drops its own cache.
// Must be called after any structural mutation (principal added or removed)
// before other code observes the mutation's effects.
func (c *PrincipalContainer) Invalidate() error {
	c.mu.Lock()
	c.cache = make(map[string]*Principal)
	c.mu.Unlock()

	if err := c.session.Refresh(); err != nil {
		return err
	}

	c.mu.Lock()
	c.generation = c.session.Generation()
	c.mu.Unlock()
	return nil
}

// Iterate returns a restartable sequence of the principal ids currently
// enumerable from the backend, bypassing the cache. Backend enumeration
// failure degrades to an empty sequence with a logged warning so listings
// stay available during partial directory outages.
func (c *PrincipalContainer) Iterate(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		backend, _ := c.Backend()
		ids, err := backend.List(ctx)
		if err != nil {
			slog.Warn("Failed to enumerate directory, listing degrades to empty",
				"kind", c.kind, "err", err)
			return
		}
		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}
