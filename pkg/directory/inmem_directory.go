package directory

import (
	"context"
	"fmt"
	"sync"
)

// InMemDirectory is an in-memory directory store. It implements Mutator and
// hands out read-only Backend handles for the Users and Groups sides,
// suitable for tests and small deployments without an external directory.
type InMemDirectory struct {
	mu          sync.RWMutex
	users       map[string]PrincipalRecord
	groups      map[string]PrincipalRecord
	unavailable bool
}

// NewInMemDirectory creates an empty in-memory directory.
func NewInMemDirectory() *InMemDirectory {
	return &InMemDirectory{
		users:  make(map[string]PrincipalRecord),
		groups: make(map[string]PrincipalRecord),
	}
}

// SetUnavailable makes every backend operation fail with
// ErrBackendUnavailable, simulating a directory outage.
func (d *InMemDirectory) SetUnavailable(unavailable bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unavailable = unavailable
}

// UsersFactory returns the backend factory for the users side.
func (d *InMemDirectory) UsersFactory() BackendFactory {
	return func() (Backend, error) {
		return &inmemBackend{dir: d, kind: KindUser}, nil
	}
}

// GroupsFactory returns the backend factory for the groups side.
func (d *InMemDirectory) GroupsFactory() BackendFactory {
	return func() (Backend, error) {
		return &inmemBackend{dir: d, kind: KindGroup}, nil
	}
}

// CreateUser adds a user record. Group memberships listed on the record are
// reflected on the referenced groups.
func (d *InMemDirectory) CreateUser(ctx context.Context, rec PrincipalRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.users[rec.ID]; exists {
		return fmt.Errorf("user already exists: %s", rec.ID)
	}
	rec.Kind = KindUser
	d.users[rec.ID] = cloneRecord(rec)
	for _, gid := range rec.GroupIDs {
		if group, ok := d.groups[gid]; ok {
			group.MemberIDs = appendUnique(group.MemberIDs, rec.ID)
			d.groups[gid] = group
		}
	}
	return nil
}

// CreateGroup adds a group record.
func (d *InMemDirectory) CreateGroup(ctx context.Context, rec PrincipalRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.groups[rec.ID]; exists {
		return fmt.Errorf("group already exists: %s", rec.ID)
	}
	rec.Kind = KindGroup
	d.groups[rec.ID] = cloneRecord(rec)
	for _, uid := range rec.MemberIDs {
		if user, ok := d.users[uid]; ok {
			user.GroupIDs = appendUnique(user.GroupIDs, rec.ID)
			d.users[uid] = user
		}
	}
	return nil
}

// DeleteUser removes a user and its membership references.
func (d *InMemDirectory) DeleteUser(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.users[id]
	if !ok {
		return PrincipalNotFoundError{ID: id, Kind: KindUser}
	}
	for _, gid := range user.GroupIDs {
		if group, ok := d.groups[gid]; ok {
			group.MemberIDs = removeID(group.MemberIDs, id)
			d.groups[gid] = group
		}
	}
	delete(d.users, id)
	return nil
}

// DeleteGroup removes a group and its membership references.
func (d *InMemDirectory) DeleteGroup(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	group, ok := d.groups[id]
	if !ok {
		return PrincipalNotFoundError{ID: id, Kind: KindGroup}
	}
	for _, uid := range group.MemberIDs {
		if user, ok := d.users[uid]; ok {
			user.GroupIDs = removeID(user.GroupIDs, id)
			d.users[uid] = user
		}
	}
	delete(d.groups, id)
	return nil
}

// AddMember adds a user to a group, keeping both sides of the membership
// relation consistent.
func (d *InMemDirectory) AddMember(ctx context.Context, groupID, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	group, ok := d.groups[groupID]
	if !ok {
		return PrincipalNotFoundError{ID: groupID, Kind: KindGroup}
	}
	user, ok := d.users[userID]
	if !ok {
		return PrincipalNotFoundError{ID: userID, Kind: KindUser}
	}
	group.MemberIDs = appendUnique(group.MemberIDs, userID)
	user.GroupIDs = appendUnique(user.GroupIDs, groupID)
	d.groups[groupID] = group
	d.users[userID] = user
	return nil
}

// RemoveMember removes a user from a group.
func (d *InMemDirectory) RemoveMember(ctx context.Context, groupID, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	group, ok := d.groups[groupID]
	if !ok {
		return PrincipalNotFoundError{ID: groupID, Kind: KindGroup}
	}
	user, ok := d.users[userID]
	if !ok {
		return PrincipalNotFoundError{ID: userID, Kind: KindUser}
	}
	group.MemberIDs = removeID(group.MemberIDs, userID)
	user.GroupIDs = removeID(user.GroupIDs, groupID)
	d.groups[groupID] = group
	d.users[userID] = user
	return nil
}

// inmemBackend is a read handle onto one side of an InMemDirectory.
type inmemBackend struct {
	dir  *InMemDirectory
	kind PrincipalKind
}

func (b *inmemBackend) records() map[string]PrincipalRecord {
	if b.kind == KindGroup {
		return b.dir.groups
	}
	return b.dir.users
}

func (b *inmemBackend) Get(ctx context.Context, id string) (PrincipalRecord, error) {
	b.dir.mu.RLock()
	defer b.dir.mu.RUnlock()
	if b.dir.unavailable {
		return PrincipalRecord{}, ErrBackendUnavailable
	}
	rec, ok := b.records()[id]
	if !ok {
		return PrincipalRecord{}, PrincipalNotFoundError{ID: id, Kind: b.kind}
	}
	return cloneRecord(rec), nil
}

func (b *inmemBackend) Search(ctx context.Context, criteria map[string]string, attrs []string) ([]SearchResult, error) {
	b.dir.mu.RLock()
	defer b.dir.mu.RUnlock()
	if b.dir.unavailable {
		return nil, ErrBackendUnavailable
	}
	var results []SearchResult
	for id, rec := range b.records() {
		if !matchesCriteria(rec, criteria) {
			continue
		}
		result := SearchResult{ID: id, Attributes: make(map[string]string, len(attrs))}
		for _, attr := range attrs {
			if v, ok := rec.Attributes[attr]; ok {
				result.Attributes[attr] = v
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (b *inmemBackend) List(ctx context.Context) ([]string, error) {
	b.dir.mu.RLock()
	defer b.dir.mu.RUnlock()
	if b.dir.unavailable {
		return nil, ErrBackendUnavailable
	}
	ids := make([]string, 0, len(b.records()))
	for id := range b.records() {
		ids = append(ids, id)
	}
	return ids, nil
}

func matchesCriteria(rec PrincipalRecord, criteria map[string]string) bool {
	for attr, want := range criteria {
		if rec.Attributes[attr] != want {
			return false
		}
	}
	return true
}

func cloneRecord(rec PrincipalRecord) PrincipalRecord {
	attrs := make(map[string]string, len(rec.Attributes))
	for k, v := range rec.Attributes {
		attrs[k] = v
	}
	rec.Attributes = attrs
	rec.MemberIDs = append([]string(nil), rec.MemberIDs...)
	rec.GroupIDs = append([]string(nil), rec.GroupIDs...)
	return rec
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
