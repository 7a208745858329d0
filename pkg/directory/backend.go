package directory

import "context"

// Backend is the abstract directory handle a PrincipalContainer reads from.
// Implementations wrap whatever actually stores principals (in-memory store,
// SQL database, LDAP server). A handle is bound to one generation of
// directory state and is swapped wholesale on Session.Refresh.
type Backend interface {
	// Get returns the record for the given principal id, or a
	// PrincipalNotFoundError when the id does not exist.
	Get(ctx context.Context, id string) (PrincipalRecord, error)

	// Search returns the ids and requested attributes of all records
	// matching the given attribute constraints. A nil criteria matches
	// everything.
	Search(ctx context.Context, criteria map[string]string, attrs []string) ([]SearchResult, error)

	// List enumerates all principal ids known to this handle.
	List(ctx context.Context) ([]string, error)
}

// BackendFactory acquires a fresh Backend handle for the current directory
// state. Called by the Session on initial bind and on every Refresh.
type BackendFactory func() (Backend, error)

// Mutator is the write surface of a directory store. It is separate from
// Backend because containers never write; structural mutations go through
// a management service which must invalidate the containers afterwards.
type Mutator interface {
	CreateUser(ctx context.Context, rec PrincipalRecord) error
	CreateGroup(ctx context.Context, rec PrincipalRecord) error
	DeleteUser(ctx context.Context, id string) error
	DeleteGroup(ctx context.Context, id string) error
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
}
