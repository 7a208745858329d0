package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDirectory is a directory store backed by PostgreSQL. Like
// InMemDirectory it implements Mutator and hands out per-side Backend
// handles; it exists as a reference store for deployments without an
// external directory server.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a directory store on the given pool. The
// schema is expected to be installed (see migrations/ugm_db.sql).
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// UsersFactory returns the backend factory for the users side.
func (d *PostgresDirectory) UsersFactory() BackendFactory {
	return func() (Backend, error) {
		return &pgBackend{pool: d.pool, kind: KindUser}, nil
	}
}

// GroupsFactory returns the backend factory for the groups side.
func (d *PostgresDirectory) GroupsFactory() BackendFactory {
	return func() (Backend, error) {
		return &pgBackend{pool: d.pool, kind: KindGroup}, nil
	}
}

// CreateUser inserts a user record and its membership rows.
func (d *PostgresDirectory) CreateUser(ctx context.Context, rec PrincipalRecord) error {
	return d.createPrincipal(ctx, rec, KindUser)
}

// CreateGroup inserts a group record and its membership rows.
func (d *PostgresDirectory) CreateGroup(ctx context.Context, rec PrincipalRecord) error {
	return d.createPrincipal(ctx, rec, KindGroup)
}

func (d *PostgresDirectory) createPrincipal(ctx context.Context, rec PrincipalRecord, kind PrincipalKind) error {
	attrs, err := json.Marshal(rec.Attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO ugm_principal (id, principal_id, kind, attributes) VALUES ($1, $2, $3, $4)`,
		uuid.New(), rec.ID, string(kind), attrs)
	if err != nil {
		return fmt.Errorf("failed to insert %s %s: %w", kind, rec.ID, err)
	}

	type membership struct{ gid, uid string }
	var memberships []membership
	switch kind {
	case KindUser:
		for _, gid := range rec.GroupIDs {
			memberships = append(memberships, membership{gid: gid, uid: rec.ID})
		}
	case KindGroup:
		for _, uid := range rec.MemberIDs {
			memberships = append(memberships, membership{gid: rec.ID, uid: uid})
		}
	}
	for _, m := range memberships {
		_, err = tx.Exec(ctx,
			`INSERT INTO ugm_membership (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			m.gid, m.uid)
		if err != nil {
			return fmt.Errorf("failed to insert membership %s/%s: %w", m.gid, m.uid, err)
		}
	}
	return tx.Commit(ctx)
}

// DeleteUser removes a user record and its membership rows.
func (d *PostgresDirectory) DeleteUser(ctx context.Context, id string) error {
	return d.deletePrincipal(ctx, id, KindUser)
}

// DeleteGroup removes a group record and its membership rows.
func (d *PostgresDirectory) DeleteGroup(ctx context.Context, id string) error {
	return d.deletePrincipal(ctx, id, KindGroup)
}

func (d *PostgresDirectory) deletePrincipal(ctx context.Context, id string, kind PrincipalKind) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	memberCol := "user_id"
	if kind == KindGroup {
		memberCol = "group_id"
	}
	_, err = tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM ugm_membership WHERE %s = $1`, memberCol), id)
	if err != nil {
		return fmt.Errorf("failed to delete memberships of %s: %w", id, err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM ugm_principal WHERE principal_id = $1 AND kind = $2`, id, string(kind))
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return PrincipalNotFoundError{ID: id, Kind: kind}
	}
	return tx.Commit(ctx)
}

// AddMember adds a user to a group.
func (d *PostgresDirectory) AddMember(ctx context.Context, groupID, userID string) error {
	_, err := d.pool.Exec(ctx,
		`INSERT INTO ugm_membership (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to add member %s to %s: %w", userID, groupID, err)
	}
	return nil
}

// RemoveMember removes a user from a group.
func (d *PostgresDirectory) RemoveMember(ctx context.Context, groupID, userID string) error {
	_, err := d.pool.Exec(ctx,
		`DELETE FROM ugm_membership WHERE group_id = $1 AND user_id = $2`,
		groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member %s from %s: %w", userID, groupID, err)
	}
	return nil
}

// pgBackend is a read handle onto one side of a PostgresDirectory.
type pgBackend struct {
	pool *pgxpool.Pool
	kind PrincipalKind
}

func (b *pgBackend) Get(ctx context.Context, id string) (PrincipalRecord, error) {
	var attrsJSON []byte
	err := b.pool.QueryRow(ctx,
		`SELECT attributes FROM ugm_principal WHERE principal_id = $1 AND kind = $2`,
		id, string(b.kind)).Scan(&attrsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return PrincipalRecord{}, PrincipalNotFoundError{ID: id, Kind: b.kind}
	}
	if err != nil {
		return PrincipalRecord{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	attrs := make(map[string]string)
	if len(attrsJSON) > 0 {
		if err := json.Unmarshal(attrsJSON, &attrs); err != nil {
			return PrincipalRecord{}, fmt.Errorf("failed to unmarshal attributes of %s: %w", id, err)
		}
	}

	rec := PrincipalRecord{ID: id, Kind: b.kind, Attributes: attrs}
	switch b.kind {
	case KindUser:
		rec.GroupIDs, err = b.membershipIDs(ctx,
			`SELECT group_id FROM ugm_membership WHERE user_id = $1 ORDER BY group_id`, id)
	case KindGroup:
		rec.MemberIDs, err = b.membershipIDs(ctx,
			`SELECT user_id FROM ugm_membership WHERE group_id = $1 ORDER BY user_id`, id)
	}
	if err != nil {
		return PrincipalRecord{}, err
	}
	return rec, nil
}

func (b *pgBackend) membershipIDs(ctx context.Context, query, id string) ([]string, error) {
	rows, err := b.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var memberID string
		if err := rows.Scan(&memberID); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		ids = append(ids, memberID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return ids, nil
}

func (b *pgBackend) Search(ctx context.Context, criteria map[string]string, attrs []string) ([]SearchResult, error) {
	query := `SELECT principal_id, attributes FROM ugm_principal WHERE kind = $1`
	args := []interface{}{string(b.kind)}
	if len(criteria) > 0 {
		criteriaJSON, err := json.Marshal(criteria)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal search criteria: %w", err)
		}
		query += ` AND attributes @> $2`
		args = append(args, string(criteriaJSON))
	}
	query += ` ORDER BY principal_id`

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var id string
		var attrsJSON []byte
		if err := rows.Scan(&id, &attrsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		all := make(map[string]string)
		if len(attrsJSON) > 0 {
			if err := json.Unmarshal(attrsJSON, &all); err != nil {
				return nil, fmt.Errorf("failed to unmarshal attributes of %s: %w", id, err)
			}
		}
		result := SearchResult{ID: id, Attributes: make(map[string]string, len(attrs))}
		for _, attr := range attrs {
			if v, ok := all[attr]; ok {
				result.Attributes[attr] = v
			}
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return results, nil
}

func (b *pgBackend) List(ctx context.Context) ([]string, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT principal_id FROM ugm_principal WHERE kind = $1 ORDER BY principal_id`,
		string(b.kind))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan principal id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return ids, nil
}
