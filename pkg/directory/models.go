package directory

// PrincipalKind distinguishes the two principal containers.
type PrincipalKind string

const (
	KindUser  PrincipalKind = "user"
	KindGroup PrincipalKind = "group"
)

// PrincipalRecord is the raw directory entry returned by a Backend.
// MemberIDs is populated for group records, GroupIDs for user records.
type PrincipalRecord struct {
	ID         string
	Kind       PrincipalKind
	Attributes map[string]string
	MemberIDs  []string
	GroupIDs   []string
}

// SearchResult is a single (id, attributes) pair returned by Backend.Search
type SearchResult struct {
	ID         string
	Attributes map[string]string
}

// Principal is a materialized principal owned by a PrincipalContainer.
// It reflects the backend record as of the lazy fetch that created it and
// stays unchanged until the container is invalidated.
type Principal struct {
	ID         string
	Kind       PrincipalKind
	Attributes map[string]string

	memberIDs []string
	groupIDs  []string
}

func newPrincipal(rec PrincipalRecord) *Principal {
	attrs := make(map[string]string, len(rec.Attributes))
	for k, v := range rec.Attributes {
		attrs[k] = v
	}
	return &Principal{
		ID:         rec.ID,
		Kind:       rec.Kind,
		Attributes: attrs,
		memberIDs:  append([]string(nil), rec.MemberIDs...),
		groupIDs:   append([]string(nil), rec.GroupIDs...),
	}
}

// MemberIDs returns the member user ids of a group principal.
func (p *Principal) MemberIDs() []string {
	return append([]string(nil), p.memberIDs...)
}

// GroupIDs returns the group ids a user principal belongs to.
func (p *Principal) GroupIDs() []string {
	return append([]string(nil), p.groupIDs...)
}
