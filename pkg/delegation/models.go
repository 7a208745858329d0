package delegation

// Rule grants the members of one admin group scoped administrative rights
// over a set of target groups. Default lists the target groups whose
// membership is pre-assigned and not re-assignable by the delegate; it is
// always a subset of Target. Entry order is significant and preserved
// through load and save.
type Rule struct {
	AdminGroupID string
	Target       []string
	Default      []string
}

// Manages reports whether gid is in the rule's target set.
func (r Rule) Manages(gid string) bool {
	for _, target := range r.Target {
		if target == gid {
			return true
		}
	}
	return false
}

// IsDefault reports whether gid is in the rule's default set. The caller is
// responsible for checking Manages first; use Resolver.IsDefault for the
// checked variant.
func (r Rule) IsDefault(gid string) bool {
	for _, def := range r.Default {
		if def == gid {
			return true
		}
	}
	return false
}

func (r Rule) validate() error {
	for _, def := range r.Default {
		if !r.Manages(def) {
			return InvalidConfigError{AdminGroupID: r.AdminGroupID, GroupID: def}
		}
	}
	return nil
}
