package directory

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable is returned by Backend implementations when the
// underlying directory cannot be reached. Callers doing single-principal
// lookups must propagate it; bulk listings degrade to empty instead.
var ErrBackendUnavailable = errors.New("directory backend unavailable")

// PrincipalNotFoundError is returned when a principal id does not exist in
// the directory.
type PrincipalNotFoundError struct {
	ID   string
	Kind PrincipalKind
}

func (e PrincipalNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsNotFound reports whether err is a PrincipalNotFoundError.
func IsNotFound(err error) bool {
	var nf PrincipalNotFoundError
	return errors.As(err, &nf)
}
