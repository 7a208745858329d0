package principal

import "fmt"

// ErrPrincipalAlreadyExists is returned when creating a principal whose id
// is already taken.
type ErrPrincipalAlreadyExists struct {
	ID string
}

func (e ErrPrincipalAlreadyExists) Error() string {
	return fmt.Sprintf("principal already exists: %s", e.ID)
}

// ErrLoginNotUnique is returned when a user's login attribute collides with
// another user's.
type ErrLoginNotUnique struct {
	Login string
}

func (e ErrLoginNotUnique) Error() string {
	return fmt.Sprintf("user login not unique: %s", e.Login)
}
