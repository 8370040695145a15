package app

import (
	"context"
)

// UniquenessGuard rejects email/username collisions before a write. It is a
// fast path only; the unique indexes remain authoritative.
type UniquenessGuard struct {
	users UserStore
}

func NewUniquenessGuard(users UserStore) *UniquenessGuard {
	return &UniquenessGuard{users: users}
}

// CheckOnCreate expects normalized email and username.
func (g *UniquenessGuard) CheckOnCreate(ctx context.Context, email, username string) error {
	byEmail, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	byUsername, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	verr := &ValidationError{}
	if byEmail != nil {
		verr.Add("email", msgTaken)
	}
	if byUsername != nil {
		verr.Add("username", msgTaken)
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// CheckOnUpdate looks for another user already holding nextEmail or
// nextUsername. Empty values are not being changed.
func (g *UniquenessGuard) CheckOnUpdate(ctx context.Context, actingUsername, nextEmail, nextUsername string) error {
	if nextEmail == "" && nextUsername == "" {
		return nil
	}

	conflict, err := g.users.FindConflict(ctx, actingUsername, nextEmail, nextUsername)
	if err != nil {
		return err
	}
	if conflict == nil {
		return nil
	}

	verr := &ValidationError{}
	if nextEmail != "" && conflict.Email == nextEmail {
		verr.Add("email", msgTaken)
	}
	if nextUsername != "" && conflict.Username == nextUsername {
		verr.Add("username", msgTaken)
	}
	if verr.Empty() {
		// The store matched case-insensitively on a value we compare exactly.
		verr.Add("email or username", msgTaken)
	}
	return verr
}
