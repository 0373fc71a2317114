package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Store is the credential store consumed by the auth service.
//
// Insert must enforce email uniqueness atomically: of N concurrent inserts
// with the same email exactly one succeeds and the rest return
// ErrDuplicateEmail.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, email, passwordHash string) (*User, error)
}

// RegisteredEmails is implemented by stores that can cheaply tell an email is
// already taken. A false result proves nothing; Insert stays authoritative.
type RegisteredEmails interface {
	IsRegistered(ctx context.Context, email string) bool
}
