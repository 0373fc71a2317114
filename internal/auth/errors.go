package auth

import (
	"errors"
	"strings"
)

var (
	// ErrUserAlreadyExists is returned by Register when the email is taken.
	ErrUserAlreadyExists = errors.New("user with given email already exists")

	// Token verification outcomes. All of them surface as 401 Unauthorized.
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
)

// ValidationError reports every input rule that failed.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// IsTokenError reports whether err is one of the token verification outcomes.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken)
}
