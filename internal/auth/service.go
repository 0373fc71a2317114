package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redmonkez12/go-auth-api/internal/logging"
	"github.com/redmonkez12/go-auth-api/internal/user"
)

// timingDummyPassword is hashed once at startup so lookups for unknown emails
// spend the same hashing work as a wrong password.
const timingDummyPassword = "timing-equalizer-not-a-password"

// Identity is the public projection of a user attached to a request.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// AccessToken is returned by a successful login.
type AccessToken struct {
	AccessToken string `json:"accessToken"`
}

// Service handles authentication business logic
type Service struct {
	users     user.Store
	hasher    PasswordHasher
	tokens    TokenService
	logger    *logging.Logger
	dummyHash string
}

func NewService(users user.Store, hasher PasswordHasher, tokens TokenService, logger *logging.Logger) (*Service, error) {
	dummyHash, err := hasher.Hash(timingDummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
	}, nil
}

// Register validates input, hashes the password and creates the user.
// The store's unique constraint decides duplicates. A store that knows an
// email is taken lets us skip the hash, but never replaces the constraint.
func (s *Service) Register(ctx context.Context, email, password string) (*user.User, error) {
	email = strings.TrimSpace(email)
	if err := validateRegistration(email, password); err != nil {
		return nil, err
	}

	if known, ok := s.users.(user.RegisteredEmails); ok && known.IsRegistered(ctx, email) {
		return nil, ErrUserAlreadyExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Insert(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID)

	return created.Public(), nil
}

// ValidateCredentials returns the user when the password matches and nil
// otherwise. Unknown email and wrong password are indistinguishable; only
// store failures produce an error.
func (s *Service) ValidateCredentials(ctx context.Context, email, password string) (*user.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, existing.PasswordHash) {
		return nil, nil
	}

	return existing.Public(), nil
}

// Login issues an access token for an already validated identity
func (s *Service) Login(ctx context.Context, identity Identity) (*AccessToken, error) {
	token, err := s.tokens.CreateToken(identity.ID, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &AccessToken{AccessToken: token}, nil
}
