package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_DefaultCost(t *testing.T) {
	h, err := NewBcryptHasher(DefaultBcryptCost)
	require.NoError(t, err)

	hash, err := h.Hash("password1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}

func TestBcryptHasher_InvalidCost(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)

	_, err = NewBcryptHasher(0)
	assert.Error(t, err)
}

func TestPasswordHashers(t *testing.T) {
	fast, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hashers := map[string]PasswordHasher{
		"bcrypt": fast,
		"argon2": NewArgon2Hasher(),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			first, err := h.Hash("password1")
			require.NoError(t, err)
			second, err := h.Hash("password1")
			require.NoError(t, err)

			assert.NotEqual(t, first, second, "salt must differ per call")
			assert.True(t, h.Verify("password1", first))
			assert.True(t, h.Verify("password1", second))
			assert.False(t, h.Verify("password2", first))
			assert.False(t, h.Verify("", first))
		})
	}
}

func TestPasswordHashers_MalformedHashIsMismatch(t *testing.T) {
	fast, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	malformed := []string{
		"",
		"not-a-hash",
		"$2a$04$short",
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$!!!",
		"$argon2id$v=19$m=65536,t=0,p=0$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=999999999,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$",
	}

	for _, h := range []PasswordHasher{fast, NewArgon2Hasher()} {
		for _, hash := range malformed {
			assert.NotPanics(t, func() {
				assert.False(t, h.Verify("password1", hash), hash)
			})
		}
	}
}

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher("bcrypt", bcrypt.MinCost)
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	h, err = NewPasswordHasher("argon2", 0)
	require.NoError(t, err)
	assert.IsType(t, &Argon2Hasher{}, h)

	_, err = NewPasswordHasher("md5", 0)
	assert.Error(t, err)
}
