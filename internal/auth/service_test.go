package auth

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/go-auth-api/internal/logging"
	"github.com/redmonkez12/go-auth-api/internal/user"
)

// failingStore simulates a store that has lost its connection.
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, errStoreDown
}

func (failingStore) Insert(context.Context, string, string) (*user.User, error) {
	return nil, errStoreDown
}

// knownEmailStore reports every email in known as registered and counts
// inserts that reach the underlying store.
type knownEmailStore struct {
	*user.MemoryStore
	known   map[string]bool
	inserts int
}

func (k *knownEmailStore) IsRegistered(_ context.Context, email string) bool {
	return k.known[user.NormalizeEmail(email)]
}

func (k *knownEmailStore) Insert(ctx context.Context, email, passwordHash string) (*user.User, error) {
	k.inserts++
	return k.MemoryStore.Insert(ctx, email, passwordHash)
}

func newTestService(t *testing.T, store user.Store) (*Service, TokenService) {
	t.Helper()

	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	tokens, err := NewJWTService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	svc, err := NewService(store, hasher, tokens, logging.New(io.Discard, false))
	require.NoError(t, err)

	return svc, tokens
}

func TestService_RegisterThenValidate(t *testing.T) {
	svc, _ := newTestService(t, user.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Register(ctx, "a@b.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "a@b.com", created.Email)
	assert.Empty(t, created.PasswordHash)

	validated, err := svc.ValidateCredentials(ctx, "a@b.com", "password1")
	require.NoError(t, err)
	require.NotNil(t, validated)
	assert.Equal(t, created.ID, validated.ID)
	assert.Equal(t, created.Email, validated.Email)
	assert.Empty(t, validated.PasswordHash)
}

func TestService_RegisterStoresHashNotPlaintext(t *testing.T) {
	store := user.NewMemoryStore()
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "password1")
	require.NoError(t, err)

	stored, err := store.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password1")))
}

func TestService_ValidateCredentialsRejects(t *testing.T) {
	svc, _ := newTestService(t, user.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "password1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "a@b.com", password: "password2"},
		{name: "empty password", email: "a@b.com", password: ""},
		{name: "unknown email", email: "nobody@b.com", password: "password1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ValidateCredentials(ctx, tt.email, tt.password)
			assert.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestService_EmailCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t, user.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Mixed@Case.com", "password1")
	require.NoError(t, err)

	got, err := svc.ValidateCredentials(ctx, "mixed@case.COM", "password1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mixed@case.com", got.Email)

	_, err = svc.Register(ctx, "MIXED@case.com", "password1")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestService_RegisterValidation(t *testing.T) {
	svc, _ := newTestService(t, user.NewMemoryStore())

	tests := []struct {
		name     string
		email    string
		password string
		want     []string
	}{
		{
			name:  "both empty",
			email: "", password: "",
			want: []string{
				"email should not be empty",
				"email must be an email",
				"password should not be empty",
				"password must be longer than or equal to 8 characters",
			},
		},
		{
			name:  "empty password only",
			email: "a@b.com", password: "",
			want: []string{
				"password should not be empty",
				"password must be longer than or equal to 8 characters",
			},
		},
		{
			name:  "bad email and short password",
			email: "not-an-email", password: "short",
			want: []string{"email must be an email", "password must be longer than or equal to 8 characters"},
		},
		{
			name:  "password too long",
			email: "a@b.com", password: string(make([]byte, 73)),
			want: []string{"password must be shorter than or equal to 72 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.email, tt.password)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.want, validationErr.Messages)
		})
	}
}

func TestService_RegisterDuplicate(t *testing.T) {
	store := user.NewMemoryStore()
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "password1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@b.com", "password2")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Equal(t, 1, store.Len())
}

func TestService_RegisterConcurrentDuplicate(t *testing.T) {
	store := user.NewMemoryStore()
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	const attempts = 10
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "race@b.com", "password1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, dupes int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrUserAlreadyExists):
			dupes++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, dupes)
	assert.Equal(t, 1, store.Len())
}

func TestService_StoreFailuresPropagate(t *testing.T) {
	svc, _ := newTestService(t, failingStore{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "password1")
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, ErrUserAlreadyExists)

	got, err := svc.ValidateCredentials(ctx, "a@b.com", "password1")
	assert.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, got)
}

func TestService_Login(t *testing.T) {
	svc, tokens := newTestService(t, user.NewMemoryStore())

	result, err := svc.Login(context.Background(), Identity{ID: 42, Email: "a@b.com"})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)

	claims, err := tokens.VerifyToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestService_RegisterKnownEmailSkipsInsert(t *testing.T) {
	store := &knownEmailStore{
		MemoryStore: user.NewMemoryStore(),
		known:       map[string]bool{"taken@b.com": true},
	}
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Taken@B.com", "password1")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Equal(t, 0, store.inserts)

	created, err := svc.Register(ctx, "fresh@b.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "fresh@b.com", created.Email)
	assert.Equal(t, 1, store.inserts)
}
