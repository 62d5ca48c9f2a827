package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/config"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/model"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/repository"
	authtypes "github.com/vasapolrittideah/challan-api/services/challan-service/pkg/types"
	"github.com/vasapolrittideah/challan-api/shared/auth"
	"github.com/vasapolrittideah/challan-api/shared/security"
)

// countingRepo wraps a UserRepository and counts inserts. A non-nil lookupErr is
// returned from GetUserByEmail instead of the wrapped result.
type countingRepo struct {
	repository.UserRepository
	creates   int
	lookupErr error
}

func (r *countingRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	r.creates++
	return r.UserRepository.CreateUser(ctx, user)
}

func (r *countingRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	return r.UserRepository.GetUserByEmail(ctx, email)
}

type authFixture struct {
	usecase AuthUsecase
	repo    *countingRepo
	jwtAuth *auth.JWTAuthenticator
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	hasher, err := security.NewHasher(security.SchemeBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	jwtAuth, err := auth.NewJWTAuthenticator("test-secret", "HS256", "challan-service", "challan-service")
	require.NoError(t, err)

	repo := &countingRepo{UserRepository: repository.NewUserMemoryRepository()}
	logger := zerolog.Nop()
	tokenCfg := config.TokenConfig{AccessTokenExpireMinutes: 1440}

	return authFixture{
		usecase: NewAuthUsecase(repo, hasher, jwtAuth, tokenCfg, &logger),
		repo:    repo,
		jwtAuth: jwtAuth,
	}
}

func signupParams(email, password, confirm string) SignupParams {
	return SignupParams{Name: "A", Email: email, Password: password, ConfirmPassword: confirm}
}

func TestAuthUsecase_Signup(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	require.NoError(t, f.usecase.Signup(ctx, signupParams("a@x.com", "p1", "p1")))
	assert.Equal(t, 1, f.repo.creates)

	stored, err := f.repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", stored.Name)
	assert.NotEqual(t, "p1", stored.PasswordHash)
}

func TestAuthUsecase_Signup_PasswordMismatch(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	err := f.usecase.Signup(ctx, signupParams("a@x.com", "p1", "p2"))
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Zero(t, f.repo.creates)

	_, err = f.repo.GetUserByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestAuthUsecase_Signup_EmailTaken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	require.NoError(t, f.usecase.Signup(ctx, signupParams("a@x.com", "p1", "p1")))

	err := f.usecase.Signup(ctx, signupParams("a@x.com", "other", "other"))
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, f.repo.creates)
}

func TestAuthUsecase_Signup_InsertRaceIsEmailTaken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.repo.UserRepository.CreateUser(ctx, &model.User{Email: "a@x.com"})
	require.NoError(t, err)

	// The existence check misses the record, as it would when a concurrent signup
	// inserts between the check and the insert.
	f.repo.lookupErr = repository.ErrUserNotFound

	err = f.usecase.Signup(ctx, signupParams("a@x.com", "p1", "p1"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthUsecase_Signup_StoreFailure(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	boom := errors.New("connection reset")
	f.repo.lookupErr = boom

	err := f.usecase.Signup(ctx, signupParams("a@x.com", "p1", "p1"))
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, f.repo.creates)
}

func TestAuthUsecase_Login(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	require.NoError(t, f.usecase.Signup(ctx, signupParams("a@x.com", "p1", "p1")))
	user, err := f.repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	issuedAt := time.Now()
	tokens, err := f.usecase.Login(ctx, LoginParams{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)

	var claims authtypes.JWTClaims
	_, err = f.jwtAuth.ValidateTokenWithClaims(tokens.AccessToken, &claims)
	require.NoError(t, err)

	assert.Equal(t, user.ID.Hex(), claims.Subject)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.WithinDuration(t, issuedAt.Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAuthUsecase_Login_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	require.NoError(t, f.usecase.Signup(ctx, signupParams("a@x.com", "p1", "p1")))

	_, unknownErr := f.usecase.Login(ctx, LoginParams{Email: "nobody@x.com", Password: "p1"})
	_, wrongErr := f.usecase.Login(ctx, LoginParams{Email: "a@x.com", Password: "wrong"})

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthUsecase_Login_UnreadableHash(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	_, err := f.repo.CreateUser(ctx, &model.User{Email: "legacy@x.com", PasswordHash: "plaintext"})
	require.NoError(t, err)

	_, err = f.usecase.Login(ctx, LoginParams{Email: "legacy@x.com", Password: "plaintext"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthUsecase_Login_HonorsConfiguredLifetime(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	hasher, err := security.NewHasher(security.SchemeBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	logger := zerolog.Nop()
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	uc := &authUsecase{
		userRepo: f.repo,
		hasher:   hasher,
		jwtAuth:  f.jwtAuth,
		tokenCfg: config.TokenConfig{AccessTokenExpireMinutes: 30},
		logger:   &logger,
		now:      func() time.Time { return fixed },
	}
	require.NoError(t, uc.Signup(ctx, signupParams("a@x.com", "p1", "p1")))

	tokens, err := uc.Login(ctx, LoginParams{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)

	var claims authtypes.JWTClaims
	_, _, err = jwt.NewParser().ParseUnverified(tokens.AccessToken, &claims)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
}

func TestAuthUsecase_Profile(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	require.NoError(t, f.usecase.Signup(ctx, signupParams("a@x.com", "p1", "p1")))
	user, err := f.repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	profile, err := f.usecase.Profile(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", profile.Email)

	_, err = f.usecase.Profile(ctx, "ffffffffffffffffffffffff")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
