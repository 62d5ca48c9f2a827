package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/config"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/model"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/repository"
	authtypes "github.com/vasapolrittideah/challan-api/services/challan-service/pkg/types"
	"github.com/vasapolrittideah/challan-api/shared/auth"
	"github.com/vasapolrittideah/challan-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Signup(ctx context.Context, params SignupParams) error
	Login(ctx context.Context, params LoginParams) (*authtypes.Tokens, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
}

// SignupParams defines the parameters for user signup.
type SignupParams struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type authUsecase struct {
	userRepo repository.UserRepository
	hasher   *security.Hasher
	jwtAuth  *auth.JWTAuthenticator
	tokenCfg config.TokenConfig
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	hasher *security.Hasher,
	jwtAuth *auth.JWTAuthenticator,
	tokenCfg config.TokenConfig,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		jwtAuth:  jwtAuth,
		tokenCfg: tokenCfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (u *authUsecase) Signup(ctx context.Context, params SignupParams) error {
	if params.Password != params.ConfirmPassword {
		return ErrPasswordMismatch
	}

	_, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return err
	}

	passwordHash, err := u.hasher.HashPassword(params.Password)
	if err != nil {
		return err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return ErrEmailTaken
		}
		return err
	}

	u.logger.Info().Str("user_id", user.ID.Hex()).Msg("user signed up")
	return nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*authtypes.Tokens, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	ok, err := u.hasher.VerifyPassword(params.Password, user.PasswordHash)
	if err != nil {
		u.logger.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("stored password hash is unreadable")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := u.generateToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	return &authtypes.Tokens{AccessToken: accessToken}, nil
}

func (u *authUsecase) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *authUsecase) generateToken(userID string) (string, error) {
	now := u.now()
	claims := authtypes.JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenCfg.AccessTokenExpiresIn())),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    u.jwtAuth.Issuer(),
			Audience:  jwt.ClaimStrings{u.jwtAuth.Audience()},
		},
	}

	return u.jwtAuth.GenerateToken(claims)
}
