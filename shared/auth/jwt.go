package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSecret    = errors.New("token signing secret is not set")
	ErrUnsupportedAlg   = errors.New("unsupported token signing algorithm")
	ErrTokenExpired     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrInvalidToken     = errors.New("invalid token")
)

var supportedHMACMethods = []string{
	jwt.SigningMethodHS256.Name,
	jwt.SigningMethodHS384.Name,
	jwt.SigningMethodHS512.Name,
}

// JWTAuthenticator represents a JWT based authenticator.
type JWTAuthenticator struct {
	secret   []byte
	method   jwt.SigningMethod
	audience string
	issuer   string
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance. It fails when the secret
// is empty or the algorithm is not one of the HMAC methods.
func NewJWTAuthenticator(secret, algorithm, audience, issuer string) (*JWTAuthenticator, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Name
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, algorithm)
	}

	return &JWTAuthenticator{
		secret:   []byte(secret),
		method:   method,
		audience: audience,
		issuer:   issuer,
	}, nil
}

// Issuer returns the issuer written into and required from tokens.
func (a *JWTAuthenticator) Issuer() string {
	return a.issuer
}

// Audience returns the audience written into and required from tokens.
func (a *JWTAuthenticator) Audience() string {
	return a.audience
}

// GenerateToken signs the given claims.
// This is generic and accepts any type that implements jwt.Claims.
func (a *JWTAuthenticator) GenerateToken(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(a.method, claims)

	tokenStr, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// ValidateTokenWithClaims validates a JWT token and parses it into the provided claims type.
// The claims parameter should be a pointer to a struct that implements jwt.Claims.
// Errors are normalized to ErrTokenExpired, ErrInvalidSignature or ErrInvalidToken.
func (a *JWTAuthenticator) ValidateTokenWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods(supportedHMACMethods),
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != a.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return a.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return token, nil
}
