package security

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts. Longer passwords are truncated
// before hashing and before verification so both sides see the same bytes.
const MaxPasswordBytes = 72

// Scheme names a password hashing algorithm.
type Scheme string

const (
	SchemeBcrypt   Scheme = "bcrypt"
	SchemeArgon2id Scheme = "argon2id"
)

var (
	ErrUnknownScheme = errors.New("unknown password hash scheme")
	ErrMalformedHash = errors.New("malformed password hash")
)

// Hasher hashes new passwords with one scheme and verifies hashes from any supported scheme.
type Hasher struct {
	scheme     Scheme
	bcryptCost int
	argon      argon2.Config
}

// NewHasher creates a Hasher for the given scheme. A zero bcryptCost uses bcrypt.DefaultCost.
func NewHasher(scheme Scheme, bcryptCost int) (*Hasher, error) {
	switch scheme {
	case SchemeBcrypt, SchemeArgon2id:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &Hasher{
		scheme:     scheme,
		bcryptCost: bcryptCost,
		argon:      argon2.DefaultConfig(),
	}, nil
}

// Scheme returns the scheme used for new hashes.
func (h *Hasher) Scheme() Scheme {
	return h.scheme
}

// HashPassword returns a salted hash of the password.
func (h *Hasher) HashPassword(password string) (string, error) {
	pw := truncate(password)

	switch h.scheme {
	case SchemeArgon2id:
		encoded, err := h.argon.HashEncoded(pw)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	default:
		hash, err := bcrypt.GenerateFromPassword(pw, h.bcryptCost)
		if err != nil {
			return "", err
		}
		return string(hash), nil
	}
}

// VerifyPassword reports whether password matches hash. A mismatch is (false, nil);
// an error means the stored hash could not be interpreted.
func (h *Hasher) VerifyPassword(password, hash string) (bool, error) {
	pw := truncate(password)

	switch {
	case strings.HasPrefix(hash, "$argon2"):
		ok, err := argon2.VerifyEncoded(pw, []byte(hash))
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
		}
		return ok, nil
	case strings.HasPrefix(hash, "$2"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), pw)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	default:
		return false, ErrMalformedHash
	}
}

func truncate(password string) []byte {
	pw := []byte(password)
	if len(pw) > MaxPasswordBytes {
		pw = pw[:MaxPasswordBytes]
	}
	return pw
}
