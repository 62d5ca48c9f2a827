package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T, scheme Scheme) *Hasher {
	t.Helper()
	h, err := NewHasher(scheme, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestHasher_RoundTrip(t *testing.T) {
	for _, scheme := range []Scheme{SchemeBcrypt, SchemeArgon2id} {
		t.Run(string(scheme), func(t *testing.T) {
			h := newTestHasher(t, scheme)

			hash, err := h.HashPassword("p1")
			require.NoError(t, err)
			assert.NotEqual(t, "p1", hash)

			ok, err := h.VerifyPassword("p1", hash)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.VerifyPassword("wrong", hash)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestHasher_HashIsSalted(t *testing.T) {
	h := newTestHasher(t, SchemeBcrypt)

	a, err := h.HashPassword("same-password")
	require.NoError(t, err)
	b, err := h.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHasher_TruncatesLongPasswords(t *testing.T) {
	h := newTestHasher(t, SchemeBcrypt)
	long := strings.Repeat("a", MaxPasswordBytes) + "tail-that-is-ignored"

	hash, err := h.HashPassword(long)
	require.NoError(t, err)

	ok, err := h.VerifyPassword(long[:MaxPasswordBytes], hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.VerifyPassword(strings.Repeat("a", MaxPasswordBytes)+"different-tail", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.VerifyPassword(strings.Repeat("a", MaxPasswordBytes-1), hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_VerifiesAcrossSchemes(t *testing.T) {
	legacy := newTestHasher(t, SchemeBcrypt)
	hash, err := legacy.HashPassword("p1")
	require.NoError(t, err)

	current := newTestHasher(t, SchemeArgon2id)
	ok, err := current.VerifyPassword("p1", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_MalformedHash(t *testing.T) {
	h := newTestHasher(t, SchemeBcrypt)

	ok, err := h.VerifyPassword("p1", "plaintext")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMalformedHash)

	ok, err = h.VerifyPassword("p1", "$2a$10$short")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMalformedHash)
}

func TestNewHasher_RejectsUnknownScheme(t *testing.T) {
	_, err := NewHasher("md5", 0)
	assert.ErrorIs(t, err, ErrUnknownScheme)

	_, err = NewHasher(SchemeBcrypt, 99)
	assert.Error(t, err)
}
