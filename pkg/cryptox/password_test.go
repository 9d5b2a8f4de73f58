package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	SetPepper("test-pepper")
	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	for _, pw := range []string{"password123", "", "p@$$w0rd!#%&*()", "日本語のパスワード", strings.Repeat("a", 1000)} {
		hash, err := HashPassword(pw)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))
		require.Len(t, strings.Split(hash, "$"), 6)
		require.NoError(t, VerifyPassword(pw, hash))
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.ErrorIs(t, VerifyPassword("battery staple", hash), ErrPasswordMismatch)
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	for _, h := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
	} {
		require.ErrorIs(t, VerifyPassword("x", h), ErrInvalidHash, "hash %q", h)
	}
}

func TestHashPassword_PepperIntegration(t *testing.T) {
	hash, err := HashPassword("peppered")
	require.NoError(t, err)

	SetPepper("another-pepper")
	t.Cleanup(func() { SetPepper("test-pepper") })

	require.ErrorIs(t, VerifyPassword("peppered", hash), ErrPasswordMismatch)
}

func TestLoadPepper(t *testing.T) {
	t.Cleanup(func() { SetPepper("test-pepper") })
	path := filepath.Join(t.TempDir(), "pepper")

	require.NoError(t, LoadPepper(path))
	first, err := currentPepper()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	SetPepper("")
	require.NoError(t, LoadPepper(path))
	second, err := currentPepper()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestCheckPasswordPolicy(t *testing.T) {
	require.ErrorIs(t, CheckPasswordPolicy("short"), ErrWeakPassword)
	require.NoError(t, CheckPasswordPolicy("long enough pw"))
}
