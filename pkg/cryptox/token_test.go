package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{TokenSize128, TokenSize256, TokenSize512, 24} {
		a, err := GenerateToken(size)
		require.NoError(t, err)
		b, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, a, b)

		raw, err := base64.RawURLEncoding.DecodeString(a)
		require.NoError(t, err)
		require.Len(t, raw, size)
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := GenerateToken(size)
		require.Error(t, err)
	}
}

func TestFingerprintToken(t *testing.T) {
	a := FingerprintToken("refresh-token")
	require.Len(t, a, 43)
	require.Equal(t, a, FingerprintToken("refresh-token"))
	require.NotEqual(t, a, FingerprintToken("refresh-tokem"))
}
