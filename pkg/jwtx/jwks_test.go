package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeySet_AddSigner(t *testing.T) {
	km, err := NewEphemeralKeyManager(KeyManagerOptions{Issuer: "erp", NumKeys: 1})
	require.NoError(t, err)
	s := km.GetSigner()

	ks := NewKeySet()
	require.False(t, ks.IsReady())
	require.NoError(t, ks.AddSigner(s))
	require.True(t, ks.IsReady())

	got, err := ks.Get(s.KID())
	require.NoError(t, err)
	require.Len(t, got, ed25519.PublicKeySize)

	jwks := ks.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)
	require.Equal(t, s.KID(), jwks.Keys[0].Kid)

	_, err = ks.Get("missing")
	require.ErrorIs(t, err, ErrNoKey)
}

func TestParseJWKToKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	key, err := parseJWKToKey(NewEd25519JWK("k1", "sig", "EdDSA", pub))
	require.NoError(t, err)
	require.Equal(t, pub, key)

	for name, j := range map[string]JWK{
		"wrong kty":   {Kty: "RSA"},
		"wrong curve": {Kty: "OKP", Crv: "X25519", X: "abc"},
		"bad base64":  {Kty: "OKP", Crv: "Ed25519", X: "!!!"},
		"short key":   {Kty: "OKP", Crv: "Ed25519", X: "AAAA"},
	} {
		_, err := parseJWKToKey(j)
		require.Error(t, err, name)
	}
}
