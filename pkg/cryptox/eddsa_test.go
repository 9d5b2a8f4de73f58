package cryptox_test

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/OolalaDXB/outrenational/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateEd25519Key(t *testing.T) {
	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)
	require.IsType(t, ed25519.PrivateKey{}, key)
}

func TestLoadOrGenerateEd25519Key(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "signing.pem")

	first, err := cryptox.LoadOrGenerateEd25519Key(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := cryptox.LoadOrGenerateEd25519Key(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
