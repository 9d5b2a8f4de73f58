package app

import (
	"fmt"
	"log/slog"

	"github.com/OolalaDXB/outrenational/pkg/cryptox"
	"github.com/OolalaDXB/outrenational/pkg/jwtx"
)

// InitSigningKeys builds the KeyManager that signs access tokens.
//
// Without ERP_SIGNING_KEY_FILE the keys are generated in memory and every
// outstanding access token dies with the process. With it, the PEM key is
// loaded (or created on first start) and keeps a stable kid.
func InitSigningKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	}

	if cfg.SigningKeyFile != "" {
		pemBytes, err := cryptox.LoadOrGenerateEd25519Key(cfg.SigningKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load signing key: %w", err)
		}

		km, err := jwtx.NewKeyManagerFromPEM(opts, pemBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize key manager: %w", err)
		}

		logger.Info("signing key loaded",
			"algorithm", km.Algorithm(),
			"path", cfg.SigningKeyFile,
			"issuer", cfg.Issuer,
		)
		return km, nil
	}

	km, err := jwtx.NewEphemeralKeyManager(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
	}

	logger.Info("generated ephemeral signing keys",
		"algorithm", km.Algorithm(),
		"num_keys", km.NumSigners(),
		"issuer", cfg.Issuer,
	)
	logger.Warn("access tokens from a previous run are no longer valid")

	return km, nil
}
