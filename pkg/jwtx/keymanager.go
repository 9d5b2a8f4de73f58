package jwtx

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/OolalaDXB/outrenational/pkg/cryptox"
)

// AlgorithmEdDSA is the only signing algorithm the ERP issues tokens with.
const AlgorithmEdDSA = "EdDSA"

// KeyManager owns the signing keys of one ERP instance plus the KeySet and
// Verifier built from them. Signing picks a random active key.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	signers []Signer
	mu      sync.RWMutex
}

// KeyManagerOptions configures a KeyManager.
type KeyManagerOptions struct {
	// Issuer is the iss claim validated by the Verifier. Required.
	Issuer string

	// Audience values validated by the Verifier. Empty disables the check.
	Audience []string

	// NumKeys is how many ephemeral keys to generate. Defaults to 3, capped at 10.
	NumKeys int
}

// NewEphemeralKeyManager generates in-memory Ed25519 keys. Tokens signed by
// them die with the process.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	numKeys := opts.NumKeys
	if numKeys <= 0 {
		numKeys = 3
	}
	if numKeys > 10 {
		numKeys = 10
	}

	km := newKeyManager(opts)
	for i := range numKeys {
		kid, err := generateRandomKeyID()
		if err != nil {
			return nil, err
		}

		pemBytes, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate key %d: %w", i+1, err)
		}

		signer, err := NewSignerEdDSA(kid, pemBytes)
		if err != nil {
			return nil, fmt.Errorf("jwtx: load key %d: %w", i+1, err)
		}

		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}

	return km, nil
}

// NewKeyManagerFromPEM loads a single persisted Ed25519 key. The kid is
// derived from the public key so it stays stable across restarts and
// refresh-issued access tokens keep verifying.
func NewKeyManagerFromPEM(opts KeyManagerOptions, pemBytes []byte) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	parsed, err := NewSignerEdDSA("", pemBytes)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(parsed.pub)
	kid := "erp-" + base64.RawURLEncoding.EncodeToString(sum[:12])

	signer, err := NewSignerEdDSA(kid, pemBytes)
	if err != nil {
		return nil, err
	}

	km := newKeyManager(opts)
	if err := km.AddSigner(signer); err != nil {
		return nil, err
	}

	return km, nil
}

func newKeyManager(opts KeyManagerOptions) *KeyManager {
	keyset := NewKeySet()
	return &KeyManager{
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer, opts.Audience),
		KeySet:   keyset,
	}
}

// Algorithm returns the signing algorithm being used.
func (km *KeyManager) Algorithm() string {
	return AlgorithmEdDSA
}

// IsReady returns true if the KeyManager has valid keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// GetSigner returns a randomly selected active signer, or nil if none.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	}

	return km.signers[rand.IntN(len(km.signers))]
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// AddSigner adds a signing key for both signing and verification.
func (km *KeyManager) AddSigner(signer Signer) error {
	if signer == nil {
		return fmt.Errorf("jwtx: signer cannot be nil")
	}
	if err := signer.Validate(); err != nil {
		return err
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.KeySet.AddSigner(signer); err != nil {
		return fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}
	km.signers = append(km.signers, signer)

	return nil
}

func generateRandomKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("jwtx: generate key id: %w", err)
	}
	return "erp-" + token, nil
}
