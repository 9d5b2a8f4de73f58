package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNoPepper is returned by hashing functions when no pepper was loaded.
var ErrNoPepper = errors.New("cryptox: pepper not loaded")

var (
	pepperMu sync.RWMutex
	pepper   string
)

// LoadPepper reads the server-wide password pepper from path, creating it
// with 256 random bits when the file does not exist yet.
func LoadPepper(path string) error {
	p, err := loadOrGeneratePepper(filepath.Clean(path))
	if err != nil {
		return err
	}
	SetPepper(p)
	return nil
}

// SetPepper installs p directly. Tests use it to avoid touching disk.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

func currentPepper() (string, error) {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	if pepper == "" {
		return "", ErrNoPepper
	}
	return pepper, nil
}

func loadOrGeneratePepper(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}

	b, err := os.ReadFile(path)
	if err == nil {
		p := strings.TrimSpace(string(b))
		if p == "" {
			return "", errors.New("cryptox: pepper file is empty")
		}
		return p, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(path, []byte(p), 0o600); err != nil {
		return "", err
	}
	return p, nil
}
