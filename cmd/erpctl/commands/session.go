package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
)

const sessionFile = "session.json"

// savedSession is what login leaves on disk for later commands.
type savedSession struct {
	Server       string    `json:"server"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Scope        string    `json:"scope"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func sessionPath() string { return filepath.Join(home, sessionFile) }

func writeSession(s savedSession) error {
	if err := os.MkdirAll(home, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(sessionPath(), b, 0o600)
}

func readSession() (savedSession, error) {
	var s savedSession
	b, err := os.ReadFile(sessionPath())
	if errors.Is(err, fs.ErrNotExist) {
		return s, fmt.Errorf("not logged in, run erpctl login first")
	}
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("corrupt session file %s: %w", sessionPath(), err)
	}
	return s, nil
}

// openSession resumes the saved session. The returned save func persists
// rotated tokens and must be called once the command is done.
func openSession() (*erpsdk.Session, func() error, error) {
	saved, err := readSession()
	if err != nil {
		return nil, nil, err
	}
	if !serverExplicit && saved.Server != "" {
		client = erpsdk.NewClient(saved.Server)
	}

	remaining := max(int64(time.Until(saved.ExpiresAt).Seconds()), 0)
	sess := client.NewSessionFromTokens(saved.AccessToken, saved.RefreshToken, saved.Scope, remaining)

	save := func() error {
		if sess.AccessToken() == saved.AccessToken {
			return nil
		}
		return writeSession(sessionRecord(sess, saved.Server))
	}
	return sess, save, nil
}

func sessionRecord(sess *erpsdk.Session, server string) savedSession {
	return savedSession{
		Server:       server,
		AccessToken:  sess.AccessToken(),
		RefreshToken: sess.RefreshToken(),
		Scope:        sess.Scope(),
		ExpiresAt:    sess.ExpiresAt(),
	}
}

func removeSession() error {
	err := os.Remove(sessionPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
