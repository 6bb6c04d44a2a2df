package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const sessionFileName = "session.json"

// Session is the locally remembered identity for the per-user backend. The
// user id is an opaque token supplied from outside; the session id only
// distinguishes logins in diagnostics.
type Session struct {
	UserID     string    `json:"userId"`
	SessionID  string    `json:"sessionId"`
	LoggedInAt time.Time `json:"loggedInAt"`
}

// ConfigDir resolves the startracker config directory.
// STARTRACKER_CONFIG_DIR overrides it (keeps unit tests from touching the
// real user config).
func ConfigDir() (string, error) {
	if v := os.Getenv("STARTRACKER_CONFIG_DIR"); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "startracker"), nil
}

func sessionPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// CurrentSession returns the active session, or nil when logged out.
func CurrentSession() (*Session, error) {
	p, err := sessionPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if s.UserID == "" {
		return nil, nil
	}
	return &s, nil
}

func Login(userID string) (*Session, error) {
	if userID == "" {
		return nil, errors.New("login: empty user id")
	}
	p, err := sessionPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	s := Session{
		UserID:     userID,
		SessionID:  uuid.NewString(),
		LoggedInAt: time.Now().UTC(),
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return nil, err
	}
	return &s, nil
}

// Logout removes the session file. Logging out while logged out is fine.
func Logout() error {
	p, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
