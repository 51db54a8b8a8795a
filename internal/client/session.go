package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Role is the mock role granted at login.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Session file keys.
const (
	keyAuthenticated = "is_authenticated"
	keyRole          = "user_role"
)

// Session is the local login state. Only Login and Logout change it.
type Session struct {
	Authenticated bool
	Role          Role
}

// SessionStore persists the session to a YAML file between invocations.
type SessionStore struct {
	v    *viper.Viper
	path string
}

// DefaultSessionPath returns ~/.feedbackctl.yaml, or a file in the working
// directory when the home directory is unknown.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".feedbackctl.yaml"
	}
	return filepath.Join(home, ".feedbackctl.yaml")
}

// OpenSession loads the session file at path. A missing file yields a
// logged-out session.
func OpenSession(path string) (*SessionStore, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(keyAuthenticated, false)
	v.SetDefault(keyRole, "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read session file: %w", err)
		}
	}
	return &SessionStore{v: v, path: path}, nil
}

// Current returns the loaded session. An unknown role is treated as
// logged out.
func (s *SessionStore) Current() Session {
	sess := Session{
		Authenticated: s.v.GetBool(keyAuthenticated),
		Role:          Role(s.v.GetString(keyRole)),
	}
	if sess.Role != RoleAdmin && sess.Role != RoleUser {
		return Session{}
	}
	return sess
}

// Save writes sess to the session file.
func (s *SessionStore) Save(sess Session) error {
	s.v.Set(keyAuthenticated, sess.Authenticated)
	s.v.Set(keyRole, string(sess.Role))

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Chmod(s.path, 0o600)
}

// Clear resets the session to logged out and persists it.
func (s *SessionStore) Clear() error {
	return s.Save(Session{})
}
