package client

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown pair.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotAuthenticated is returned by RequireAuth for a logged-out session.
	ErrNotAuthenticated = errors.New("you must log in first (feedbackctl login)")

	// ErrForbidden is returned by RequireAdmin for a non-admin session.
	ErrForbidden = errors.New("only admins can change feedback status")
)

// account is one built-in mock login.
type account struct {
	hash []byte
	role Role
}

// accounts holds the mock logins. The server has no notion of users;
// these only gate what the CLI offers.
var accounts = map[string]account{
	"admin": {hash: mustHash("adminpassword"), role: RoleAdmin},
	"user":  {hash: mustHash("userpassword"), role: RoleUser},
}

func mustHash(password string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}

// Authenticate checks a username and password against the mock accounts.
func Authenticate(username, password string) (Role, error) {
	acct, ok := accounts[username]
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return acct.role, nil
}

// Login authenticates and persists the new session. A failed attempt logs
// out any existing session.
func Login(store *SessionStore, username, password string) (Session, error) {
	role, err := Authenticate(username, password)
	if err != nil {
		if clearErr := store.Clear(); clearErr != nil {
			return Session{}, errors.Join(err, clearErr)
		}
		return Session{}, err
	}

	sess := Session{Authenticated: true, Role: role}
	if err := store.Save(sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Logout clears the persisted session.
func Logout(store *SessionStore) error {
	return store.Clear()
}

// RequireAuth allows any logged-in session.
func RequireAuth(sess Session) error {
	if !sess.Authenticated {
		return ErrNotAuthenticated
	}
	return nil
}

// RequireAdmin allows only logged-in admins.
func RequireAdmin(sess Session) error {
	if err := RequireAuth(sess); err != nil {
		return err
	}
	if sess.Role != RoleAdmin {
		return ErrForbidden
	}
	return nil
}
