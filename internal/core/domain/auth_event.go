package domain

import "time"

// AuthEventKind labels an entry in the authentication audit trail.
type AuthEventKind string

const (
	AuthEventRegistered     AuthEventKind = "registered"
	AuthEventLoginSucceeded AuthEventKind = "login_succeeded"
	AuthEventLoginFailed    AuthEventKind = "login_failed"
	AuthEventLogout         AuthEventKind = "logout"
)

// AuthEvent records an authentication outcome. Identifier is whatever the
// caller presented (email or username), Subject the resolved account token
// when known.
type AuthEvent struct {
	Kind       AuthEventKind
	Identifier string
	Subject    string
	RemoteAddr string
	At         time.Time
}
