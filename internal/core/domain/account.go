package domain

import "time"

// Account models a registered identity. It is plain data: role membership and
// session subject derivation are free functions over it.
type Account struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Username       *string    `json:"username,omitempty"`
	PasswordHash   string     `json:"-"`
	Active         bool       `json:"active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CurrentLoginAt *time.Time `json:"current_login_at,omitempty"`
	LastLoginIP    string     `json:"last_login_ip,omitempty"`
	CurrentLoginIP string     `json:"current_login_ip,omitempty"`
	LoginCount     int        `json:"login_count"`
	Uniquifier     string     `json:"fs_uniquifier"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SessionSubject returns the stable token a session is bound to. It survives
// email and username changes.
func SessionSubject(a *Account) string {
	return a.Uniquifier
}

// RecordLogin rotates the login telemetry for a successful authentication.
func RecordLogin(a *Account, at time.Time, remoteAddr string) {
	a.LastLoginAt = a.CurrentLoginAt
	a.LastLoginIP = a.CurrentLoginIP
	at = at.UTC()
	a.CurrentLoginAt = &at
	a.CurrentLoginIP = remoteAddr
	a.LoginCount++
}
