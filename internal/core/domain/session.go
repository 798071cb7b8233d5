package domain

import "time"

// Session is the server-side half of an authenticated context. The client
// holds a signed token naming ID and Subject; ExpiresAt slides on every
// accepted request.
type Session struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the inactivity window has elapsed at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// RequestContext is built once per request by the session middleware and
// threaded through the guard and the handlers.
type RequestContext struct {
	Account *Account
	Roles   RoleSet
	Now     time.Time
}

// Anonymous returns a context with no identity.
func Anonymous(now time.Time) RequestContext {
	return RequestContext{Roles: RoleSet{}, Now: now}
}

func (rc RequestContext) Authenticated() bool {
	return rc.Account != nil
}
