package domain

import "time"

// Session binds an opaque client-presented identifier to an authenticated
// user and the token minted at login. It lives server-side only; the client
// holds nothing but the identifier, delivered as a cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session's absolute expiry has passed.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Identity is the authenticated principal attached to a request once both
// the session lookup and the token verification succeed.
type Identity struct {
	UserID   string
	Username string
}
