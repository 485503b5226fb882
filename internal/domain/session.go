package domain

// Session identifies the authenticated account. It is returned by login and
// passed explicitly to every task and query operation. There is no expiry.
type Session struct {
	Email string
}

// NewSession creates a session for the given account email.
func NewSession(email string) Session {
	return Session{Email: email}
}

// Key returns the case-folded account email.
func (s Session) Key() string {
	return EmailKey(s.Email)
}

// IsZero reports whether the session was never established.
func (s Session) IsZero() bool {
	return s.Key() == ""
}
