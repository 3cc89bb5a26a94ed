package models

import "time"

// Session binds a refresh token to an expiry instant in epoch milliseconds.
type Session struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

func NewSession(token string, now time.Time, ttl time.Duration) Session {
	return Session{
		Token:     token,
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}
}

// Active reports whether the session is still usable at now. The expiry instant itself is not.
func (s Session) Active(now time.Time) bool {
	return now.UnixMilli() < s.ExpiresAt
}
