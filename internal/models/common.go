package models

//nolint:gosec //file not handles sensitive data
const (
	HeaderAccessToken  = "x-access-token"
	HeaderRefreshToken = "x-refresh-token"
	HeaderUserID       = "_id"

	MwUserIDKey       = "userID"
	MwUserKey         = "user"
	MwRefreshTokenKey = "refreshToken"
	MwAccessTokenKey  = "accessToken"
)

// User is a registered account. Sessions are embedded in the user record.
type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Sessions     []Session `json:"-"`
}

// FindSession returns the session whose token exactly equals token.
func (u *User) FindSession(token string) (Session, bool) {
	for _, s := range u.Sessions {
		if s.Token == token {
			return s, true
		}
	}
	return Session{}, false
}
