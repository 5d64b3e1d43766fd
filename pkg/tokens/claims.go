package tokens

import "github.com/golang-jwt/jwt/v5"

// Identity is the user data embedded in every issued token.
type Identity struct {
	ID       string
	Username string
	Roles    []string
}

// Claims is the payload of both access and refresh tokens. The two kinds
// only differ by signing secret, expiry and jti.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	UserID   string   `json:"id"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{ID: c.UserID, Username: c.Username, Roles: c.Roles}
}
