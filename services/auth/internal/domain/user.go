package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// User is the identity record behind a credential. RefreshTokens holds the
// SHA-256 digests of the refresh tokens that are currently valid, in issue
// order; the raw bearer strings are never kept.
type User struct {
	ID            string
	Username      string
	PasswordHash  string
	Roles         []string
	RefreshTokens []string
}

func (u *User) AddRefreshToken(token string) {
	u.RefreshTokens = append(u.RefreshTokens, Sha256Hex(token))
}

func (u *User) HasRefreshToken(token string) bool {
	return slices.Contains(u.RefreshTokens, Sha256Hex(token))
}

// RemoveRefreshToken drops every occurrence of token and reports whether
// anything was removed.
func (u *User) RemoveRefreshToken(token string) bool {
	digest := Sha256Hex(token)
	before := len(u.RefreshTokens)
	u.RefreshTokens = slices.DeleteFunc(u.RefreshTokens, func(d string) bool { return d == digest })
	return len(u.RefreshTokens) != before
}

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
