package tokens

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/token_auth/pkg/duration"
)

var (
	ErrEmptySecret = errors.New("signing secret is empty")
	ErrSecretReuse = errors.New("access and refresh secrets must differ")
)

type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Issue signs id with secret using HS256. The token expires durationMs
// milliseconds from now and carries a fresh jti so two tokens issued in the
// same second never collide.
func Issue(id Identity, secret []byte, durationMs int64) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	roles := id.Roles
	if roles == nil {
		roles = []string{}
	}
	now := time.Now()
	claims := Claims{
		Username: id.Username,
		Roles:    roles,
		UserID:   id.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration.ToDuration(durationMs))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssuePair resolves both duration specs and signs an access and a refresh
// token for id.
func IssuePair(id Identity, accessSecret, refreshSecret []byte, accessSpec, refreshSpec string) (Pair, error) {
	if len(accessSecret) > 0 && bytes.Equal(accessSecret, refreshSecret) {
		return Pair{}, ErrSecretReuse
	}

	access, err := Issue(id, accessSecret, duration.Parse(accessSpec))
	if err != nil {
		return Pair{}, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := Issue(id, refreshSecret, duration.Parse(refreshSpec))
	if err != nil {
		return Pair{}, fmt.Errorf("issue refresh: %w", err)
	}

	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}
