package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/token_auth/pkg/duration"
)

var (
	accessSecret  = []byte("test-access-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func testIdentity() Identity {
	return Identity{ID: "42", Username: "alice", Roles: []string{"admin"}}
}

func TestIssue_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	before := time.Now()
	token, err := Issue(testIdentity(), accessSecret, 15*60*1000)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Verify(token, accessSecret)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, []string{"admin"}, claims.Roles)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, before.Add(15*time.Minute), claims.ExpiresAt.Time, 2*time.Second)
	assert.Equal(t, testIdentity(), claims.Identity())
}

func TestIssue_NilRolesEncodedAsEmpty(t *testing.T) {
	t.Parallel()

	token, err := Issue(Identity{ID: "1", Username: "bob"}, accessSecret, 60000)
	require.NoError(t, err)

	claims, err := Verify(token, accessSecret)
	require.NoError(t, err)
	assert.NotNil(t, claims.Roles)
	assert.Empty(t, claims.Roles)
}

func TestIssue_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := Issue(testIdentity(), nil, 60000)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssuePair(t *testing.T) {
	t.Parallel()

	pair, err := IssuePair(testIdentity(), accessSecret, refreshSecret, "15m", "7d")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := Verify(pair.AccessToken, accessSecret)
	require.NoError(t, err)
	refresh, err := Verify(pair.RefreshToken, refreshSecret)
	require.NoError(t, err)

	assert.Equal(t, access.Username, refresh.Username)
	assert.Equal(t, access.UserID, refresh.UserID)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestIssuePair_TokensAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	pair, err := IssuePair(testIdentity(), accessSecret, refreshSecret, "15m", "7d")
	require.NoError(t, err)

	_, err = Verify(pair.RefreshToken, accessSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = Verify(pair.AccessToken, refreshSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuePair_SameSecretRejected(t *testing.T) {
	t.Parallel()

	_, err := IssuePair(testIdentity(), accessSecret, accessSecret, "15m", "7d")
	assert.ErrorIs(t, err, ErrSecretReuse)
}

func TestIssuePair_DistinctEachCall(t *testing.T) {
	t.Parallel()

	first, err := IssuePair(testIdentity(), accessSecret, refreshSecret, "15m", "7d")
	require.NoError(t, err)
	second, err := IssuePair(testIdentity(), accessSecret, refreshSecret, "15m", "7d")
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	token, err := Issue(testIdentity(), accessSecret, -60000)
	require.NoError(t, err)

	claims, err := Verify(token, accessSecret)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	claims, err := Verify("not-a-valid-jwt", accessSecret)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := Claims{
		Username: "alice",
		UserID:   "42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(accessSecret)
	require.NoError(t, err)

	_, err = Verify(token, accessSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	t.Parallel()

	claims := Claims{Username: "alice", UserID: "42"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(accessSecret)
	require.NoError(t, err)

	_, err = Verify(token, accessSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuePair_HugeLifetimeStaysInFuture(t *testing.T) {
	t.Parallel()

	for _, spec := range []string{"200000d", "99999999999999999999d"} {
		spec := spec
		t.Run(spec, func(t *testing.T) {
			t.Parallel()

			pair, err := IssuePair(testIdentity(), accessSecret, refreshSecret, "15m", spec)
			require.NoError(t, err)

			claims, err := Verify(pair.RefreshToken, refreshSecret)
			require.NoError(t, err)
			require.NotNil(t, claims.ExpiresAt)
			assert.True(t, claims.ExpiresAt.Time.After(time.Now().AddDate(100, 0, 0)))
		})
	}
}

func TestIssue_SaturatedDuration(t *testing.T) {
	t.Parallel()

	token, err := Issue(testIdentity(), accessSecret, duration.Parse("200000d"))
	require.NoError(t, err)

	_, err = Verify(token, accessSecret)
	assert.NoError(t, err)
}
