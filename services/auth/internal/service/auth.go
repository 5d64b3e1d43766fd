package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/token_auth/pkg/apperr"
	"github.com/Skotchmaster/token_auth/pkg/duration"
	"github.com/Skotchmaster/token_auth/pkg/events"
	"github.com/Skotchmaster/token_auth/pkg/logging"
	"github.com/Skotchmaster/token_auth/pkg/tokens"
	"github.com/Skotchmaster/token_auth/services/auth/internal/domain"
	"github.com/Skotchmaster/token_auth/services/auth/internal/repo"
)

const (
	msgNoUser          = "No user found"
	msgBadPassword     = "Incorrect password"
	msgMissingRefresh  = "refresh token not found"
	msgInvalidRefresh  = "Invalid refresh token"
	msgUserNotFound    = "User not found"
	msgRefreshRevoked  = "Refresh token revoked"
	msgEmptyCredential = "username and password are required"
	msgUserExists      = "user already exist"
	msgInternal        = "Something went wrong"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	InsertUser(ctx context.Context, u *domain.User) error
	Save(ctx context.Context, u *domain.User) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type TokenSettings struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessExpire  string
	RefreshExpire string
}

// RefreshMaxAgeMs is the refresh token lifetime, also used for the cookie.
func (t TokenSettings) RefreshMaxAgeMs() int64 {
	return duration.Parse(t.RefreshExpire)
}

type AuthService struct {
	Repo   UserStore
	Hasher PasswordHasher
	Tokens TokenSettings
	Events events.Publisher
}

func internalErr(err error) *apperr.Error {
	return apperr.Internal(msgInternal).WithCause(err)
}

func identity(u *domain.User) tokens.Identity {
	return tokens.Identity{ID: u.ID, Username: u.Username, Roles: u.Roles}
}

func (s *AuthService) issue(u *domain.User) (tokens.Pair, error) {
	return tokens.IssuePair(identity(u), s.Tokens.AccessSecret, s.Tokens.RefreshSecret, s.Tokens.AccessExpire, s.Tokens.RefreshExpire)
}

func (s *AuthService) publish(ctx context.Context, kind string, u *domain.User) {
	if s.Events == nil {
		return
	}
	ev := events.Event{Type: kind, UserID: u.ID, Username: u.Username, At: time.Now().UTC()}
	if err := s.Events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "event", kind, "user_id", u.ID, "error", err)
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	if username == "" || password == "" {
		l.Warn("register_error", "status", 400, "reason", "empty credentials")
		return "", apperr.BadRequest(msgEmptyCredential)
	}

	pwHash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return "", internalErr(err)
	}

	user := &domain.User{
		Username:      username,
		PasswordHash:  pwHash,
		Roles:         []string{},
		RefreshTokens: []string{},
	}
	if err := s.Repo.InsertUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return "", apperr.Conflict(msgUserExists)
		}
		l.Error("register_error", "status", 500, "error", err)
		return "", internalErr(err)
	}

	s.publish(ctx, events.UserRegistered, user)
	l.Info("register_successful", "user_id", user.ID)
	return "successfully created : " + user.Username, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login_failed", "status", 400, "reason", "no user found")
			return tokens.Pair{}, apperr.BadRequest(msgNoUser)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return tokens.Pair{}, internalErr(err)
	}

	if !s.Hasher.Verify(password, user.PasswordHash) {
		l.Warn("login_failed", "status", 422, "reason", "incorrect password")
		return tokens.Pair{}, apperr.Validation(msgBadPassword)
	}

	pair, err := s.issue(user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign tokens", "error", err)
		return tokens.Pair{}, internalErr(err)
	}

	user.AddRefreshToken(pair.RefreshToken)
	if err := s.Repo.Save(ctx, user); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return tokens.Pair{}, internalErr(err)
	}

	s.publish(ctx, events.UserLoggedIn, user)
	l.Info("login_successful", "user_id", user.ID)
	return pair, nil
}

// owner resolves the user holding refreshToken. Every failure is a 400 except
// store errors.
func (s *AuthService) owner(ctx context.Context, refreshToken string) (*domain.User, error) {
	l := logging.FromContext(ctx)

	if refreshToken == "" {
		return nil, apperr.BadRequest(msgMissingRefresh)
	}

	claims, err := tokens.Verify(refreshToken, s.Tokens.RefreshSecret)
	if err != nil {
		return nil, apperr.BadRequest(msgInvalidRefresh).WithCause(err)
	}

	user, err := s.Repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, apperr.BadRequest(msgUserNotFound)
		}
		l.Error("refresh_owner_lookup_failed", "status", 500, "error", err)
		return nil, internalErr(err)
	}

	if !user.HasRefreshToken(refreshToken) {
		l.Warn("refresh_token_revoked", "user_id", user.ID)
		return nil, apperr.BadRequest(msgRefreshRevoked)
	}
	return user, nil
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")
	ctx = logging.IntoContext(ctx, l)

	user, err := s.owner(ctx, refreshToken)
	if err != nil {
		return err
	}

	user.RemoveRefreshToken(refreshToken)
	if err := s.Repo.Save(ctx, user); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke refreshToken", "error", err)
		return internalErr(err)
	}

	s.publish(ctx, events.UserLoggedOut, user)
	l.Info("logout_successful", "user_id", user.ID)
	return nil
}

// Refresh rotates refreshToken into a new pair. The presented token stays
// valid until it is logged out.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")
	ctx = logging.IntoContext(ctx, l)

	user, err := s.owner(ctx, refreshToken)
	if err != nil {
		return tokens.Pair{}, err
	}

	pair, err := s.issue(user)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot sign tokens", "error", err)
		return tokens.Pair{}, internalErr(err)
	}

	user.AddRefreshToken(pair.RefreshToken)
	if err := s.Repo.Save(ctx, user); err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return tokens.Pair{}, internalErr(err)
	}

	s.publish(ctx, events.TokenRefreshed, user)
	l.Info("refresh_successful", "user_id", user.ID)
	return pair, nil
}
