package repo

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/Skotchmaster/token_auth/services/auth/internal/domain"
	"github.com/Skotchmaster/token_auth/services/auth/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserAlreadyExist = errors.New("user already exist")
)

// GormRepo is the credential store. It only loads and persists whole users;
// it does not interpret tokens.
type GormRepo struct {
	DB *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func formatID(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func parseID(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, ErrUserNotFound
	}
	return uint(n), nil
}

func toDomain(m *models.User) *domain.User {
	u := &domain.User{
		ID:            formatID(m.ID),
		Username:      m.Username,
		PasswordHash:  m.PasswordHash,
		Roles:         m.Roles,
		RefreshTokens: make([]string, 0, len(m.RefreshTokens)),
	}
	if u.Roles == nil {
		u.Roles = []string{}
	}
	for _, rt := range m.RefreshTokens {
		u.RefreshTokens = append(u.RefreshTokens, rt.TokenHash)
	}
	return u
}

func tokenRows(userID uint, digests []string) []models.RefreshToken {
	rows := make([]models.RefreshToken, 0, len(digests))
	for i, d := range digests {
		rows = append(rows, models.RefreshToken{UserID: userID, Seq: i, TokenHash: d})
	}
	return rows
}
