package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/token_auth/services/auth/internal/domain"
	"github.com/Skotchmaster/token_auth/services/auth/internal/models"
)

func (r *GormRepo) withTokens(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("RefreshTokens", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq")
	})
}

func (r *GormRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user models.User
	if err := r.withTokens(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return toDomain(&user), nil
}

func (r *GormRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := r.withTokens(ctx).Where("id = ?", uid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return toDomain(&user), nil
}

// InsertUser creates u and sets u.ID. A taken username yields
// ErrUserAlreadyExist, whether caught by the lookup or by the unique index.
func (r *GormRepo) InsertUser(ctx context.Context, u *domain.User) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return ErrUserAlreadyExist
	}

	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	m := models.User{
		Username:      u.Username,
		PasswordHash:  u.PasswordHash,
		Roles:         roles,
		RefreshTokens: tokenRows(0, u.RefreshTokens),
	}
	if err := r.DB.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExist
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = formatID(m.ID)
	return nil
}

// Save writes u and replaces its refresh token list in one transaction.
// Concurrent saves of the same user are last-writer-wins.
func (r *GormRepo) Save(ctx context.Context, u *domain.User) error {
	uid, err := parseID(u.ID)
	if err != nil {
		return err
	}
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{ID: uid}).
			Select("Username", "PasswordHash", "Roles", "UpdatedAt").
			Updates(&models.User{Username: u.Username, PasswordHash: u.PasswordHash, Roles: roles})
		if res.Error != nil {
			return fmt.Errorf("update user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		if err := tx.Where("user_id = ?", uid).Delete(&models.RefreshToken{}).Error; err != nil {
			return fmt.Errorf("clear refresh tokens: %w", err)
		}
		if len(u.RefreshTokens) == 0 {
			return nil
		}
		rows := tokenRows(uid, u.RefreshTokens)
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("store refresh tokens: %w", err)
		}
		return nil
	})
}
