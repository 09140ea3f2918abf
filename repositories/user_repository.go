package repositories

import (
	"context"
	"strings"
	"time"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IUserRepository is the interface for user persistence.
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateColumns(ctx context.Context, id uint, data map[string]interface{}) error
	MarkEmailVerified(ctx context.Context, id uint, at time.Time) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	CountByRole(ctx context.Context) (map[models.UserRole]int64, error)
}

// UserRepository implements IUserRepository with GORM.
type UserRepository struct {
	*BaseRepository[models.User]
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{BaseRepository: NewBaseRepository[models.User](db)}
}

// FindByEmail matches case-insensitively; emails are stored lower-cased.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.getDB(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uint, at time.Time) error {
	return r.UpdateColumns(ctx, id, map[string]interface{}{"email_verified_at": at})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.UpdateColumns(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

// TouchLastLogin skips hooks so a login does not count as a profile edit.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	err := r.getDB(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
	return translateError(err)
}

type roleCount struct {
	Role  models.UserRole
	Total int64
}

// CountByRole counts users per role.
func (r *UserRepository) CountByRole(ctx context.Context) (map[models.UserRole]int64, error) {
	var rows []roleCount
	err := r.getDB(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		configslog.Log.Error("UserRepository.CountByRole: DB error", zap.Error(err))
		return nil, translateError(err)
	}
	out := make(map[models.UserRole]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Total
	}
	return out, nil
}

var _ IUserRepository = (*UserRepository)(nil)
