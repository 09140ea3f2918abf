package seeders

import (
	"errors"
	"strings"
	"time"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser creates the admin account or promotes an existing user with
// the same email. The password is only set on creation.
func SeedAdminUser(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("admin email is empty")
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role == models.RoleAdmin && existing.IsActive && existing.IsVerified() {
			configslog.SLog.Debugf("Admin user '%s' already exists, skipping.", email)
			return nil
		}
		now := time.Now().UTC()
		updates := map[string]any{"role": models.RoleAdmin, "is_active": true}
		if existing.EmailVerifiedAt == nil {
			updates["email_verified_at"] = now
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			configslog.Log.Error("Admin user could not be updated", zap.String("email", email), zap.Error(err))
			return err
		}
		configslog.SLog.Infof("Existing user '%s' promoted to admin.", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Database error while looking up admin user", zap.String("email", email), zap.Error(err))
		return err
	}

	if len(password) < 8 {
		return errors.New("ADMIN_PASSWORD must be at least 8 characters to create the admin user")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := models.User{
		Email:           email,
		PasswordHash:    string(hash),
		FullName:        "Administrator",
		Role:            models.RoleAdmin,
		EmailVerifiedAt: &now,
		IsActive:        true,
	}
	if err := db.Create(&admin).Error; err != nil {
		configslog.Log.Error("Admin user could not be created", zap.String("email", email), zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Admin user '%s' created (ID: %d).", email, admin.ID)
	return nil
}
