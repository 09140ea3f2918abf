package migrations

import (
	"marinehub.app/configs/configslog"
	"marinehub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateProfilesTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating superintendent_profiles & manager_profiles tables...")
	err := db.AutoMigrate(&models.SuperintendentProfile{}, &models.ManagerProfile{})
	if err != nil {
		configslog.Log.Error("Failed to migrate superintendent_profiles & manager_profiles tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("superintendent_profiles & manager_profiles tables migrated successfully")
	return nil
}
