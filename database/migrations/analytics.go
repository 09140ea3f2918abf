package migrations

import (
	"marinehub.app/configs/configslog"
	"marinehub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateAnalyticsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating analytics_events table...")
	err := db.AutoMigrate(&models.AnalyticsEvent{})
	if err != nil {
		configslog.Log.Error("Failed to migrate analytics_events table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("analytics_events table migrated successfully")
	return nil
}
