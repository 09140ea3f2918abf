package migrations

import (
	"marinehub.app/configs/configslog"
	"marinehub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigratePortsTable also adds the lower(name) index used by the port search.
func MigratePortsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating ports table...")
	if err := db.AutoMigrate(&models.Port{}); err != nil {
		configslog.Log.Error("Failed to migrate ports table", zap.Error(err))
		return err
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_ports_lower_name ON ports (LOWER(name))`).Error; err != nil {
		configslog.Log.Error("Failed to create ports name index", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Ports table migrated successfully")
	return nil
}
