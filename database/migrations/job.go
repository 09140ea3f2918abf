package migrations

import (
	"marinehub.app/configs/configslog"
	"marinehub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateJobsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating jobs & job_applications tables...")
	err := db.AutoMigrate(&models.Job{}, &models.JobApplication{})
	if err != nil {
		configslog.Log.Error("Failed to migrate jobs & job_applications tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("jobs & job_applications tables migrated successfully")
	return nil
}
