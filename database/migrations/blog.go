package migrations

import (
	"marinehub.app/configs/configslog"
	"marinehub.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateBlogTables creates categories before posts so the category_id
// foreign key resolves.
func MigrateBlogTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating blog_categories, blog_posts & blog_seo_data tables...")
	err := db.AutoMigrate(&models.BlogCategory{}, &models.BlogPost{}, &models.BlogSEOData{})
	if err != nil {
		configslog.Log.Error("Failed to migrate blog tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Blog tables migrated successfully")
	return nil
}
