package seeders

import (
	"errors"
	"fmt"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/slug"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var defaultBlogCategories = []models.BlogCategory{
	{Name: "Vessel Inspections", Description: "Pre-purchase, condition and on/off-hire surveys"},
	{Name: "Regulations", Description: "IMO, flag state and class rule updates"},
	{Name: "Career", Description: "Working as a marine superintendent"},
	{Name: "Industry News", Description: "Shipping market and port news"},
}

// SeedBlogCategories inserts missing default categories. Failures are collected
// so one bad row does not hide the others.
func SeedBlogCategories(db *gorm.DB) error {
	var errs error
	var createdCount int

	configslog.SLog.Info("Seeding blog categories...")

	for _, category := range defaultBlogCategories {
		category.Slug = slug.Make(category.Name)

		var existing models.BlogCategory
		err := db.Where("slug = ?", category.Slug).First(&existing).Error
		if err == nil {
			configslog.SLog.Debugf("Blog category '%s' already exists, skipping.", category.Name)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			configslog.Log.Error("Database error while checking blog category",
				zap.String("slug", category.Slug), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("check %s: %w", category.Slug, err))
			continue
		}

		if err := db.Create(&category).Error; err != nil {
			configslog.Log.Error("Blog category could not be created",
				zap.String("slug", category.Slug), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("create %s: %w", category.Slug, err))
			continue
		}
		createdCount++
	}

	if errs != nil {
		return errs
	}
	if createdCount > 0 {
		configslog.SLog.Infof("%d blog categories seeded.", createdCount)
	} else {
		configslog.SLog.Info("All blog categories already exist.")
	}
	return nil
}
