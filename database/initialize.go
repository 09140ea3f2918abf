package database

import (
	"marinehub.app/configs/configslog"
	"marinehub.app/database/migrations"
	"marinehub.app/database/seeders"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options selects the bootstrap steps. Admin credentials are only read when
// Seed is set.
type Options struct {
	Migrate       bool
	Seed          bool
	AdminEmail    string
	AdminPassword string
}

// Initialize runs migrations and seeders inside one transaction. Any failure
// rolls everything back.
func Initialize(db *gorm.DB, opts Options) error {
	if !opts.Migrate && !opts.Seed {
		configslog.SLog.Info("Neither -migrate nor -seed given, nothing to do.")
		return nil
	}

	configslog.SLog.Info("Database bootstrap starting...")

	err := db.Transaction(func(tx *gorm.DB) error {
		if opts.Migrate {
			if err := RunMigrationsInOrder(tx); err != nil {
				return err
			}
		} else {
			configslog.SLog.Info("Migrate flag not set, skipping migrations.")
		}

		if opts.Seed {
			if err := CheckAndRunSeeders(tx, opts); err != nil {
				return err
			}
		} else {
			configslog.SLog.Info("Seed flag not set, skipping seeders.")
		}
		return nil
	})
	if err != nil {
		configslog.Log.Error("Database bootstrap failed, transaction rolled back", zap.Error(err))
		return err
	}

	configslog.SLog.Info("Database bootstrap committed.")
	return nil
}

type migrationStep struct {
	name string
	run  func(*gorm.DB) error
}

// Order matters: every table is created after the tables it references.
var migrationSteps = []migrationStep{
	{"users", migrations.MigrateUsersTable},
	{"profiles", migrations.MigrateProfilesTables},
	{"jobs", migrations.MigrateJobsTables},
	{"notifications", migrations.MigrateNotificationsTable},
	{"blog", migrations.MigrateBlogTables},
	{"ports", migrations.MigratePortsTable},
	{"analytics", migrations.MigrateAnalyticsTable},
}

// RunMigrationsInOrder stops at the first failing step.
func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info("Running migrations in order...")
	for _, step := range migrationSteps {
		configslog.SLog.Infof(" -> %s migrations running...", step.name)
		if err := step.run(db); err != nil {
			configslog.Log.Error("Migration step failed", zap.String("step", step.name), zap.Error(err))
			return err
		}
	}
	configslog.SLog.Info("All migrations completed.")
	return nil
}

// CheckAndRunSeeders runs every seeder even when an earlier one fails and
// returns the combined error.
func CheckAndRunSeeders(db *gorm.DB, opts Options) error {
	configslog.SLog.Info("Checking admin user...")
	adminErr := seeders.SeedAdminUser(db, opts.AdminEmail, opts.AdminPassword)
	if adminErr != nil {
		configslog.Log.Error("Admin user seed failed", zap.Error(adminErr))
	}

	configslog.SLog.Info(" -> Blog category seeder running...")
	categoryErr := seeders.SeedBlogCategories(db)
	if categoryErr != nil {
		configslog.Log.Error("Blog categories could not be seeded", zap.Error(categoryErr))
	}

	if err := multierr.Combine(adminErr, categoryErr); err != nil {
		return err
	}
	configslog.SLog.Info("All seeders completed.")
	return nil
}
