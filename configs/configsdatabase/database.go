package configsdatabase

import (
	"fmt"
	"time"

	"marinehub.app/configs/configsapp"
	"marinehub.app/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// DSN builds the Postgres connection string from the app config.
func DSN(cfg *configsapp.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimeZone)
}

// InitDB opens the GORM connection pool. It terminates the process on failure.
func InitDB() {
	cfg := configsapp.Load()

	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	conn, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // unique violations -> gorm.ErrDuplicatedKey
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		configslog.Log.Fatal("Database connection could not be opened",
			zap.String("host", cfg.DBHost),
			zap.String("dbname", cfg.DBName),
			zap.Error(err),
		)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		configslog.Log.Fatal("Underlying sql.DB could not be obtained", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db = conn
	configslog.SLog.Infof("Database connection established (%s@%s/%s)", cfg.DBUser, cfg.DBHost, cfg.DBName)
}

// GetDB returns the shared connection. InitDB must have been called.
func GetDB() *gorm.DB {
	if db == nil {
		configslog.Log.Fatal("GetDB called before InitDB")
	}
	return db
}

// CloseDB closes the pool; safe to call when InitDB never ran.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("sql.DB could not be obtained while closing", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Database connection could not be closed", zap.Error(err))
		return
	}
	configslog.SLog.Info("Database connection closed.")
}
