package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the structured logger; use it with zap fields.
	Log *zap.Logger
	// SLog is the sugared variant for printf-style messages.
	SLog *zap.SugaredLogger
)

func init() {
	// Packages may log before InitLogger runs (tests, init blocks).
	Log = zap.NewNop()
	SLog = Log.Sugar()
}

// InitLogger builds the global loggers from APP_ENV and LOG_LEVEL.
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(lvl)); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		// Fall back to a bare production logger rather than running blind.
		logger = zap.Must(zap.NewProduction())
		logger.Error("Logger config could not be built, using defaults", zap.Error(err))
	}

	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger flushes buffered log entries. Call it with defer from main.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
