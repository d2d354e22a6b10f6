package configslog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the structured logger for process-level code (startup, migrations, seeders).
	Log = zap.NewNop()
	// SLog is the sugared variant of Log.
	SLog = Log.Sugar()
)

// InitLogger builds the process logger. Development gets a colored console
// encoder at debug level; everything else gets the JSON production config.
func InitLogger(env string) *zap.Logger {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		// fall back to a logger that cannot fail to build
		logger = zap.NewExample()
		logger.Error("Logger could not be built from config, using example logger", zap.Error(err))
	}

	Log = logger
	SLog = logger.Sugar()
	return logger
}

// SyncLogger flushes buffered log entries. Call it deferred from main.
func SyncLogger() {
	_ = Log.Sync()
}
