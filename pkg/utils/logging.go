package utils

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	loggerOnce sync.Once
	logger     *zap.Logger
)

// Logger returns the process-wide logger, configured from LOG_LEVEL and
// LOG_FILE on first use.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		logger = NewLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE"))
	})
	return logger
}

// NewLogger writes JSON to stdout and, when file is set, tees to that file.
// The file rotates at 10 MB and keeps 3 backups. An unknown level falls back to info.
func NewLogger(level, file string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if level != "" {
		if l, err := zapcore.ParseLevel(level); err == nil {
			lvl = l
		}
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl)}
	if file != "" {
		rotating := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rotating), lvl))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}
