package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logging output.
type Config struct {
	Level  string `mapstructure:"level"`  // debug/info/warn/error
	Format string `mapstructure:"format"` // console/json
	Output string `mapstructure:"output"` // stdout/file/both
	File   struct {
		Path       string `mapstructure:"path"`
		Filename   string `mapstructure:"filename"`
		MaxSize    int    `mapstructure:"max_size"` // MB
		MaxAge     int    `mapstructure:"max_age"`  // days
		MaxBackups int    `mapstructure:"max_backups"`
		Compress   bool   `mapstructure:"compress"`
	} `mapstructure:"file"`
}

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

func init() {
	// Usable before Init so early failures still get logged.
	sugar = zap.Must(zap.NewDevelopment()).Sugar()
}

// Init configures the global logger. Subsequent calls are no-ops.
func Init(cfg Config) error {
	var initErr error
	once.Do(func() {
		level := parseLevel(cfg.Level)

		encoderConfig := zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			MessageKey:     "msg",
			CallerKey:      "caller",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}

		var encoder zapcore.Encoder
		if cfg.Format == "json" {
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		} else {
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		}

		var cores []zapcore.Core

		if cfg.Output == "" || cfg.Output == "stdout" || cfg.Output == "both" {
			cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
		}

		if cfg.Output == "file" || cfg.Output == "both" {
			dir := cfg.File.Path
			if dir == "" {
				dir = "logs"
			}
			if initErr = os.MkdirAll(dir, 0755); initErr != nil {
				return
			}
			filename := cfg.File.Filename
			if filename == "" {
				filename = "tictactoe-bridge.log"
			}
			fileWriter := &lumberjack.Logger{
				Filename:   filepath.Join(dir, filename),
				MaxSize:    cfg.File.MaxSize,
				MaxAge:     cfg.File.MaxAge,
				MaxBackups: cfg.File.MaxBackups,
				Compress:   cfg.File.Compress,
			}
			cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(fileWriter), level))
		}

		core := zapcore.NewTee(cores...)
		sugar = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	})
	return initErr
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	sugar.Sync()
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	sugar.Debugf(format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	sugar.Infof(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	sugar.Warnf(format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	sugar.Errorf(format, args...)
}
