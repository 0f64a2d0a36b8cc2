package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *zap.Logger

// InitLogger installs a development logger used until the config is loaded.
func InitLogger() {
	l, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	Logger = l
}

// Options controls the logger built by Configure.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	File   string // optional path, rotated by lumberjack
}

// Configure replaces the global logger with one built from opts.
func Configure(opts Options) error {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(opts.Format), zapcore.Lock(os.Stdout), level),
	}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxAge:     14,
			MaxBackups: 5,
			Compress:   true,
		}
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(rotator), level))
	}

	Sync()
	Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	if format == "json" {
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
