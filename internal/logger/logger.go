package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志配置
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	Verbose    bool
	// Console 控制台输出，默认 os.Stderr
	Console io.Writer
}

// New 创建日志：控制台输出到 stderr，配置了文件时同时写入滚动日志文件。
// 返回的 closer 刷新缓冲并关闭日志文件。
func New(opts Options) (*zap.Logger, func() error) {
	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	atom := zap.NewAtomicLevelAt(level)

	var console zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if opts.Console != nil {
		console = zapcore.AddSync(opts.Console)
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), console, atom),
	}

	var file *lumberjack.Logger
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   false,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(file),
			atom,
		))
	}

	log := zap.New(zapcore.NewTee(cores...))
	closer := func() error {
		// stderr 不支持 fsync，忽略 Sync 的错误
		_ = log.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return log, closer
}

// NormalizeLevel 统一日志级别写法，未知值回退到 info
func NormalizeLevel(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "debug", "info", "warn", "error":
		return value
	case "warning":
		return "warn"
	}
	return "info"
}

// ParseLevel 解析日志级别
func ParseLevel(raw string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(NormalizeLevel(raw))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}
