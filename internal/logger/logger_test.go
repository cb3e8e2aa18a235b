package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"debug", "debug"},
		{"  WARN ", "warn"},
		{"Warning", "warn"},
		{"error", "error"},
		{"", "info"},
		{"verbose", "info"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLevel(tt.raw))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nope"))
}

func TestNew_Verbose(t *testing.T) {
	log, _ := New(Options{Level: "error", Verbose: true})
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, _ = New(Options{Level: "warn"})
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch.log")
	var console bytes.Buffer
	log, closeLog := New(Options{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1, Console: &console})
	log.Info("写入测试")
	require.NoError(t, closeLog())

	assert.FileExists(t, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "写入测试")
	assert.Contains(t, console.String(), "写入测试")

	// 关闭后可以重复调用
	require.NoError(t, closeLog())
}

func TestNew_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	log, closeLog := New(Options{Level: "info", Console: &console})
	log.Debug("不输出")
	log.Warn("输出")
	require.NoError(t, closeLog())

	assert.NotContains(t, console.String(), "不输出")
	assert.Contains(t, console.String(), "输出")
}
