// Package config 加载 patch-html 的可选配置文件。
//
// 配置只决定工作目录、备份与日志，被修改的文件名与补丁内容是固定的。
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/valyala/fasttemplate"
	"gopkg.in/yaml.v3"

	"github.com/dushixiang/patch-html/internal/logger"
)

type Config struct {
	Root   string `yaml:"root" validate:"required"`
	Backup bool   `yaml:"backup"`
	Log    Log    `yaml:"log"`
}

type Log struct {
	// Level 未知级别回退到 info
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	// MaxSizeMB 为 0 时使用默认值 10
	MaxSizeMB  int `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int `yaml:"max_backups" validate:"gte=0"`
}

// Default 默认配置
func Default() Config {
	return Config{
		Root: ".",
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load 读取配置文件，path 为空时返回默认配置
func Load(fsys afero.Fs, path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置文件失败 %s: %w", path, err)
	}
	return cfg, nil
}

// Finalize 校验并规范化配置，展开日志路径中的占位符
func (c *Config) Finalize() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	c.Log.Level = logger.NormalizeLevel(c.Log.Level)
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}

	if c.Log.File != "" {
		file, err := expandPath(c.Log.File, c.Root)
		if err != nil {
			return err
		}
		c.Log.File = file
	}
	return nil
}

// expandPath 展开 {root} 与 {home}
func expandPath(raw, root string) (string, error) {
	var expandErr error
	out := fasttemplate.ExecuteFuncString(raw, "{", "}", func(w io.Writer, tag string) (int, error) {
		switch tag {
		case "root":
			return w.Write([]byte(root))
		case "home":
			home, err := os.UserHomeDir()
			if err != nil {
				expandErr = fmt.Errorf("获取用户目录失败: %w", err)
				return 0, nil
			}
			return w.Write([]byte(home))
		}
		return w.Write([]byte("{" + tag + "}"))
	})
	if expandErr != nil {
		return "", expandErr
	}
	return filepath.Clean(out), nil
}
