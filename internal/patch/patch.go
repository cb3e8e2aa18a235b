// Package patch 实现两个固定的 HTML 补丁流程：模块脚本替换与战斗面板注入。
//
// 每个流程都是 读取 → 纯文本修改 → 落盘，只有所有修改都成功后才写文件。
package patch

import (
	"context"

	"github.com/go-errors/errors"
	"go.uber.org/zap"

	"github.com/dushixiang/patch-html/internal/document"
)

// Options 运行选项
type Options struct {
	// DryRun 只计算结果，不写文件
	DryRun bool
	// Backup 覆盖前保存 .bak 备份
	Backup bool
}

// Result 运行结果
type Result struct {
	Path          string
	StyleInjected bool
	StylePresent  bool // 运行前文档已包含标记类名
	Replaced      bool
	Before        int
	After         int
	Written       bool
}

// Changed 文档内容是否发生变化
func (r *Result) Changed() bool {
	return r.Replaced || r.StyleInjected
}

// persist 写回文档；ctx 已取消时放弃写入
func persist(ctx context.Context, store *document.Store, logger *zap.Logger, name, content string, opts Options, result *Result) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, 0)
	}
	if opts.DryRun {
		logger.Info("dry-run 模式，跳过写入", zap.String("path", result.Path))
		return nil
	}
	if err := store.Write(name, content, document.WriteOptions{Backup: opts.Backup}); err != nil {
		return err
	}
	result.Written = true
	return nil
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
