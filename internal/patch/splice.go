package patch

import (
	"context"

	"github.com/go-errors/errors"
	"go.uber.org/zap"

	"github.com/dushixiang/patch-html/internal/document"
	"github.com/dushixiang/patch-html/internal/textedit"
)

const (
	DemoHTMLPath   = "demos/working-multiplayer-demo.html"
	NewScriptPath  = "new_script.js"
	ModuleOpenTag  = `<script type="module">`
	ScriptCloseTag = `</script>`
)

// ScriptSplice 用 new_script.js 替换演示页面中的第一个模块脚本
type ScriptSplice struct {
	Store      *document.Store
	HTMLPath   string
	ScriptPath string
	Logger     *zap.Logger
}

// NewScriptSplice 使用默认文件路径创建流程
func NewScriptSplice(store *document.Store, logger *zap.Logger) *ScriptSplice {
	return &ScriptSplice{
		Store:      store,
		HTMLPath:   DemoHTMLPath,
		ScriptPath: NewScriptPath,
		Logger:     nopIfNil(logger),
	}
}

// SpliceScript 把 html 中第一个 <script type="module">…</script> 区间替换为 script
func SpliceScript(html, script string) (string, error) {
	return textedit.SpliceSpan(html, ModuleOpenTag, ScriptCloseTag, script)
}

// Run 执行替换
func (p *ScriptSplice) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := nopIfNil(p.Logger)
	result := &Result{Path: p.Store.Path(p.HTMLPath)}

	html, err := p.Store.Read(p.HTMLPath)
	if err != nil {
		return nil, err
	}
	script, err := p.Store.Read(p.ScriptPath)
	if err != nil {
		return nil, err
	}
	result.Before = len(html)

	out, err := SpliceScript(html, script)
	if err != nil {
		logger.Debug("未找到模块脚本", zap.String("path", result.Path), zap.Error(err))
		return nil, errors.Wrap(err, 0)
	}
	result.Replaced = true
	result.After = len(out)

	if err := persist(ctx, p.Store, logger, p.HTMLPath, out, opts, result); err != nil {
		return nil, err
	}

	logger.Info("模块脚本替换完成",
		zap.String("path", result.Path),
		zap.Int("before", result.Before),
		zap.Int("after", result.After),
		zap.Bool("written", result.Written),
	)
	return result, nil
}
