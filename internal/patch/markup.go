package patch

import (
	"context"
	"strings"

	"github.com/go-errors/errors"
	"go.uber.org/zap"

	"github.com/dushixiang/patch-html/internal/combat"
	"github.com/dushixiang/patch-html/internal/document"
	"github.com/dushixiang/patch-html/internal/textedit"
)

const IndexHTMLPath = "public/index.html"

// MarkupPatch 向 public/index.html 注入战斗面板样式与标记
type MarkupPatch struct {
	Store      *document.Store
	TargetPath string
	Logger     *zap.Logger
}

// NewMarkupPatch 使用默认文件路径创建流程
func NewMarkupPatch(store *document.Store, logger *zap.Logger) *MarkupPatch {
	return &MarkupPatch{
		Store:      store,
		TargetPath: IndexHTMLPath,
		Logger:     nopIfNil(logger),
	}
}

// PatchMarkup 对文档依次执行样式注入（幂等）与 game-info 片段替换（非幂等）。
// 文档中没有 </style> 时跳过样式注入，继续替换片段。
func PatchMarkup(doc string) (out string, styleInjected bool, err error) {
	out, styleInjected, err = textedit.EnsureBefore(doc, combat.Marker, combat.StyleAnchor, combat.Style())
	if err != nil {
		if !errors.Is(err, textedit.ErrAnchorNotFound) {
			return "", false, err
		}
		out, styleInjected = doc, false
	}

	out, err = textedit.ReplaceFirst(out, combat.GameInfo(), combat.CombatMarkup())
	if err != nil {
		if errors.Is(err, textedit.ErrAnchorNotFound) {
			return "", false, combat.InsertionPointError()
		}
		return "", false, err
	}
	return out, styleInjected, nil
}

// Run 执行注入
func (p *MarkupPatch) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := nopIfNil(p.Logger)
	result := &Result{Path: p.Store.Path(p.TargetPath)}

	doc, err := p.Store.Read(p.TargetPath)
	if err != nil {
		return nil, err
	}
	result.Before = len(doc)
	result.StylePresent = strings.Contains(doc, combat.Marker)

	out, injected, err := PatchMarkup(doc)
	if err != nil {
		// 诊断信息由调用方输出
		logger.Debug("战斗面板注入失败", zap.String("path", result.Path), zap.Error(err))
		return nil, errors.Wrap(err, 0)
	}
	switch {
	case injected:
		logger.Debug("已注入战斗面板样式", zap.String("anchor", combat.StyleAnchor))
	case result.StylePresent:
		logger.Info("战斗面板样式已存在，跳过插入")
	default:
		logger.Debug("未找到样式插入位置，跳过样式注入", zap.String("anchor", combat.StyleAnchor))
	}
	result.StyleInjected = injected
	result.Replaced = true
	result.After = len(out)

	if err := persist(ctx, p.Store, logger, p.TargetPath, out, opts, result); err != nil {
		return nil, err
	}

	logger.Info("战斗面板注入完成",
		zap.String("path", result.Path),
		zap.Bool("style_injected", result.StyleInjected),
		zap.Bool("written", result.Written),
	)
	return result, nil
}
