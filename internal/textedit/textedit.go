// Package textedit 提供基于字面锚点的纯文本拼接操作。
//
// 所有函数都不修改入参，只返回新的文档；锚点缺失时统一返回 *AnchorError。
package textedit

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrAnchorNotFound 锚点不存在
var ErrAnchorNotFound = errors.New("anchor not found")

// AnchorError 锚点查找失败
type AnchorError struct {
	Anchor string
	// Message 面向使用者的诊断信息，为空时使用默认描述
	Message string
}

func (e *AnchorError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "anchor not found: " + quote(e.Anchor)
}

func (e *AnchorError) Is(target error) bool {
	return target == ErrAnchorNotFound
}

// maxQuoteLen 错误信息中锚点的最大字节数
const maxQuoteLen = 60

// quote 截断过长的锚点，避免把整段 HTML 打进错误信息。
// 只在首个换行或字符边界处截断。
func quote(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 && i < maxQuoteLen {
		return `"` + s[:i] + `…"`
	}
	if len(s) > maxQuoteLen {
		cut := maxQuoteLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return `"` + s[:cut] + `…"`
	}
	return `"` + s + `"`
}

// SpliceSpan 将 open 首次出现处到其后第一个 close 结尾（含两端）的区间替换为 replacement
func SpliceSpan(doc, open, close, replacement string) (string, error) {
	start := strings.Index(doc, open)
	if start < 0 {
		return "", &AnchorError{Anchor: open}
	}
	n := strings.Index(doc[start:], close)
	if n < 0 {
		return "", &AnchorError{Anchor: close}
	}
	end := start + n + len(close)
	return doc[:start] + replacement + doc[end:], nil
}

// InsertBefore 在 anchor 首次出现前插入 block。
// anchor 所在行前面只有空白时插入到行首，保留 anchor 原有缩进。
func InsertBefore(doc, anchor, block string) (string, error) {
	idx := strings.Index(doc, anchor)
	if idx < 0 {
		return "", &AnchorError{Anchor: anchor}
	}
	at := lineStart(doc, idx)
	return doc[:at] + block + doc[at:], nil
}

// EnsureBefore 幂等插入：marker 已存在则原样返回，inserted 为 false
func EnsureBefore(doc, marker, anchor, block string) (out string, inserted bool, err error) {
	if strings.Contains(doc, marker) {
		return doc, false, nil
	}
	out, err = InsertBefore(doc, anchor, block)
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// ReplaceFirst 替换 old 的第一次精确出现
func ReplaceFirst(doc, old, new string) (string, error) {
	idx := strings.Index(doc, old)
	if idx < 0 {
		return "", &AnchorError{Anchor: old}
	}
	return doc[:idx] + new + doc[idx+len(old):], nil
}

func lineStart(doc string, idx int) int {
	i := idx
	for i > 0 {
		c := doc[i-1]
		if c == '\n' {
			return i
		}
		if c != ' ' && c != '\t' {
			return idx
		}
		i--
	}
	return 0
}
