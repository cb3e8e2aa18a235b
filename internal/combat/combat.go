// Package combat 保存战斗面板补丁使用的固定片段。
package combat

import (
	_ "embed"
	"strings"

	"github.com/dushixiang/patch-html/internal/textedit"
)

const (
	// Marker 样式是否已注入的标记类名
	Marker = "combat-controls"
	// StyleAnchor 样式块插入位置
	StyleAnchor = "</style>"

	sectionClose = "    </section>"
)

// InsertionPointMessage game-info 面板不存在时的诊断信息
const InsertionPointMessage = "Could not locate combat insertion point"

//go:embed assets/combat.css
var styleBlock string

//go:embed assets/game_info.html
var gameInfo string

//go:embed assets/combat_panels.html
var combatPanels string

// Style 返回待注入的样式块（含结尾空行）
func Style() string {
	return styleBlock + "\n\n"
}

// GameInfo 返回被替换的 game-info 片段
func GameInfo() string {
	return gameInfo
}

// CombatMarkup 返回替换后的片段：原 game-info 面板 + 战斗控制/遥测/状态沙盒 + </section>
func CombatMarkup() string {
	panel := strings.TrimSuffix(gameInfo, sectionClose)
	return panel + combatPanels + sectionClose
}

// InsertionPointError 返回带固定诊断信息的锚点错误
func InsertionPointError() error {
	return &textedit.AnchorError{Anchor: gameInfo, Message: InsertionPointMessage}
}
