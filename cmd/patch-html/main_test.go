package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dushixiang/patch-html/internal/combat"
	"github.com/dushixiang/patch-html/internal/patch"
)

func runWith(fsys afero.Fs, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	a := newApp()
	a.fs = fsys
	a.stdout = &out
	a.stderr = &errOut
	code = run(context.Background(), a, args)
	return code, out.String(), errOut.String()
}

func TestRun_CombatMissingInsertionPoint(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/site/"+patch.IndexHTMLPath, []byte("<style>\n</style>\n<section></section>\n"), 0644))

	code, stdout, stderr := runWith(memFs, "combat", "--root", "/site")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Could not locate combat insertion point\n", stderr)
}

func TestRun_SpliceMissingModuleTag(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/demo/"+patch.DemoHTMLPath, []byte("<body></body>"), 0644))
	require.NoError(t, afero.WriteFile(memFs, "/demo/"+patch.NewScriptPath, []byte("x"), 0644))

	code, _, stderr := runWith(memFs, "splice", "--root", "/demo")
	assert.Equal(t, 1, code)
	assert.Equal(t, "anchor not found: \"<script type=\"module\">\"\n", stderr)
}

func TestRun_Success(t *testing.T) {
	memFs := afero.NewMemMapFs()
	index := "<html>\n" + combat.GameInfo() + "\n</html>\n"
	require.NoError(t, afero.WriteFile(memFs, "/site/"+patch.IndexHTMLPath, []byte(index), 0644))

	code, stdout, stderr := runWith(memFs, "combat", "--root", "/site")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "未找到 </style>，跳过样式注入")
	assert.Contains(t, stdout, "✓ 成功应用战斗面板补丁")
	assert.NotContains(t, stderr, "Could not locate")
}

func TestRun_VerboseStackPointsAtFailure(t *testing.T) {
	code, _, stderr := runWith(afero.NewMemMapFs(), "splice", "--root", "/missing", "-v")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "读取文件失败")
	// 调用栈从读取文件处开始
	assert.Contains(t, stderr, filepath.Join("internal", "document", "store.go"))
}

func TestRun_PlainFailureWithoutVerbose(t *testing.T) {
	code, _, stderr := runWith(afero.NewMemMapFs(), "splice", "--root", "/missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "执行失败: 读取文件失败 /missing/"+patch.DemoHTMLPath)
	assert.NotContains(t, stderr, "store.go")
}

func TestRun_LogFileFlushed(t *testing.T) {
	memFs := afero.NewMemMapFs()
	index := "<html>\n" + combat.GameInfo() + "\n</html>\n"
	require.NoError(t, afero.WriteFile(memFs, "/site/"+patch.IndexHTMLPath, []byte(index), 0644))

	logPath := filepath.Join(t.TempDir(), "run.log")
	code, _, _ := runWith(memFs, "combat", "--root", "/site", "--log-file", logPath)
	require.Equal(t, 0, code)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "战斗面板注入完成")
}
