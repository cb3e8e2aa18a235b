package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dushixiang/patch-html/internal/config"
	"github.com/dushixiang/patch-html/internal/document"
	"github.com/dushixiang/patch-html/internal/logger"
	"github.com/dushixiang/patch-html/internal/patch"
)

type app struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	// flags
	configPath string
	root       string
	logFile    string
	dryRun     bool
	backup     bool
	verbose    bool

	cfg      config.Config
	logger   *zap.Logger
	closeLog func() error
	store    *document.Store
}

func newApp() *app {
	return &app{
		fs:       afero.NewOsFs(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		logger:   zap.NewNop(),
		closeLog: func() error { return nil },
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "patch-html",
		Short: "对演示页面与首页执行固定的 HTML 补丁",
		Long: `patch-html 执行两个固定的文本补丁：

  splice  用 new_script.js 替换 demos/working-multiplayer-demo.html 中的模块脚本
  combat  向 public/index.html 注入战斗控制面板与样式

所有修改都在内存中完成，只有全部成功后才写回文件。`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "配置文件路径 (yaml)")
	flags.StringVar(&a.root, "root", "", "工作目录，默认为当前目录")
	flags.StringVar(&a.logFile, "log-file", "", "日志文件路径，支持 {root} 与 {home}")
	flags.BoolVar(&a.dryRun, "dry-run", false, "只检查补丁是否可以应用，不写文件")
	flags.BoolVar(&a.backup, "backup", false, "覆盖前保存 .bak 备份")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(a.spliceCmd(), a.combatCmd())
	return root
}

// setup 合并配置文件与命令行参数，初始化日志与存储
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.fs, a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = a.root
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	if flags.Changed("backup") {
		cfg.Backup = a.backup
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger, a.closeLog = logger.New(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Verbose:    a.verbose,
		Console:    a.stderr,
	})
	a.store = document.NewStore(a.fs, cfg.Root, a.logger)
	a.logger.Debug("配置已加载", zap.String("root", cfg.Root), zap.Bool("backup", cfg.Backup))
	return nil
}

func (a *app) options() patch.Options {
	return patch.Options{DryRun: a.dryRun, Backup: a.cfg.Backup}
}

func (a *app) spliceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "splice",
		Short: "用 new_script.js 替换演示页面中的 <script type=\"module\"> 区块",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := patch.NewScriptSplice(a.store, a.logger).Run(cmd.Context(), a.options())
			if err != nil {
				return err
			}
			a.report(cmd, result, "模块脚本")
			return nil
		},
	}
}

func (a *app) combatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "combat",
		Short: "向 public/index.html 注入战斗控制面板",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := patch.NewMarkupPatch(a.store, a.logger).Run(cmd.Context(), a.options())
			if err != nil {
				return err
			}
			switch {
			case result.StyleInjected:
			case result.StylePresent:
				fmt.Fprintln(cmd.OutOrStdout(), "战斗面板样式已存在，跳过插入")
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "未找到 </style>，跳过样式注入")
			}
			a.report(cmd, result, "战斗面板")
			return nil
		},
	}
}

func (a *app) report(cmd *cobra.Command, result *patch.Result, what string) {
	out := cmd.OutOrStdout()
	if !result.Written {
		fmt.Fprintf(out, "dry-run: 可以应用%s补丁到 %s (%d → %d 字节)\n", what, result.Path, result.Before, result.After)
		return
	}
	fmt.Fprintf(out, "✓ 成功应用%s补丁到 %s\n", what, result.Path)
}
