package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-errors/errors"

	"github.com/dushixiang/patch-html/internal/textedit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(code)
}

// run 执行命令并返回退出码
func run(ctx context.Context, a *app, args []string) int {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err := cmd.ExecuteContext(ctx)
	_ = a.closeLog()
	if err != nil {
		printError(a.stderr, a.verbose, err)
		return 1
	}
	return 0
}

// printError 锚点错误只输出诊断信息，其余错误在 verbose 下附带出错位置的调用栈
func printError(w io.Writer, verbose bool, err error) {
	if errors.Is(err, textedit.ErrAnchorNotFound) {
		fmt.Fprintln(w, err.Error())
		return
	}
	if verbose {
		var stackErr *errors.Error
		if errors.As(err, &stackErr) {
			fmt.Fprintln(w, stackErr.ErrorStack())
			return
		}
	}
	fmt.Fprintf(w, "执行失败: %v\n", err)
}
