package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"percolation/pkg/errorutil"
	"percolation/pkg/logutil"
)

const TOOL_VERSION = "1.0.0+20261019"

func main() {
	// Ctrl-C 取消 context，试验在两次之间停下
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	// 不要用defer，因为defer是在函数返回前执行的，而不是os.Exit()执行前执行
	os.Exit(code)
}

// run 执行命令并返回退出码，方便测试
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd, opts := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	code := reportError(stderr, err, opts.jsonOutput())
	if cerr := logutil.CloseLogger(); cerr != nil && code == errorutil.CodeSuccess {
		code = errorutil.CodeIOError
	}
	return code
}

// reportError 把错误写到 stderr 并返回退出码
// JSON 模式下输出 {"code":..,"message":..,"error":..}，方便脚本解析
func reportError(stderr io.Writer, err error, asJSON bool) int {
	if err == nil {
		return errorutil.CodeSuccess
	}
	if errorutil.HasExitCode(err) {
		logutil.Warn("命令执行失败: %v", err)
	} else {
		// cobra 自己返回的错误没有退出码
		logutil.Error("命令执行失败: %v", err)
	}
	logutil.Debug("root cause: %v", errorutil.RootError(err))

	if asJSON {
		msg, code := errorutil.FormatErrorAndCode(err)
		fmt.Fprintln(stderr, msg)
		return code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return errorutil.ExitCodeFromError(err)
}
