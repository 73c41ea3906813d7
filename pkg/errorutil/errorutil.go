package errorutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/sjson"
)

// 退出码参考 sysexits.h
const (
	CodeSuccess = 0 // 成功执行

	// 用户输入或调用错误
	CodeInvalidUsage = 64 // 命令行用法错误（参数不合法等）
	CodeMissingInput = 66 // 缺失必须输入（如配置文件不存在）

	// 程序自身或依赖错误
	CodeInternalErr = 70 // 内部 bug、panic、未捕捉异常
	CodeIOError     = 74 // 文件读写失败（日志、指标、报告输出）
	CodeConfigError = 78 // 配置文件有误

	CodeInterrupted = 130 // 被 SIGINT 中断
)

// omitempty 的作用是空字段不出现
type ExitErrorWithCode struct {
	Code    int    `json:"code"`              // 退出码
	Message string `json:"message,omitempty"` // 可读消息
	Err     error  `json:"-"`
}

func (e *ExitErrorWithCode) Error() string {
	if e.Err != nil {
		if e.Message != "" {
			return e.Message + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Exit with code: %d", e.Code)
}

func (e *ExitErrorWithCode) Unwrap() error {
	return e.Err
}

func NewExitError(code int, err error) error {
	return &ExitErrorWithCode{Code: code, Err: err}
}

// 带错误消息的错误
func NewExitErrorWithMessage(code int, message string, err error) error {
	return &ExitErrorWithCode{Code: code, Message: message, Err: err}
}

// os.Exit(errorutil.ExitCodeFromError(err))
// 没有显式退出码时，context 取消视为中断，其余视为内部错误
func ExitCodeFromError(err error) int {
	if err == nil {
		return CodeSuccess
	}
	var exitErr *ExitErrorWithCode
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return CodeInterrupted
	}
	return CodeInternalErr
}

// 判断当前的错误是否是带退出码的错误
func HasExitCode(err error) bool {
	var exitErr *ExitErrorWithCode
	return errors.As(err, &exitErr)
}

// 提取原始错误
func RootError(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

// JSON 输出 {"code":..,"message":..,"error":..}，空字段不出现
func (e *ExitErrorWithCode) JSON() string {
	doc, _ := sjson.Set("", "code", e.Code)
	if e.Message != "" {
		doc, _ = sjson.Set(doc, "message", e.Message)
	}
	if e.Err != nil {
		doc, _ = sjson.Set(doc, "error", e.Err.Error())
	}
	return doc
}

// FormatErrorAndCode 返回错误的 JSON 描述和退出码
func FormatErrorAndCode(err error) (string, int) {
	var exitErr *ExitErrorWithCode
	if errors.As(err, &exitErr) {
		return exitErr.JSON(), exitErr.Code
	}
	code := ExitCodeFromError(err)
	// 构建一个临时 ExitErrorWithCode 对象，并直接调用其 JSON() 方法
	return (&ExitErrorWithCode{
		Code:    code,
		Message: "未知错误",
		Err:     err,
	}).JSON(), code
}
