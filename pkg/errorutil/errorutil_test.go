package errorutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

var errBase = errors.New("base")

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, CodeSuccess},
		{"plain", errBase, CodeInternalErr},
		{"usage", NewExitError(CodeInvalidUsage, errBase), CodeInvalidUsage},
		{"wrapped usage", fmt.Errorf("run: %w", NewExitError(CodeIOError, errBase)), CodeIOError},
		{"canceled", fmt.Errorf("trial 3: %w", context.Canceled), CodeInterrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitErrorChain(t *testing.T) {
	err := NewExitErrorWithMessage(CodeConfigError, "读取配置失败", errBase)

	assert.True(t, HasExitCode(err))
	assert.ErrorIs(t, err, errBase)
	assert.Equal(t, "读取配置失败: base", err.Error())
	assert.Equal(t, errBase, RootError(fmt.Errorf("outer: %w", err)))

	assert.False(t, HasExitCode(errBase))
	assert.Equal(t, "Exit with code: 64", (&ExitErrorWithCode{Code: CodeInvalidUsage}).Error())
}

func TestFormatErrorAndCode(t *testing.T) {
	out, code := FormatErrorAndCode(NewExitErrorWithMessage(CodeInvalidUsage, "参数错误", errBase))
	assert.Equal(t, CodeInvalidUsage, code)
	assert.Equal(t, int64(CodeInvalidUsage), gjson.Get(out, "code").Int())
	assert.Equal(t, "参数错误", gjson.Get(out, "message").String())
	assert.Equal(t, "base", gjson.Get(out, "error").String())

	out, code = FormatErrorAndCode(errBase)
	assert.Equal(t, CodeInternalErr, code)
	assert.Equal(t, "未知错误", gjson.Get(out, "message").String())

	// 没有消息也没有内部错误时只输出 code
	out, code = FormatErrorAndCode(&ExitErrorWithCode{Code: CodeIOError})
	assert.Equal(t, CodeIOError, code)
	assert.JSONEq(t, `{"code":74}`, out)
}
