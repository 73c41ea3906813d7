package percolation

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument 网格边长不是正数，或者行列下标不在 [1, n] 之内
// 调用方用 errors.Is 判断，具体参数通过 %w 包在外层信息里
var ErrInvalidArgument = errors.New("percolation: invalid argument")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
