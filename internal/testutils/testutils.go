package testutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"percolation/pkg/percolation"
)

// 用字符画描述网格状态，每行一个字符串，行号从上往下 1..n
//
//	'o' 打开的站点
//	'.' 阻塞的站点
//
// Render 的输出额外用 '*' 表示 full 的站点
const (
	Open    = 'o'
	Blocked = '.'
	Full    = '*'
)

// NewFromPattern 按字符画创建网格并打开对应站点，行列数必须相等
func NewFromPattern(t testing.TB, rows ...string) *percolation.Percolation {
	t.Helper()
	p, err := percolation.New(len(rows))
	require.NoError(t, err, "创建网格失败")
	OpenPattern(t, p, rows...)
	return p
}

// OpenPattern 从上到下、从左到右打开字符画里标记为 'o' 的站点
func OpenPattern(t testing.TB, p *percolation.Percolation, rows ...string) {
	t.Helper()
	if len(rows) != p.Size() {
		t.Fatalf("字符画有 %d 行，网格边长是 %d", len(rows), p.Size())
	}
	for i, line := range rows {
		if len(line) != p.Size() {
			t.Fatalf("第 %d 行长度 %d，网格边长是 %d", i+1, len(line), p.Size())
		}
		for j, c := range line {
			switch c {
			case Open, Full:
				require.NoError(t, p.Open(i+1, j+1), "Open(%d, %d)", i+1, j+1)
			case Blocked:
			default:
				t.Fatalf("第 %d 行出现未知字符 %q", i+1, c)
			}
		}
	}
}

// OpenSites 依次打开给定的 (row, col) 列表
func OpenSites(t testing.TB, p *percolation.Percolation, sites ...[2]int) {
	t.Helper()
	for _, s := range sites {
		require.NoError(t, p.Open(s[0], s[1]), "Open(%d, %d)", s[0], s[1])
	}
}

// Render 把网格当前状态画成字符画，便于和期望结果做 diff
func Render(t testing.TB, p *percolation.Percolation) []string {
	t.Helper()
	n := p.Size()
	out := make([]string, 0, n)
	for row := 1; row <= n; row++ {
		var b strings.Builder
		for col := 1; col <= n; col++ {
			open, err := p.IsOpen(row, col)
			require.NoError(t, err, "IsOpen(%d, %d)", row, col)
			full, err := p.IsFull(row, col)
			require.NoError(t, err, "IsFull(%d, %d)", row, col)
			switch {
			case full:
				b.WriteRune(Full)
			case open:
				b.WriteRune(Open)
			default:
				b.WriteRune(Blocked)
			}
		}
		out = append(out, b.String())
	}
	return out
}

// FullSites 用广度优先搜索独立求出所有 full 的站点，作为测试里的参照实现
// 返回值按 [row][col] 下标，0 行 0 列不用
func FullSites(t testing.TB, p *percolation.Percolation) [][]bool {
	t.Helper()
	n := p.Size()
	seen := make([][]bool, n+1)
	for i := range seen {
		seen[i] = make([]bool, n+1)
	}
	isOpen := func(r, c int) bool {
		ok, err := p.IsOpen(r, c)
		require.NoError(t, err, "IsOpen(%d, %d)", r, c)
		return ok
	}

	queue := make([][2]int, 0)
	for c := 1; c <= n; c++ {
		if isOpen(1, c) {
			seen[1][c] = true
			queue = append(queue, [2]int{1, c})
		}
	}
	offsets := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for qi := 0; qi < len(queue); qi++ {
		cur := queue[qi]
		for _, d := range offsets {
			r, c := cur[0]+d[0], cur[1]+d[1]
			if r < 1 || r > n || c < 1 || c > n || seen[r][c] || !isOpen(r, c) {
				continue
			}
			seen[r][c] = true
			queue = append(queue, [2]int{r, c})
		}
	}
	return seen
}

// Percolates 底部一行有 full 的站点即渗透
func Percolates(t testing.TB, p *percolation.Percolation) bool {
	t.Helper()
	n := p.Size()
	full := FullSites(t, p)
	for c := 1; c <= n; c++ {
		if full[n][c] {
			return true
		}
	}
	return false
}
