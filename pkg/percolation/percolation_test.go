package percolation_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"percolation/internal/testutils"
	"percolation/pkg/percolation"
)

func TestNewFresh(t *testing.T) {
	for _, n := range []int{1, 2, 5, 20} {
		p, err := percolation.New(n)
		require.NoError(t, err)
		assert.Equal(t, n, p.Size())
		assert.Equal(t, 0, p.NumberOfOpenSites())
		assert.False(t, p.Percolates())
	}
}

func TestNewInvalid(t *testing.T) {
	// 过大的边长会让 n*n 溢出，必须在分配之前拒绝
	for _, n := range []int{0, -1, -100, percolation.MaxSize + 1, math.MaxInt32, math.MaxInt} {
		p, err := percolation.New(n)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, percolation.ErrInvalidArgument, "n=%d", n)
	}
}

// 所有带下标的操作都要拒绝 [1, n] 之外的行列
func TestIndexValidation(t *testing.T) {
	p, err := percolation.New(3)
	require.NoError(t, err)

	bad := [][2]int{{0, 1}, {1, 0}, {4, 1}, {1, 4}, {-1, -1}, {4, 4}}
	for _, s := range bad {
		assert.ErrorIs(t, p.Open(s[0], s[1]), percolation.ErrInvalidArgument, "Open%v", s)

		_, err := p.IsOpen(s[0], s[1])
		assert.ErrorIs(t, err, percolation.ErrInvalidArgument, "IsOpen%v", s)

		_, err = p.IsFull(s[0], s[1])
		assert.ErrorIs(t, err, percolation.ErrInvalidArgument, "IsFull%v", s)
	}
	// 非法调用不能改变状态
	assert.Equal(t, 0, p.NumberOfOpenSites())
	assert.False(t, p.Percolates())
}

func TestSingleSite(t *testing.T) {
	p, err := percolation.New(1)
	require.NoError(t, err)

	full, err := p.IsFull(1, 1)
	require.NoError(t, err)
	assert.False(t, full)

	require.NoError(t, p.Open(1, 1))
	assert.True(t, p.Percolates())
	full, err = p.IsFull(1, 1)
	require.NoError(t, err)
	assert.True(t, full)
	assert.Equal(t, 1, p.NumberOfOpenSites())
}

func TestTwoByTwo(t *testing.T) {
	tests := []struct {
		name  string
		extra [2]int
	}{
		{"join through (2,1)", [2]int{2, 1}},
		{"join through (1,2)", [2]int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := percolation.New(2)
			require.NoError(t, err)

			// 对角的两个站点不相邻
			testutils.OpenSites(t, p, [2]int{1, 1}, [2]int{2, 2})
			assert.False(t, p.Percolates())

			testutils.OpenSites(t, p, tt.extra)
			assert.True(t, p.Percolates())
			assert.Equal(t, 3, p.NumberOfOpenSites())
		})
	}
}

// 底部整行打开但和第一行不连通，底部站点都不能是 full
func TestNoBackwashBottomRow(t *testing.T) {
	p := testutils.NewFromPattern(t,
		"...",
		"...",
		"ooo",
	)
	assert.False(t, p.Percolates())
	for col := 1; col <= 3; col++ {
		full, err := p.IsFull(3, col)
		require.NoError(t, err)
		assert.False(t, full, "(3,%d)", col)
	}
}

// 已经渗透之后，只和底部相连的另一块区域也不能被标成 full
func TestNoBackwashAfterPercolation(t *testing.T) {
	p := testutils.NewFromPattern(t,
		"o...",
		"o...",
		"o..o",
		"o..o",
	)
	require.True(t, p.Percolates())

	want := []string{
		"*...",
		"*...",
		"*..o",
		"*..o",
	}
	if diff := cmp.Diff(want, testutils.Render(t, p)); diff != "" {
		t.Errorf("Mismatch (-want +got):\n%s", diff)
	}
}

// 底部标记必须在合并之前从旧的根上读出来，否则会丢失
func TestBottomFlagSurvivesMerges(t *testing.T) {
	p, err := percolation.New(4)
	require.NoError(t, err)

	// 先在底部建一个比较大的分量，让它的根秩更高
	testutils.OpenSites(t, p,
		[2]int{4, 2}, [2]int{4, 3}, [2]int{3, 2}, [2]int{3, 3},
	)
	// 顶部独立的一条竖线，和底部分量不相连
	testutils.OpenSites(t, p, [2]int{1, 1}, [2]int{2, 1})
	assert.False(t, p.Percolates())

	// (2,2) 同时连接顶部分量和底部分量
	testutils.OpenSites(t, p, [2]int{2, 2})
	assert.True(t, p.Percolates())
	for _, s := range [][2]int{{4, 2}, {4, 3}, {3, 3}} {
		full, err := p.IsFull(s[0], s[1])
		require.NoError(t, err)
		assert.True(t, full, "%v", s)
	}
}

// 从上往下连通，最后一个打开的是中间的站点
func TestPercolatesThroughMiddle(t *testing.T) {
	p := testutils.NewFromPattern(t,
		"..o",
		"...",
		"o..",
	)
	assert.False(t, p.Percolates())
	testutils.OpenSites(t, p, [2]int{2, 3}, [2]int{2, 2}, [2]int{3, 2})
	assert.True(t, p.Percolates())
}

func TestOpenIdempotent(t *testing.T) {
	p, err := percolation.New(3)
	require.NoError(t, err)

	testutils.OpenSites(t, p, [2]int{2, 2})
	before := testutils.Render(t, p)
	testutils.OpenSites(t, p, [2]int{2, 2}, [2]int{2, 2})

	assert.Equal(t, 1, p.NumberOfOpenSites())
	assert.Equal(t, before, testutils.Render(t, p))
}

// 随机打开站点，每一步都和 BFS 参照实现对比 full 集合和渗透状态，并检查单调性
func TestRandomAgainstReference(t *testing.T) {
	r := rand.New(rand.NewSource(2024))
	for _, n := range []int{1, 2, 3, 5, 8} {
		p, err := percolation.New(n)
		require.NoError(t, err)

		prevOpen := 0
		prevPerc := false
		for step := 0; step < n*n*2; step++ {
			row, col := r.Intn(n)+1, r.Intn(n)+1
			wasOpen, err := p.IsOpen(row, col)
			require.NoError(t, err)
			require.NoError(t, p.Open(row, col))

			if wasOpen {
				assert.Equal(t, prevOpen, p.NumberOfOpenSites())
			} else {
				assert.Equal(t, prevOpen+1, p.NumberOfOpenSites())
			}
			if prevPerc {
				assert.True(t, p.Percolates(), "渗透标记不能回退")
			}
			assert.Equal(t, testutils.Percolates(t, p), p.Percolates(), "n=%d step=%d", n, step)

			// full 当且仅当能从第一行沿打开的站点走到
			want := testutils.FullSites(t, p)
			for rr := 1; rr <= n; rr++ {
				for cc := 1; cc <= n; cc++ {
					full, err := p.IsFull(rr, cc)
					require.NoError(t, err)
					require.Equal(t, want[rr][cc], full, "n=%d step=%d site=(%d,%d)", n, step, rr, cc)
				}
			}
			prevOpen = p.NumberOfOpenSites()
			prevPerc = p.Percolates()
		}
	}
}

func BenchmarkOpenAll(b *testing.B) {
	const n = 200
	r := rand.New(rand.NewSource(42))
	order := r.Perm(n * n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, _ := percolation.New(n)
		for _, idx := range order {
			_ = p.Open(idx/n+1, idx%n+1)
		}
	}
}
