package percstats

import (
	"errors"
	"math/rand"

	"percolation/pkg/percolation"
)

// ErrExhausted 网格上已经没有阻塞的站点可以选
var ErrExhausted = errors.New("percstats: no blocked site left")

// SiteSource 每次给出一个当前仍然阻塞的站点
type SiteSource interface {
	Next(p *percolation.Percolation) (row, col int, err error)
}

// RandomSource 均匀随机地拒绝采样：抽到已打开的站点就重抽
// 打开的比例在渗透前一般不会太高，重抽次数的期望有界
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource 用固定种子创建，同一个种子得到同一串站点
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSource) Next(p *percolation.Percolation) (int, int, error) {
	n := p.Size()
	if p.NumberOfOpenSites() >= n*n {
		return 0, 0, ErrExhausted
	}
	for {
		row, col := s.rng.Intn(n)+1, s.rng.Intn(n)+1
		open, err := p.IsOpen(row, col)
		if err != nil {
			return 0, 0, err
		}
		if !open {
			return row, col, nil
		}
	}
}
