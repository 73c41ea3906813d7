// Package histogram 对 [0, 1] 区间内的样本做等宽分箱计数
package histogram

import (
	"fmt"
	"math"

	rbt "github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
)

// Bucket 一个非空的箱子，区间为 [Lo, Hi)，最后一个箱子包含 1
type Bucket struct {
	Lo    float64
	Hi    float64
	Count int
}

// Histogram 红黑树按箱子序号保存计数，只存非空的箱子
type Histogram struct {
	bins  int
	tree  *rbt.Tree
	total int
}

// New 创建 bins 个等宽箱子的直方图
func New(bins int) (*Histogram, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("histogram: 箱子个数必须为正数: %d", bins)
	}
	return &Histogram{bins: bins, tree: rbt.NewWith(utils.IntComparator)}, nil
}

// Bins 箱子个数
func (h *Histogram) Bins() int {
	return h.bins
}

// Add 记录一个样本，超出 [0, 1] 的值归入两端的箱子，NaN 忽略
func (h *Histogram) Add(v float64) {
	if math.IsNaN(v) {
		return
	}
	idx := int(math.Floor(v * float64(h.bins)))
	if idx < 0 {
		idx = 0
	}
	if idx >= h.bins {
		idx = h.bins - 1
	}
	count := 0
	if old, found := h.tree.Get(idx); found {
		count = old.(int)
	}
	h.tree.Put(idx, count+1)
	h.total++
}

// Total 记录的样本总数
func (h *Histogram) Total() int {
	return h.total
}

// Buckets 按区间升序返回非空的箱子
func (h *Histogram) Buckets() []Bucket {
	out := make([]Bucket, 0, h.tree.Size())
	width := 1.0 / float64(h.bins)
	it := h.tree.Iterator()
	for it.Next() {
		idx := it.Key().(int)
		out = append(out, Bucket{
			Lo:    float64(idx) * width,
			Hi:    float64(idx+1) * width,
			Count: it.Value().(int),
		})
	}
	return out
}
