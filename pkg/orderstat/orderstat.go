// Package orderstat 在 B 树上维护有序的样本多重集合，提供最小值、最大值和分位数
package orderstat

import (
	"math"

	"github.com/google/btree"
)

// 默认 B 树的度
const defaultDegree = 16

// 相同的值按插入序号区分，保证重复样本都能保留
type item struct {
	value float64
	seq   int
}

func less(a, b item) bool {
	if a.value != b.value {
		return a.value < b.value
	}
	return a.seq < b.seq
}

// Set 样本的有序多重集合，NaN 会被忽略
type Set struct {
	tree *btree.BTreeG[item]
	seq  int
}

// New 创建空集合
func New() *Set {
	return &Set{tree: btree.NewG[item](defaultDegree, less)}
}

// FromSlice 用一组样本创建集合
func FromSlice(values []float64) *Set {
	s := New()
	for _, v := range values {
		s.Insert(v)
	}
	return s
}

// Insert 插入一个样本
func (s *Set) Insert(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.tree.ReplaceOrInsert(item{value: v, seq: s.seq})
	s.seq++
}

// Len 样本个数
func (s *Set) Len() int {
	return s.tree.Len()
}

// Min 最小值，空集合返回 NaN
func (s *Set) Min() float64 {
	it, ok := s.tree.Min()
	if !ok {
		return math.NaN()
	}
	return it.value
}

// Max 最大值，空集合返回 NaN
func (s *Set) Max() float64 {
	it, ok := s.tree.Max()
	if !ok {
		return math.NaN()
	}
	return it.value
}

// at 返回升序第 k 个(从 0 开始)样本
func (s *Set) at(k int) float64 {
	var (
		out = math.NaN()
		i   int
	)
	s.tree.Ascend(func(it item) bool {
		if i == k {
			out = it.value
			return false
		}
		i++
		return true
	})
	return out
}

// Quantile 最近秩法求 q 分位数，q 截断到 [0, 1]，空集合返回 NaN
func (s *Set) Quantile(q float64) float64 {
	n := s.Len()
	if n == 0 || math.IsNaN(q) {
		return math.NaN()
	}
	q = math.Max(0, math.Min(1, q))
	rank := int(math.Ceil(q * float64(n)))
	if rank < 1 {
		rank = 1
	}
	return s.at(rank - 1)
}

// Median 中位数，偶数个样本时取中间两个的平均
func (s *Set) Median() float64 {
	n := s.Len()
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 1 {
		return s.at(n / 2)
	}
	return (s.at(n/2-1) + s.at(n/2)) / 2
}

// Values 按升序返回所有样本
func (s *Set) Values() []float64 {
	out := make([]float64, 0, s.Len())
	s.tree.Ascend(func(it item) bool {
		out = append(out, it.value)
		return true
	})
	return out
}
