package percstats

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Confidence95 95% 置信区间对应的正态分位数
const Confidence95 = 1.96

// Number 可以参与统计的数值类型
type Number interface {
	constraints.Integer | constraints.Float
}

// Mean 算术平均值，空切片返回 NaN
func Mean[T Number](xs []T) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	return sum / float64(len(xs))
}

// StdDev 样本标准差(分母 n-1)
// 少于两个样本时分母为 0，返回 NaN
func StdDev[T Number](xs []T) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	mean := Mean(xs)
	var sum float64
	for _, x := range xs {
		d := float64(x) - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// ConfidenceInterval 95% 置信区间 mean ± 1.96*stddev/sqrt(trials)
func ConfidenceInterval(mean, stddev float64, trials int) (lo, hi float64) {
	half := Confidence95 * stddev / math.Sqrt(float64(trials))
	return mean - half, mean + half
}
