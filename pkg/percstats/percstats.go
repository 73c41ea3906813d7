// Package percstats 用蒙特卡洛方法估计渗流阈值
//
// 每次试验新建一个 n×n 的网格，随机打开阻塞的站点直到渗透，
// 记录 打开数/n² 作为一个样本；所有试验结束后计算均值、样本标准差和 95% 置信区间。
// 试验按顺序执行，context 只在两次试验之间检查。
package percstats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"percolation/pkg/logutil"
	"percolation/pkg/percolation"
)

// ErrInvalidArgument n 或 trials 不是正数
var ErrInvalidArgument = errors.New("percstats: invalid argument")

// Observer 每次试验结束后回调
type Observer interface {
	ObserveTrial(n, opened int, threshold float64)
}

// ObserverFunc 把普通函数适配成 Observer
type ObserverFunc func(n, opened int, threshold float64)

func (f ObserverFunc) ObserveTrial(n, opened int, threshold float64) {
	f(n, opened, threshold)
}

type runConfig struct {
	source    SiteSource
	seed      int64
	seeded    bool
	observers []Observer
}

// Option 调整 Run 的行为
type Option func(*runConfig)

// WithSeed 使用固定种子的 RandomSource，结果可复现
func WithSeed(seed int64) Option {
	return func(c *runConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// WithSource 使用自定义的站点来源，优先于 WithSeed
func WithSource(src SiteSource) Option {
	return func(c *runConfig) {
		c.source = src
	}
}

// WithObserver 追加一个试验回调
func WithObserver(o Observer) Option {
	return func(c *runConfig) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// Stats 一组试验的结果，创建后只读
type Stats struct {
	n       int
	trials  int
	seed    int64
	samples []float64
	mean    float64
	stddev  float64
	lo, hi  float64
}

// N 网格边长
func (s *Stats) N() int { return s.n }

// Trials 试验次数
func (s *Stats) Trials() int { return s.trials }

// Seed 随机种子，自定义 SiteSource 时为 0
func (s *Stats) Seed() int64 { return s.seed }

// Samples 每次试验的阈值样本，返回副本
func (s *Stats) Samples() []float64 {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

// Mean 渗流阈值的样本均值
func (s *Stats) Mean() float64 { return s.mean }

// StdDev 渗流阈值的样本标准差，只有一次试验时为 NaN
func (s *Stats) StdDev() float64 { return s.stddev }

// ConfidenceLo 95% 置信区间下界
func (s *Stats) ConfidenceLo() float64 { return s.lo }

// ConfidenceHi 95% 置信区间上界
func (s *Stats) ConfidenceHi() float64 { return s.hi }

// NewStats 由已有样本计算统计量，n 只用于记录
func NewStats(n int, samples []float64) (*Stats, error) {
	if n <= 0 || len(samples) == 0 {
		return nil, fmt.Errorf("%w: n=%d samples=%d", ErrInvalidArgument, n, len(samples))
	}
	s := &Stats{
		n:       n,
		trials:  len(samples),
		samples: append([]float64(nil), samples...),
	}
	s.mean = Mean(s.samples)
	s.stddev = StdDev(s.samples)
	s.lo, s.hi = ConfidenceInterval(s.mean, s.stddev, s.trials)
	return s, nil
}

// Trial 进行一次试验，返回渗透时打开的站点数
// 全部打开仍不渗透时(不会发生，除非来源出错)返回 n*n
func Trial(n int, src SiteSource) (int, error) {
	p, err := percolation.New(n)
	if err != nil {
		return 0, err
	}
	total := n * n
	for !p.Percolates() && p.NumberOfOpenSites() < total {
		row, col, err := src.Next(p)
		if err != nil {
			return 0, fmt.Errorf("选取站点失败: %w", err)
		}
		if err := p.Open(row, col); err != nil {
			return 0, err
		}
	}
	return p.NumberOfOpenSites(), nil
}

// Run 在 n×n 网格上做 trials 次独立试验
// ctx 被取消时在下一次试验开始前返回错误，不返回部分结果
func Run(ctx context.Context, n, trials int, opts ...Option) (*Stats, error) {
	if n <= 0 || trials <= 0 {
		return nil, fmt.Errorf("%w: n=%d trials=%d 必须为正数", ErrInvalidArgument, n, trials)
	}
	if n > percolation.MaxSize {
		return nil, fmt.Errorf("%w: n=%d 超过上限 %d", ErrInvalidArgument, n, percolation.MaxSize)
	}
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.source == nil {
		if !cfg.seeded {
			cfg.seed = time.Now().UnixNano()
		}
		cfg.source = NewRandomSource(cfg.seed)
	} else {
		cfg.seed = 0
	}

	logutil.Info("开始试验: n=%d trials=%d seed=%d", n, trials, cfg.seed)
	start := time.Now()
	total := float64(n * n)
	samples := make([]float64, 0, trials)
	for i := 0; i < trials; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("第 %d 次试验前中断: %w", i+1, err)
		}
		opened, err := Trial(n, cfg.source)
		if err != nil {
			return nil, fmt.Errorf("第 %d 次试验失败: %w", i+1, err)
		}
		threshold := float64(opened) / total
		samples = append(samples, threshold)
		logutil.Debug("试验 %d/%d: opened=%d threshold=%.6f", i+1, trials, opened, threshold)
		for _, o := range cfg.observers {
			o.ObserveTrial(n, opened, threshold)
		}
	}

	stats, err := NewStats(n, samples)
	if err != nil {
		return nil, err
	}
	stats.seed = cfg.seed
	logutil.Info("试验完成: mean=%.6f stddev=%.6f 耗时 %s", stats.mean, stats.stddev, time.Since(start))
	return stats, nil
}
