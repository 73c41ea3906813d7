// Package metrics 把试验结果记录成 Prometheus 指标
//
// 命令行工具没有常驻进程，指标通过 WriteTextfile 写成文本格式，
// 交给 node_exporter 的 textfile collector 采集。
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "percolation"

// TrialMetrics 实现 percstats.Observer
type TrialMetrics struct {
	// TrialsTotal 按网格边长统计完成的试验次数
	TrialsTotal *prometheus.CounterVec
	// Threshold 渗流阈值样本的分布
	Threshold prometheus.Histogram
	// LastOpenSites 最近一次试验渗透时打开的站点数
	LastOpenSites prometheus.Gauge
}

// NewTrialMetrics 创建指标并注册到 reg，reg 为 nil 时不注册
func NewTrialMetrics(reg prometheus.Registerer) (*TrialMetrics, error) {
	m := &TrialMetrics{
		TrialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trials_total",
				Help:      "Number of completed percolation trials by grid size",
			},
			[]string{"n"},
		),
		Threshold: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "threshold_ratio",
			Help:      "Fraction of open sites when the grid first percolates",
			Buckets:   prometheus.LinearBuckets(0.05, 0.05, 20),
		}),
		LastOpenSites: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_open_sites",
			Help:      "Open sites at percolation in the most recent trial",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.TrialsTotal, m.Threshold, m.LastOpenSites} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveTrial 记录一次试验
func (m *TrialMetrics) ObserveTrial(n, opened int, threshold float64) {
	m.TrialsTotal.WithLabelValues(strconv.Itoa(n)).Inc()
	m.Threshold.Observe(threshold)
	m.LastOpenSites.Set(float64(opened))
}

// WriteTextfile 把 g 中的指标以文本格式原子地写入 path
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
