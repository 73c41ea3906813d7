package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"percolation/pkg/errorutil"
	"percolation/pkg/initutil"
	"percolation/pkg/logutil"
	"percolation/pkg/metrics"
	"percolation/pkg/percolation"
	"percolation/pkg/percstats"
	"percolation/pkg/report"
)

// 命令行选项，只有显式给出的 flag 才覆盖配置文件
type cliOptions struct {
	configFile  string
	seed        int64
	logLevel    logutil.Level
	logFile     string
	format      report.Format
	extended    bool
	bins        int
	metricsFile string

	// PersistentPreRunE 合并之后的配置
	cfg initutil.Config
}

// jsonOutput 错误输出是否使用 JSON：配置合并之后以配置为准，否则看 --format
func (o *cliOptions) jsonOutput() bool {
	if o.cfg.Format != "" {
		return o.cfg.Format == string(report.FormatJSON)
	}
	return o.format == report.FormatJSON
}

func usageError(format string, args ...any) error {
	return errorutil.NewExitError(errorutil.CodeInvalidUsage, fmt.Errorf(format, args...))
}

func parsePositive(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, usageError("%s 必须是正整数: %q", name, s)
	}
	return v, nil
}

// loadConfig 读取配置文件并用显式给出的 flag 覆盖
func (o *cliOptions) loadConfig(cmd *cobra.Command) error {
	cfg := initutil.Default()
	if o.configFile != "" {
		loaded, err := initutil.Load(o.configFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return errorutil.NewExitErrorWithMessage(errorutil.CodeMissingInput, "配置文件不存在", err)
		case err != nil:
			return errorutil.NewExitErrorWithMessage(errorutil.CodeConfigError, "读取配置失败", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		seed := o.seed
		cfg.Seed = &seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel.String()
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if flags.Changed("format") {
		cfg.Format = o.format.String()
	}
	if flags.Changed("extended") {
		cfg.Extended = o.extended
	}
	if flags.Changed("bins") {
		cfg.Bins = o.bins
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}
	if _, err := logutil.ParseLevel(cfg.LogLevel); err != nil {
		return errorutil.NewExitError(errorutil.CodeInvalidUsage, err)
	}
	if err := initutil.InitSystem(cfg); err != nil {
		return errorutil.NewExitErrorWithMessage(errorutil.CodeIOError, "初始化日志失败", err)
	}
	o.cfg = cfg
	return nil
}

// runErrorCode 把试验过程中的错误映射到退出码
func runErrorCode(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorutil.NewExitErrorWithMessage(errorutil.CodeInterrupted, "试验被中断", err)
	case errors.Is(err, percstats.ErrInvalidArgument), errors.Is(err, percolation.ErrInvalidArgument):
		return errorutil.NewExitError(errorutil.CodeInvalidUsage, err)
	default:
		return errorutil.NewExitError(errorutil.CodeInternalErr, err)
	}
}

func newRootCmd() (*cobra.Command, *cliOptions) {
	opts := &cliOptions{logLevel: logutil.WARN, format: report.FormatText}

	rootCmd := &cobra.Command{
		Use:   "percstats [n] [trials]",
		Short: fmt.Sprintf("percstats v%s 用蒙特卡洛方法估计 n×n 网格的渗流阈值", TOOL_VERSION),
		Long: fmt.Sprintf(`percstats v%s 用蒙特卡洛方法估计 n×n 网格的渗流阈值

每次试验随机打开阻塞的站点直到顶部和底部连通，记录打开站点的比例，
最后输出均值、样本标准差和 95%% 置信区间。

n 和 trials 也可以写在配置文件里(YAML 或 JSON)，命令行参数优先:

  n: 200
  trials: 100
  seed: 42
  format: json
`, TOOL_VERSION),
		Example: `  percstats 200 100
  percstats 200 100 --seed 42 --format json
  percstats --config run.yaml --metrics-file /var/lib/node_exporter/percolation.prom`,
		Version: TOOL_VERSION,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return usageError("需要两个参数 n 和 trials，实际 %d 个", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, opts, args)
		},
	}

	// 阻止 Cobra 在命令参数错误时输出帮助
	rootCmd.SilenceUsage = true
	// 阻止Cobra自动打印RunEs返回的错误内容
	rootCmd.SilenceErrors = true
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errorutil.NewExitError(errorutil.CodeInvalidUsage, err)
	})

	// 定义全局flag(屁股后面带P的函数才支持短选项)
	pflags := rootCmd.PersistentFlags()
	pflags.StringVarP(&opts.configFile, "config", "c", "", "配置文件(.yaml/.yml/.json)")
	pflags.Int64VarP(&opts.seed, "seed", "s", 0, "随机种子，不指定时每次运行不同")
	pflags.VarP(&opts.logLevel, "log-level", "e", "日志等级(DEBUG/INFO/WARN/ERROR)")
	pflags.StringVarP(&opts.logFile, "log-file", "l", "stderr", "日志文件名(stdout/stderr 表示标准输出)")

	flags := rootCmd.Flags()
	flags.VarP(&opts.format, "format", "f", "输出格式(text/json)")
	flags.BoolVarP(&opts.extended, "extended", "x", false, "文本输出附带规模、顺序统计量和直方图")
	flags.IntVar(&opts.bins, "bins", 10, "直方图箱子个数，0 表示不输出")
	flags.StringVarP(&opts.metricsFile, "metrics-file", "m", "", "把 Prometheus 指标写入该文件(textfile collector)")

	// 等待Cobra的flag解析完成后再读配置、初始化日志
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return opts.loadConfig(cmd)
	}

	rootCmd.AddCommand(newTraceCmd(opts))
	return rootCmd, opts
}

func runStats(cmd *cobra.Command, opts *cliOptions, args []string) error {
	cfg := opts.cfg
	if len(args) == 2 {
		n, err := parsePositive("n", args[0])
		if err != nil {
			return err
		}
		trials, err := parsePositive("trials", args[1])
		if err != nil {
			return err
		}
		cfg.N, cfg.Trials = n, trials
	}
	if err := cfg.Validate(); err != nil {
		return errorutil.NewExitError(errorutil.CodeInvalidUsage, err)
	}
	var format report.Format
	if err := format.Set(cfg.Format); err != nil {
		return errorutil.NewExitError(errorutil.CodeInvalidUsage, err)
	}

	runID := uuid.NewString()
	logutil.Info("run %s: n=%d trials=%d", runID, cfg.N, cfg.Trials)

	var runOpts []percstats.Option
	if cfg.Seed != nil {
		runOpts = append(runOpts, percstats.WithSeed(*cfg.Seed))
	}
	var reg *prometheus.Registry
	if cfg.MetricsFile != "" {
		reg = prometheus.NewRegistry()
		m, err := metrics.NewTrialMetrics(reg)
		if err != nil {
			return errorutil.NewExitError(errorutil.CodeInternalErr, err)
		}
		runOpts = append(runOpts, percstats.WithObserver(m))
	}

	stats, err := percstats.Run(cmd.Context(), cfg.N, cfg.Trials, runOpts...)
	if err != nil {
		return runErrorCode(err)
	}

	bins := 0
	if cfg.Extended || format == report.FormatJSON {
		bins = cfg.Bins
	}
	summary, err := report.NewSummary(stats, runID, bins)
	if err != nil {
		return errorutil.NewExitError(errorutil.CodeInternalErr, err)
	}
	if err := report.Write(cmd.OutOrStdout(), summary, format, cfg.Extended); err != nil {
		return errorutil.NewExitErrorWithMessage(errorutil.CodeIOError, "输出结果失败", err)
	}

	if reg != nil {
		if err := metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			return errorutil.NewExitErrorWithMessage(errorutil.CodeIOError, "写入指标文件失败", err)
		}
		logutil.Info("run %s: 指标已写入 %s", runID, cfg.MetricsFile)
	}
	return nil
}
