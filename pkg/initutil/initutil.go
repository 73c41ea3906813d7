package initutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mohae/deepcopy"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"percolation/pkg/logutil"
)

// Config 运行参数，可以来自配置文件，命令行参数覆盖文件中的值
type Config struct {
	N           int    `yaml:"n"`
	Trials      int    `yaml:"trials"`
	Seed        *int64 `yaml:"seed"` // 为空时每次运行使用不同的种子
	Format      string `yaml:"format"`
	Extended    bool   `yaml:"extended"`
	Bins        int    `yaml:"bins"`
	MetricsFile string `yaml:"metrics_file"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
}

// ErrInvalidConfig 配置内容不合法
var ErrInvalidConfig = errors.New("initutil: invalid config")

var defaultConfig = Config{
	Format:   "text",
	Bins:     10,
	LogLevel: "WARN",
	LogFile:  "stderr",
}

var (
	mu           sync.Mutex
	globalConfig = Default()
)

// Default 返回默认配置的副本，修改返回值不会影响默认值
func Default() Config {
	return deepcopy.Copy(defaultConfig).(Config)
}

// Load 读取配置文件，按扩展名区分 YAML 和 JSON，文件中没有的字段保留默认值
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".json":
		return parseJSON(data)
	default:
		return Config{}, fmt.Errorf("%w: 不支持的配置文件类型 %q", ErrInvalidConfig, ext)
	}
}

func parseYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

func parseJSON(data []byte) (Config, error) {
	if !gjson.ValidBytes(data) {
		return Config{}, fmt.Errorf("%w: JSON 格式错误", ErrInvalidConfig)
	}
	cfg := Default()
	root := gjson.ParseBytes(data)
	if v := root.Get("n"); v.Exists() {
		cfg.N = int(v.Int())
	}
	if v := root.Get("trials"); v.Exists() {
		cfg.Trials = int(v.Int())
	}
	if v := root.Get("seed"); v.Exists() && v.Type != gjson.Null {
		seed := v.Int()
		cfg.Seed = &seed
	}
	if v := root.Get("format"); v.Exists() {
		cfg.Format = v.String()
	}
	if v := root.Get("extended"); v.Exists() {
		cfg.Extended = v.Bool()
	}
	if v := root.Get("bins"); v.Exists() {
		cfg.Bins = int(v.Int())
	}
	if v := root.Get("metrics_file"); v.Exists() {
		cfg.MetricsFile = v.String()
	}
	if v := root.Get("log_level"); v.Exists() {
		cfg.LogLevel = v.String()
	}
	if v := root.Get("log_file"); v.Exists() {
		cfg.LogFile = v.String()
	}
	return cfg, nil
}

// Validate 检查运行前必须满足的条件
func (c Config) Validate() error {
	if c.N <= 0 {
		return fmt.Errorf("%w: n 必须为正数: %d", ErrInvalidConfig, c.N)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: trials 必须为正数: %d", ErrInvalidConfig, c.Trials)
	}
	if c.Bins < 0 {
		return fmt.Errorf("%w: bins 不能为负数: %d", ErrInvalidConfig, c.Bins)
	}
	if _, err := logutil.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// InitSystem 初始化日志并保存全局配置
// 日志只在第一次调用时初始化，配置每次都会更新
func InitSystem(cfg Config) error {
	level, err := logutil.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := logutil.InitLogger(cfg.LogFile, level); err != nil {
		return err
	}
	logutil.SetLogLevel(level)

	mu.Lock()
	globalConfig = deepcopy.Copy(cfg).(Config)
	mu.Unlock()

	logutil.Debug("globalConfig: %+v", cfg)
	return nil
}

// GetConfig 获取全局配置的副本
func GetConfig() Config {
	mu.Lock()
	defer mu.Unlock()
	return deepcopy.Copy(globalConfig).(Config)
}
