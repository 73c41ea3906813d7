// Package report 把试验统计结果输出为文本或 JSON
package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"percolation/pkg/histogram"
	"percolation/pkg/orderstat"
	"percolation/pkg/percstats"
)

// Format 输出格式
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// 为了让 VarP 接收自定义类型，实现 flag.Value 接口(String Set Type)即可
func (f *Format) String() string { return string(*f) }

func (f *Format) Set(val string) error {
	switch val {
	case string(FormatText), string(FormatJSON):
		*f = Format(val)
		return nil
	default:
		return fmt.Errorf("无效的输出格式: %s (可选 %s)", val, strings.Join(Format("").Values(), "/"))
	}
}

func (f *Format) Type() string {
	return "format"
}

// 列出所有的合法值
func (Format) Values() []string {
	return []string{string(FormatText), string(FormatJSON)}
}

// Summary 一次运行的汇总结果
type Summary struct {
	RunID        string
	N            int
	Trials       int
	Seed         int64
	Mean         float64
	StdDev       float64
	ConfidenceLo float64
	ConfidenceHi float64
	Min          float64
	Median       float64
	Max          float64
	Histogram    []histogram.Bucket
}

// NewSummary 从统计结果生成汇总，bins 为 0 时不做直方图
func NewSummary(s *percstats.Stats, runID string, bins int) (Summary, error) {
	samples := s.Samples()
	order := orderstat.FromSlice(samples)
	sum := Summary{
		RunID:        runID,
		N:            s.N(),
		Trials:       s.Trials(),
		Seed:         s.Seed(),
		Mean:         s.Mean(),
		StdDev:       s.StdDev(),
		ConfidenceLo: s.ConfidenceLo(),
		ConfidenceHi: s.ConfidenceHi(),
		Min:          order.Min(),
		Median:       order.Median(),
		Max:          order.Max(),
	}
	if bins > 0 {
		h, err := histogram.New(bins)
		if err != nil {
			return Summary{}, err
		}
		for _, v := range samples {
			h.Add(v)
		}
		sum.Histogram = h.Buckets()
	}
	return sum, nil
}

// 标签按显示宽度补齐，"95% confidence interval" 后面留一个空格
const labelWidth = 24

func line(w io.Writer, label, value string) error {
	_, err := fmt.Fprintf(w, "%s= %s\n", runewidth.FillRight(label, labelWidth), value)
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Text 输出文本格式
// 前三行固定为 mean、stddev 和置信区间，extended 时追加规模、顺序统计量和直方图
func Text(w io.Writer, s Summary, extended bool) error {
	lines := [][2]string{
		{"mean", formatFloat(s.Mean)},
		{"stddev", formatFloat(s.StdDev)},
		{"95% confidence interval", fmt.Sprintf("[%s, %s]", formatFloat(s.ConfidenceLo), formatFloat(s.ConfidenceHi))},
	}
	if extended {
		lines = append(lines,
			[2]string{"grid", fmt.Sprintf("%d x %d (%s sites)", s.N, s.N, humanize.Comma(int64(s.N)*int64(s.N)))},
			[2]string{"trials", humanize.Comma(int64(s.Trials))},
			[2]string{"min / median / max", fmt.Sprintf("%s / %s / %s", formatFloat(s.Min), formatFloat(s.Median), formatFloat(s.Max))},
		)
		if s.RunID != "" {
			lines = append(lines, [2]string{"run id", s.RunID})
		}
		for _, b := range s.Histogram {
			label := fmt.Sprintf("[%.3f, %.3f)", b.Lo, b.Hi)
			lines = append(lines, [2]string{label, humanize.Comma(int64(b.Count))})
		}
	}
	for _, l := range lines {
		if err := line(w, l[0], l[1]); err != nil {
			return err
		}
	}
	return nil
}

// NaN 在 JSON 里写成 null
func setFloat(doc []byte, path string, v float64) ([]byte, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sjson.SetRawBytes(doc, path, []byte("null"))
	}
	return sjson.SetBytes(doc, path, v)
}

// JSON 输出带缩进的 JSON
func JSON(s Summary) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err != nil {
			return
		}
		if f, ok := v.(float64); ok {
			doc, err = setFloat(doc, path, f)
			return
		}
		doc, err = sjson.SetBytes(doc, path, v)
	}

	if s.RunID != "" {
		set("run_id", s.RunID)
	}
	set("n", s.N)
	set("trials", s.Trials)
	set("seed", s.Seed)
	set("mean", s.Mean)
	set("stddev", s.StdDev)
	set("confidence_interval.lo", s.ConfidenceLo)
	set("confidence_interval.hi", s.ConfidenceHi)
	set("order.min", s.Min)
	set("order.median", s.Median)
	set("order.max", s.Max)
	for i, b := range s.Histogram {
		prefix := "histogram." + strconv.Itoa(i)
		set(prefix+".lo", b.Lo)
		set(prefix+".hi", b.Hi)
		set(prefix+".count", b.Count)
	}
	if err != nil {
		return nil, fmt.Errorf("生成 JSON 失败: %w", err)
	}
	return pretty.Pretty(doc), nil
}

// ErrInvalidJSON 读回的报告不是合法的 JSON
var ErrInvalidJSON = errors.New("report: invalid json")

func getFloat(r gjson.Result) float64 {
	if !r.Exists() || r.Type == gjson.Null {
		return math.NaN()
	}
	return r.Float()
}

// ParseJSON 读回 JSON 输出的报告
func ParseJSON(data []byte) (Summary, error) {
	if !gjson.ValidBytes(data) {
		return Summary{}, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	s := Summary{
		RunID:        root.Get("run_id").String(),
		N:            int(root.Get("n").Int()),
		Trials:       int(root.Get("trials").Int()),
		Seed:         root.Get("seed").Int(),
		Mean:         getFloat(root.Get("mean")),
		StdDev:       getFloat(root.Get("stddev")),
		ConfidenceLo: getFloat(root.Get("confidence_interval.lo")),
		ConfidenceHi: getFloat(root.Get("confidence_interval.hi")),
		Min:          getFloat(root.Get("order.min")),
		Median:       getFloat(root.Get("order.median")),
		Max:          getFloat(root.Get("order.max")),
	}
	root.Get("histogram").ForEach(func(_, b gjson.Result) bool {
		s.Histogram = append(s.Histogram, histogram.Bucket{
			Lo:    b.Get("lo").Float(),
			Hi:    b.Get("hi").Float(),
			Count: int(b.Get("count").Int()),
		})
		return true
	})
	return s, nil
}

// Write 按 format 输出
func Write(w io.Writer, s Summary, format Format, extended bool) error {
	switch format {
	case FormatJSON:
		data, err := JSON(s)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatText, "":
		return Text(w, s, extended)
	default:
		return fmt.Errorf("无效的输出格式: %s", format)
	}
}
