package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"percolation/pkg/percstats"
)

func newStats(t *testing.T, n int, samples ...float64) *percstats.Stats {
	t.Helper()
	s, err := percstats.NewStats(n, samples)
	require.NoError(t, err)
	return s
}

func TestTextBasic(t *testing.T) {
	sum, err := NewSummary(newStats(t, 1, 1, 1, 1), "", 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sum, false))
	want := "" +
		"mean                    = 1\n" +
		"stddev                  = 0\n" +
		"95% confidence interval = [1, 1]\n"
	assert.Equal(t, want, buf.String())
}

func TestTextExtended(t *testing.T) {
	sum, err := NewSummary(newStats(t, 200, 0.5, 0.6, 0.7), "run-1", 10)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sum, true))
	out := buf.String()

	assert.Contains(t, out, "grid                    = 200 x 200 (40,000 sites)\n")
	assert.Contains(t, out, "trials                  = 3\n")
	assert.Contains(t, out, "min / median / max      = 0.5 / 0.6 / 0.7\n")
	assert.Contains(t, out, "run id                  = run-1\n")
	assert.Contains(t, out, "[0.500, 0.600)          = 1\n")
	assert.Equal(t, 3+4+3, strings.Count(out, "\n"))
}

func TestTextNaN(t *testing.T) {
	sum, err := NewSummary(newStats(t, 4, 0.75), "", 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sum, false))
	assert.Contains(t, buf.String(), "stddev                  = NaN\n")
	assert.Contains(t, buf.String(), "95% confidence interval = [NaN, NaN]\n")
}

func TestJSONRoundTrip(t *testing.T) {
	sum, err := NewSummary(newStats(t, 8, 0.55, 0.6, 0.62, 0.7), "abc", 5)
	require.NoError(t, err)
	sum.Seed = 42

	data, err := JSON(sum)
	require.NoError(t, err)
	assert.True(t, gjson.ValidBytes(data))
	assert.Equal(t, int64(8), gjson.GetBytes(data, "n").Int())
	assert.Equal(t, "abc", gjson.GetBytes(data, "run_id").String())
	assert.Equal(t, 2, len(gjson.GetBytes(data, "histogram").Array()))

	back, err := ParseJSON(data)
	require.NoError(t, err)
	if diff := cmp.Diff(sum, back, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONNaNAsNull(t *testing.T) {
	sum, err := NewSummary(newStats(t, 2, 0.75), "", 0)
	require.NoError(t, err)

	data, err := JSON(sum)
	require.NoError(t, err)
	assert.Equal(t, gjson.Null, gjson.GetBytes(data, "stddev").Type)
	assert.False(t, gjson.GetBytes(data, "run_id").Exists())

	back, err := ParseJSON(data)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(back.StdDev))
	assert.Equal(t, 0.75, back.Mean)
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON([]byte(`{"mean":`))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestFormatFlag(t *testing.T) {
	var f Format
	require.NoError(t, f.Set("json"))
	assert.Equal(t, FormatJSON, f)
	assert.Equal(t, "json", f.String())
	assert.Equal(t, "format", f.Type())
	assert.Error(t, f.Set("yaml"))
	assert.Equal(t, []string{"text", "json"}, f.Values())
}

func TestWrite(t *testing.T) {
	sum, err := NewSummary(newStats(t, 3, 0.5, 0.6), "", 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sum, FormatJSON, false))
	assert.True(t, gjson.Valid(buf.String()))

	buf.Reset()
	require.NoError(t, Write(&buf, sum, "", false))
	assert.True(t, strings.HasPrefix(buf.String(), "mean"))

	assert.Error(t, Write(&buf, sum, Format("xml"), false))
}
