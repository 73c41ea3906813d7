package orderstat

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatistics(t *testing.T) {
	s := FromSlice([]float64{0.6, 0.55, 0.7, 0.55, 0.62})

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 0.55, s.Min())
	assert.Equal(t, 0.7, s.Max())
	assert.Equal(t, 0.6, s.Median())

	want := []float64{0.55, 0.55, 0.6, 0.62, 0.7}
	if diff := cmp.Diff(want, s.Values()); diff != "" {
		t.Errorf("Mismatch (-want +got):\n%s", diff)
	}
}

func TestQuantile(t *testing.T) {
	s := FromSlice([]float64{4, 1, 3, 2})

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{-1, 1},
		{0.25, 1},
		{0.26, 2},
		{0.5, 2},
		{0.75, 3},
		{1, 4},
		{2, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Quantile(tt.q), "q=%v", tt.q)
	}
	assert.True(t, math.IsNaN(s.Quantile(math.NaN())))
	assert.Equal(t, 2.5, s.Median())
}

func TestEmptyAndNaN(t *testing.T) {
	s := New()
	s.Insert(math.NaN())

	assert.Equal(t, 0, s.Len())
	assert.True(t, math.IsNaN(s.Min()))
	assert.True(t, math.IsNaN(s.Max()))
	assert.True(t, math.IsNaN(s.Median()))
	assert.True(t, math.IsNaN(s.Quantile(0.5)))
	assert.Empty(t, s.Values())
}
