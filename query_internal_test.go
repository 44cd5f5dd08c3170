package karta

import (
	"math"
	"testing"
)

func TestSaturateInt(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{2.9, 2},
		{-2.9, -2},
		{0, 0},
		{1e30, math.MaxInt64},
		{-1e30, math.MinInt64},
		{math.Inf(1), math.MaxInt64},
		{math.Inf(-1), math.MinInt64},
		{math.NaN(), 0},
		{-9223372036854775808.0, math.MinInt64},
	}
	for _, tt := range tests {
		if got := saturateInt(tt.in); got != tt.want {
			t.Errorf("saturateInt(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
