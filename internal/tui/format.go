package tui

import (
	"math"

	"github.com/dustin/go-humanize"
)

// formatNumber renders v with thousands separators and at most three
// fractional digits.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	if math.Abs(v) < 1e15 {
		v = math.Round(v*1000) / 1000
	}
	return humanize.Commaf(v)
}
