// Package numfmt renders large counts in the short form used on dashboards.
package numfmt

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

var scales = []struct {
	value  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// Compact abbreviates n with a T/B/M/K suffix, keeping at most one decimal
// digit and never a trailing ".0". Values below 1000 are returned as is.
func Compact(n int64) string {
	for _, s := range scales {
		if float64(n) >= s.value {
			scaled := math.Round(float64(n)/s.value*10) / 10
			return humanize.Ftoa(scaled) + s.suffix
		}
	}
	return strconv.FormatInt(n, 10)
}
