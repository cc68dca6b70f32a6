package numfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompact(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1K"},
		{1500, "1.5K"},
		{1549, "1.5K"},
		{12_345, "12.3K"},
		{2_000_000, "2M"},
		{2_500_000, "2.5M"},
		{3_040_000_000, "3B"},
		{1_000_000_000_000, "1T"},
		{4_250_000_000_000, "4.3T"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Compact(tt.in), "Compact(%d)", tt.in)
	}
}

func TestCompactShape(t *testing.T) {
	for n := int64(0); n < 5_000_000; n += 997 {
		got := Compact(n)
		assert.False(t, strings.HasSuffix(strings.TrimRight(got, "KMBT"), ".0"), "Compact(%d) = %q", n, got)
		if i := strings.IndexByte(got, '.'); i >= 0 {
			digits := strings.TrimRight(got[i+1:], "KMBT")
			assert.Len(t, digits, 1, "Compact(%d) = %q", n, got)
		}
	}
}
