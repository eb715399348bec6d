package utils

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

func StrEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// FCurrency formats an amount for receipts and exports.
func FCurrency(n float64) string {
	if n == 0 {
		return "0"
	}

	rounded := math.Round(n*100) / 100
	return humanize.CommafWithDigits(rounded, 2)
}
