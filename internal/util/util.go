// Package util has the small numeric and formatting helpers shared by the
// scene, audio and game packages.
package util

import (
	"fmt"
	"time"
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }

// Clock renders d as M:SS, or H:MM:SS once it reaches an hour. Negative
// durations read as zero and fractions of a second are dropped.
func Clock(d time.Duration) string {
	total := int64(max(d, 0) / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
