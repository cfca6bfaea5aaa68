// SPDX-License-Identifier: GPL-3.0-or-later

package log

import (
	"fmt"
	"time"
)

// SizeString renders a byte count in a compact human-readable form.
func SizeString(n int) string {
	num := float64(n)
	for _, unit := range []string{"B", "KB"} {
		if num < 1024 && num > -1024 {
			return fmt.Sprintf("%.1f%s", num, unit)
		}
		num /= 1024
	}
	return fmt.Sprintf("%.1fMB", num)
}

// DurationString renders an elapsed time in a compact human-readable form.
func DurationString(d time.Duration) string {
	s := d.Seconds()
	if s < 1 {
		return fmt.Sprintf("%.1fms", s*1000)
	}
	if s < 60 {
		return fmt.Sprintf("%.1fs", s)
	}
	return fmt.Sprintf("%dm%.1fs", int(s)/60, s-float64(int(s)/60*60))
}

// RateString renders a bytes-per-second throughput figure.
func RateString(n int, d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return SizeString(int(float64(n)/d.Seconds())) + "/s"
}

// ItemsRateString renders an items-per-second throughput figure.
func ItemsRateString(n int, d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f/s", float64(n)/d.Seconds())
}
