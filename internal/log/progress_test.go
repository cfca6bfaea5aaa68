// SPDX-License-Identifier: GPL-3.0-or-later

package log

import (
	"testing"
	"time"
)

func TestSizeString(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0.0B"},
		{512, "512.0B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{2 * 1024 * 1024, "2.0MB"},
	}
	for _, tt := range tests {
		if got := SizeString(tt.n); got != tt.want {
			t.Errorf("SizeString(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDurationString(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500.0ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30.0s"},
	}
	for _, tt := range tests {
		if got := DurationString(tt.d); got != tt.want {
			t.Errorf("DurationString(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRateString(t *testing.T) {
	if got := RateString(2048, 2*time.Second); got != "1.0KB/s" {
		t.Errorf("RateString = %q, want 1.0KB/s", got)
	}
	if got := RateString(100, 0); got != "-" {
		t.Errorf("RateString with zero duration = %q, want -", got)
	}
}
