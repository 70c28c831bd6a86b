package core

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{2*time.Minute + 30*time.Second, "2m 30s"},
		{2*time.Hour + 34*time.Minute, "2h 34m"},
		{3*24*time.Hour + 5*time.Hour, "3d 5h"},
		{-90 * time.Second, "-1m 30s"},
		{500 * time.Millisecond, "0s"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
