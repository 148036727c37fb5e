package timer

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{59, "00:59"},
		{60, "01:00"},
		{65, "01:05"},
		{3599, "59:59"},
		{3600, "60:00"},
		{5999, "99:59"},
		{6000, "100:00"},
		{-3, "00:00"},
	}

	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTimeShape(t *testing.T) {
	shape := regexp.MustCompile(`^\d{2,}:\d{2}$`)
	inputs := []int{1 << 20, 1<<31 - 1}
	for s := 0; s < 7200; s += 7 {
		inputs = append(inputs, s)
	}

	for _, s := range inputs {
		out := FormatTime(s)
		if !shape.MatchString(out) {
			t.Fatalf("FormatTime(%d) = %q, bad shape", s, out)
		}
		parts := strings.Split(out, ":")
		secs, err := strconv.Atoi(parts[1])
		if err != nil || secs < 0 || secs > 59 {
			t.Fatalf("FormatTime(%d) = %q, seconds out of range", s, out)
		}
		mins, _ := strconv.Atoi(parts[0])
		if mins*60+secs != s {
			t.Fatalf("FormatTime(%d) = %q does not round-trip", s, out)
		}
	}
}
