package main

import (
	"strings"
	"testing"
	"time"
)

func TestValidateInputs_Defaults(t *testing.T) {
	in, err := validateInputs("2026-03-01", 10, -1, "HESS", "")
	if err != nil {
		t.Fatalf("validateInputs: %v", err)
	}
	if in.site.Name != "HESS" {
		t.Errorf("site = %q", in.site.Name)
	}
	if in.hour != in.site.MidnightHour() {
		t.Errorf("default center hour = %d, want site midnight %d", in.hour, in.site.MidnightHour())
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !in.date.Equal(want) {
		t.Errorf("date = %v, want %v", in.date, want)
	}
}

func TestValidateInputs_ExplicitCenterHour(t *testing.T) {
	in, err := validateInputs("2026-03-01", 10, 5, "MAGIC", "")
	if err != nil {
		t.Fatalf("validateInputs: %v", err)
	}
	if in.hour != 5 {
		t.Errorf("center hour = %d, want 5", in.hour)
	}
}

// Bad flags are rejected inside validateInputs, which has no access to the
// resolver or the ephemeris code, so rejection always happens before any
// computation or network request.
func TestValidateInputs_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		rangeH    int
		center    int
		site      string
		wantInErr string
	}{
		{"unknown site", "2026-03-01", 10, -1, "ATACAMA", "unknown site"},
		{"bad date", "03/01/2026", 10, -1, "HESS", "YYYY-MM-DD"},
		{"zero range", "2026-03-01", 0, -1, "HESS", "range"},
		{"negative range", "2026-03-01", -4, -1, "HESS", "range"},
		{"center too high", "2026-03-01", 10, 24, "HESS", "center"},
		{"center too low", "2026-03-01", 10, -2, "HESS", "center"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateInputs(tt.date, tt.rangeH, tt.center, tt.site, "")
			if err == nil {
				t.Fatal("want error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantInErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantInErr)
			}
		})
	}
}
