package annotations

import (
	"errors"
	"testing"
	"time"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"14.167", 14.167, false},
		{"100.000", 100, false},
		{"0", 0, false},
		{"-3.5", -3.5, false},
		{"3.6107", 3.6107, false},
		{"1e2", 100, false},
		{"", 0, true},
		{"+1", 0, true},
		{"abc", 0, true},
		{"1.5x", 0, true},
		{" 1.5", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"1e400", 0, true},
		{"0x1p3", 0, true},
		{"0X1P3", 0, true},
		{"0x_1p0", 0, true},
		{"1_000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFloat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrNotANumber) {
					t.Errorf("ParseFloat(%q) error = %v, want ErrNotANumber", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFloat(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFloat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRGB(t *testing.T) {
	tests := []struct {
		input   string
		want    uint32
		wantErr bool
	}{
		{"16777215", 0xFFFFFF, false},
		{"1710618", 1710618, false},
		{"0", 0, false},
		{"16777216", 16777216, false}, // range is checked by the decoder
		{"4294967296", 0, true},
		{"-1", 0, true},
		{"0xFF", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRGB(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrNotANumber) {
					t.Errorf("ParseRGB(%q) error = %v, want ErrNotANumber", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRGB(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRGB(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"0:00:04.0", 4 * time.Second, false},
		{"0:00:33.79", 33*time.Second + 790*time.Millisecond, false},
		{"0:01:59.04", time.Minute + 59*time.Second + 40*time.Millisecond, false},
		{"1:02:03.45", time.Hour + 2*time.Minute + 3*time.Second + 450*time.Millisecond, false},
		{"10:0:0.0", 10 * time.Hour, false},
		{"0:00:01.999", time.Second + 990*time.Millisecond, false},
		{"0:00:01.5", time.Second + 50*time.Millisecond, false},
		{"0:00:01.00000000000000000001", time.Second, false},
		{"1:2:3", 0, true},
		{"1:2:3.", 0, true},
		{"1:2.5", 0, true},
		{"1:2:3:4.5", 0, true},
		{"a:00:00.00", 0, true},
		{"-1:00:00.00", 0, true},
		{"0:00:00.-1", 0, true},
		{"0:00: 1.00", 0, true},
		{"", 0, true},
		{"0:4294967295:0.00", 71582788*time.Hour + 15*time.Minute, false},
		{"4294967295:4294967295:4294967295.99", 0, true},
		{"4294967295:00:00.00", 0, true},
		{"0:00:4294967296.00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrBadTimestamp) {
					t.Errorf("ParseTimestamp(%q) error = %v, want ErrBadTimestamp", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
