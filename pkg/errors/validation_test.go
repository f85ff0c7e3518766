package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateChartID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f2c1a7e-9b1d-4c52-8e7f-0a1b2c3d4e5f", false},
		{"simple", "quarterly_revenue", false},
		{"digits", "2024", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"path traversal", "../etc/passwd", true},
		{"slash", "a/b", true},
		{"dot", "chart.json", true},
		{"space", "my chart", true},
		{"null byte", "foo\x00bar", true},
		{"non ascii", "diagramm-ü", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChartID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChartID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidChartID) {
				t.Errorf("ValidateChartID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateViewport(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantErr       bool
	}{
		{"typical", 330, 220, false},
		{"fractional", 0.5, 0.5, false},
		{"zero width", 0, 220, true},
		{"negative height", 330, -1, true},
		{"nan", math.NaN(), 220, true},
		{"inf", 330, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateViewport(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateViewport(%v, %v) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidViewport) {
				t.Errorf("ValidateViewport returned wrong error code: %v", err)
			}
		})
	}
}
