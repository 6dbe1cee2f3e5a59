package embedding

import (
	"math"
	"testing"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"escaped newlines collapsed", `first line\nsecond line`, "first line second line"},
		{"trimmed", "  question  ", "question"},
		{"both", `  a\nb  `, "a b"},
		{"plain", "unchanged", "unchanged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeQuery(tt.in); got != tt.want {
				t.Errorf("normalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeVector(t *testing.T) {
	vec := normalizeVector([]float32{3, 4})

	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if math.Abs(magnitude-1) > 1e-6 {
		t.Errorf("magnitude = %f, want 1", magnitude)
	}
}

func TestNormalizeVectorZero(t *testing.T) {
	vec := normalizeVector([]float32{0, 0, 0})
	for i, v := range vec {
		if v != 0 {
			t.Errorf("vec[%d] = %f, want 0", i, v)
		}
	}
}
