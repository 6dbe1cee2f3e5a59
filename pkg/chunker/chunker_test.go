package chunker

import (
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two sentences",
			text: "Grades range from 0 to 100. Late work is penalized.",
			want: []string{"Grades range from 0 to 100.", "Late work is penalized."},
		},
		{
			name: "no trailing period",
			text: "First point. Second point",
			want: []string{"First point.", "Second point."},
		},
		{
			name: "no period at all",
			text: "just a fragment",
			want: []string{"just a fragment."},
		},
		{
			name: "whitespace between periods",
			text: "One. . .  Two.",
			want: []string{"One.", "Two."},
		},
		{
			name: "surrounding whitespace",
			text: "  Padded sentence.  ",
			want: []string{"Padded sentence."},
		},
		{
			name: "empty input",
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text)

			if len(got) != len(tt.want) {
				t.Fatalf("chunk count = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitChunksEndWithPeriod(t *testing.T) {
	for _, chunk := range Split("Alpha. Beta. Gamma without end") {
		if !strings.HasSuffix(chunk, ".") {
			t.Errorf("chunk %q does not end with a period", chunk)
		}
		if strings.TrimSpace(strings.TrimSuffix(chunk, ".")) == "" {
			t.Errorf("chunk %q is empty", chunk)
		}
	}
}
