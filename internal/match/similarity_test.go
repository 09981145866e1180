package match

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tc := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{
			name: "identical strings",
			a:    "Yesterday",
			b:    "Yesterday",
			want: 1.0,
		},
		{
			name: "case insensitive",
			a:    "The Beatles",
			b:    "the beatles",
			want: 1.0,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: 1.0,
		},
		{
			name: "one empty",
			a:    "abc",
			b:    "",
			want: 0.0,
		},
		{
			name: "no overlap",
			a:    "abc",
			b:    "xyz",
			want: 0.0,
		},
		{
			name: "partial overlap",
			a:    "abcd",
			b:    "bcde",
			want: 0.75, // block "bcd", 2*3/8
		},
		{
			name: "suffix variant",
			a:    "Yesterday (Live)",
			b:    "Yesterday",
			want: 0.72, // block "yesterday", 2*9/25
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioSelfIdentity(t *testing.T) {
	inputs := []string{"a", "Hey Jude", "Ob-La-Di, Ob-La-Da", "日本語のタイトル", "  spaced  out  "}
	for _, s := range inputs {
		if got := Ratio(s, s); got != 1.0 {
			t.Errorf("Ratio(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Yesterday", "Yesterday (Live)"},
		{"The Beatles", "Beatles"},
		{"abcd", "bcde"},
	}
	for _, p := range pairs {
		ab := Ratio(p[0], p[1])
		ba := Ratio(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %v but Ratio(%q, %q) = %v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestRatioDeterministic(t *testing.T) {
	first := Ratio("Here Comes the Sun", "Here Comes the Sun (Remastered)")
	for i := 0; i < 10; i++ {
		if got := Ratio("Here Comes the Sun", "Here Comes the Sun (Remastered)"); got != first {
			t.Fatalf("Ratio not deterministic: %v != %v", got, first)
		}
	}
}
