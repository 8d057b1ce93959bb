package course

import (
	"math"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Intro to Go", "intro-to-go"},
		{"  Padded Title  ", "padded-title"},
		{"C++ & Systems Programming!", "c-systems-programming"},
		{"already-slugged", "already-slugged"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"101 Basics", "101-basics"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAverageRating(t *testing.T) {
	if got := AverageRating(0, 0); got != 0 {
		t.Errorf("no ratings should average 0, got %v", got)
	}
	if got := AverageRating(9, 2); math.Abs(got-4.5) > 1e-9 {
		t.Errorf("AverageRating(9, 2) = %v, want 4.5", got)
	}
	if got := AverageRating(5, 1); got != 5 {
		t.Errorf("AverageRating(5, 1) = %v, want 5", got)
	}
}
