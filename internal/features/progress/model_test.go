package progress

import "testing"

func TestLessonCompleted(t *testing.T) {
	cases := []struct {
		name      string
		watchTime int // seconds
		duration  int // minutes
		threshold float64
		want      bool
	}{
		{"zero duration never completes", 100000, 0, 0.9, false},
		{"negative duration never completes", 100000, -5, 0.9, false},
		{"below threshold", 539, 10, 0.9, false},
		{"exactly at threshold", 540, 10, 0.9, true},
		{"above threshold", 600, 10, 0.9, true},
		{"full watch with full threshold", 600, 10, 1.0, true},
		{"one second short at full threshold", 599, 10, 1.0, false},
		{"low threshold", 60, 10, 0.1, true},
	}

	for _, tc := range cases {
		got := LessonCompleted(tc.watchTime, tc.duration, tc.threshold)
		if got != tc.want {
			t.Errorf("%s: LessonCompleted(%d, %d, %v) = %v, want %v",
				tc.name, tc.watchTime, tc.duration, tc.threshold, got, tc.want)
		}
	}
}
