package enrollment

import (
	"testing"
	"time"
)

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"no lessons", 0, 0, 0},
		{"negative total", 3, -1, 0},
		{"nothing completed", 0, 10, 0},
		{"half", 5, 10, 50},
		{"floors fractions", 1, 3, 33},
		{"two thirds", 2, 3, 66},
		{"all completed", 3, 3, 100},
		{"over-count clamps", 5, 3, 100},
	}

	for _, tc := range cases {
		got := ComputeProgress(tc.completed, tc.total)
		if got != tc.want {
			t.Errorf("%s: ComputeProgress(%d, %d) = %d, want %d",
				tc.name, tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestApplyProgressMonotonic(t *testing.T) {
	now := time.Now().UTC()

	e := CourseEnrollment{Progress: 50}
	if e.applyProgress(30, now) {
		t.Errorf("lower progress should not report completion")
	}
	if e.Progress != 50 {
		t.Errorf("progress regressed to %d, want 50", e.Progress)
	}

	e.applyProgress(75, now)
	if e.Progress != 75 {
		t.Errorf("progress = %d, want 75", e.Progress)
	}
	if e.CompletedAt != nil {
		t.Errorf("CompletedAt set below 100")
	}
}

func TestApplyProgressCompletion(t *testing.T) {
	now := time.Now().UTC()

	e := CourseEnrollment{Progress: 66}
	if !e.applyProgress(100, now) {
		t.Fatalf("reaching 100 should report completion")
	}
	if e.CompletedAt == nil || !e.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", e.CompletedAt, now)
	}

	// A second pass at 100 must not report completion again.
	later := now.Add(time.Hour)
	if e.applyProgress(100, later) {
		t.Errorf("completion reported twice")
	}
	if !e.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt moved to %v on repeat", e.CompletedAt)
	}
	if !e.LastAccessed.Equal(later) {
		t.Errorf("LastAccessed = %v, want %v", e.LastAccessed, later)
	}
}
