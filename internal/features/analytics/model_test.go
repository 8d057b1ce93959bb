package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestApply(t *testing.T) {
	var bucket VideoAnalytics

	bucket.Apply(100, false, true)
	bucket.Apply(200, true, true)
	bucket.Apply(60, false, false)

	if bucket.TotalViews != 3 {
		t.Errorf("TotalViews = %d, want 3", bucket.TotalViews)
	}
	if bucket.UniqueViews != 2 {
		t.Errorf("UniqueViews = %d, want 2", bucket.UniqueViews)
	}
	if bucket.TotalWatchTime != 360 {
		t.Errorf("TotalWatchTime = %d, want 360", bucket.TotalWatchTime)
	}
	if bucket.CompletedViews != 1 {
		t.Errorf("CompletedViews = %d, want 1", bucket.CompletedViews)
	}
	if math.Abs(bucket.AverageWatchTime-120) > 1e-9 {
		t.Errorf("AverageWatchTime = %v, want 120", bucket.AverageWatchTime)
	}
	wantRate := 100.0 / 3.0
	if math.Abs(bucket.CompletionRate-wantRate) > 1e-9 {
		t.Errorf("CompletionRate = %v, want %v", bucket.CompletionRate, wantRate)
	}
}

func TestApplyIgnoresNegativeWatchTime(t *testing.T) {
	var bucket VideoAnalytics
	bucket.Apply(-50, false, false)

	if bucket.TotalViews != 1 {
		t.Errorf("TotalViews = %d, want 1", bucket.TotalViews)
	}
	if bucket.TotalWatchTime != 0 {
		t.Errorf("TotalWatchTime = %d, want 0", bucket.TotalWatchTime)
	}
}

func TestViewCompleted(t *testing.T) {
	cases := []struct {
		watchTime int
		duration  int
		threshold float64
		want      bool
	}{
		{0, 0, 0.9, false},
		{90, 100, 0.9, true},
		{89, 100, 0.9, false},
		{1000, 0, 0.9, false},
		{50, 100, 0.5, true},
	}

	for _, tc := range cases {
		got := ViewCompleted(tc.watchTime, tc.duration, tc.threshold)
		if got != tc.want {
			t.Errorf("ViewCompleted(%d, %d, %v) = %v, want %v",
				tc.watchTime, tc.duration, tc.threshold, got, tc.want)
		}
	}
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	stamp := time.Date(2026, 3, 15, 2, 30, 0, 0, loc) // 2026-03-14 21:30 UTC

	day := Day(stamp)
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Errorf("Day(%v) = %v, want %v", stamp, day, want)
	}
}

func TestViewerSetKey(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	got := ViewerSetKey(id, date)
	want := "analytics:viewers:11111111-2222-3333-4444-555555555555:2026-08-29"
	if got != want {
		t.Errorf("ViewerSetKey = %q, want %q", got, want)
	}
}
