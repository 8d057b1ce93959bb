package stream

import (
	"testing"
	"time"
)

func TestSessionEndIdempotent(t *testing.T) {
	now := time.Now().UTC()

	s := VideoStream{StartedAt: now.Add(-time.Hour)}
	if !s.IsActive() {
		t.Fatalf("new session should be active")
	}

	if !s.End(now) {
		t.Fatalf("first End should report the transition")
	}
	if s.IsActive() {
		t.Errorf("session still active after End")
	}
	if s.EndedAt == nil || !s.EndedAt.Equal(now) {
		t.Errorf("EndedAt = %v, want %v", s.EndedAt, now)
	}

	later := now.Add(time.Minute)
	if s.End(later) {
		t.Errorf("second End should be a no-op")
	}
	if !s.EndedAt.Equal(now) {
		t.Errorf("EndedAt moved to %v on repeat End", s.EndedAt)
	}
}

func TestApplyPosition(t *testing.T) {
	s := VideoStream{CurrentPosition: 30, TotalWatchTime: 30}

	if err := s.ApplyPosition(45, 15); err != nil {
		t.Fatalf("ApplyPosition: %v", err)
	}
	if s.CurrentPosition != 45 {
		t.Errorf("CurrentPosition = %d, want 45", s.CurrentPosition)
	}
	if s.TotalWatchTime != 45 {
		t.Errorf("TotalWatchTime = %d, want 45", s.TotalWatchTime)
	}

	// Seeking backwards is allowed; watch time keeps accumulating.
	if err := s.ApplyPosition(10, 5); err != nil {
		t.Fatalf("ApplyPosition seek back: %v", err)
	}
	if s.CurrentPosition != 10 || s.TotalWatchTime != 50 {
		t.Errorf("after seek back position=%d watch=%d, want 10 and 50",
			s.CurrentPosition, s.TotalWatchTime)
	}
}

func TestApplyPositionRejectsNegative(t *testing.T) {
	s := VideoStream{}

	if err := s.ApplyPosition(-1, 0); err != ErrNegativePosition {
		t.Errorf("negative position error = %v, want ErrNegativePosition", err)
	}
	if err := s.ApplyPosition(0, -1); err != ErrNegativePosition {
		t.Errorf("negative watch time error = %v, want ErrNegativePosition", err)
	}
}

func TestApplyPositionAfterEnd(t *testing.T) {
	now := time.Now().UTC()

	s := VideoStream{TotalWatchTime: 100, CurrentPosition: 80}
	s.End(now)

	if err := s.ApplyPosition(90, 10); err != ErrSessionEnded {
		t.Fatalf("ApplyPosition on ended session error = %v, want ErrSessionEnded", err)
	}
	if s.TotalWatchTime != 100 || s.CurrentPosition != 80 {
		t.Errorf("ended session mutated: position=%d watch=%d",
			s.CurrentPosition, s.TotalWatchTime)
	}
}
