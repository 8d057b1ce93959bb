package certificate

import (
	"regexp"
	"testing"
)

var numberPattern = regexp.MustCompile(`^CERT-[0-9A-F]{8}$`)

func TestNewNumberFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := NewNumber()
		if !numberPattern.MatchString(number) {
			t.Fatalf("NewNumber() = %q, want CERT- followed by 8 uppercase hex chars", number)
		}
		seen[number] = true
	}

	// 100 draws from a 4-byte space colliding down to a handful would mean
	// the generator is broken.
	if len(seen) < 90 {
		t.Errorf("only %d distinct numbers out of 100", len(seen))
	}
}

func TestGenerateNumberRetriesOnCollision(t *testing.T) {
	calls := 0
	number, err := GenerateNumber(func(candidate string) (bool, error) {
		calls++
		// First two candidates are taken.
		return calls <= 2, nil
	})
	if err != nil {
		t.Fatalf("GenerateNumber: %v", err)
	}
	if calls != 3 {
		t.Errorf("exists called %d times, want 3", calls)
	}
	if !numberPattern.MatchString(number) {
		t.Errorf("GenerateNumber() = %q, bad format", number)
	}
}

func TestGenerateNumberGivesUp(t *testing.T) {
	_, err := GenerateNumber(func(string) (bool, error) {
		return true, nil
	})
	if err != ErrNumberExhausted {
		t.Errorf("error = %v, want ErrNumberExhausted", err)
	}
}
