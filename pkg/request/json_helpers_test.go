package request

import "testing"

func TestReadString(t *testing.T) {
	got, err := ReadString("  hello  ")
	if err != nil || got != "hello" {
		t.Errorf("ReadString = (%q, %v), want (hello, nil)", got, err)
	}

	if _, err := ReadString(""); err == nil {
		t.Errorf("empty string should error")
	}
	if _, err := ReadString(42.0); err == nil {
		t.Errorf("number should error")
	}
}

func TestReadInt(t *testing.T) {
	// JSON numbers decode as float64.
	got, err := ReadInt(float64(7))
	if err != nil || got != 7 {
		t.Errorf("ReadInt(float64) = (%d, %v), want (7, nil)", got, err)
	}

	got, err = ReadInt(3)
	if err != nil || got != 3 {
		t.Errorf("ReadInt(int) = (%d, %v), want (3, nil)", got, err)
	}

	if _, err := ReadInt("7"); err == nil {
		t.Errorf("string should error")
	}
}

func TestReadBool(t *testing.T) {
	got, err := ReadBool(true)
	if err != nil || !got {
		t.Errorf("ReadBool(true) = (%v, %v)", got, err)
	}

	if _, err := ReadBool("true"); err == nil {
		t.Errorf("string should error")
	}
}

func TestParseRFC3339Ptr(t *testing.T) {
	if got, err := ParseRFC3339Ptr(nil); err != nil || got != nil {
		t.Errorf("nil input = (%v, %v), want (nil, nil)", got, err)
	}

	blank := "   "
	if got, err := ParseRFC3339Ptr(&blank); err != nil || got != nil {
		t.Errorf("blank input = (%v, %v), want (nil, nil)", got, err)
	}

	stamp := "2026-08-29T12:00:00Z"
	got, err := ParseRFC3339Ptr(&stamp)
	if err != nil || got == nil {
		t.Fatalf("valid stamp = (%v, %v)", got, err)
	}
	if got.Hour() != 12 {
		t.Errorf("parsed hour = %d, want 12", got.Hour())
	}

	bad := "not-a-time"
	if _, err := ParseRFC3339Ptr(&bad); err == nil {
		t.Errorf("invalid stamp should error")
	}
}
