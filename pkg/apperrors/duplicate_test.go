package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm sentinel", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm sentinel", fmt.Errorf("create enrollment: %w", gorm.ErrDuplicatedKey), true},
		{"postgres message", errors.New(`ERROR: duplicate key value violates unique constraint "idx_enrollment_student_course" (SQLSTATE 23505)`), true},
		{"sqlite message", errors.New("UNIQUE constraint failed: enrollments.student_id, enrollments.course_id"), true},
		{"not found", gorm.ErrRecordNotFound, false},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		if got := IsDuplicateKey(tc.err); got != tc.want {
			t.Errorf("%s: IsDuplicateKey() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
