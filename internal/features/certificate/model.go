package certificate

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/pkg/apperrors"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// numberAttempts bounds collision retries during number generation.
const numberAttempts = 10

// CourseCertificate records a completion certificate for a student and course.
type CourseCertificate struct {
	types.BaseModel

	StudentID         uuid.UUID `gorm:"type:uuid;not null;column:student_id;uniqueIndex:idx_cert_student_course" json:"studentId"`
	CourseID          uuid.UUID `gorm:"type:uuid;not null;column:course_id;uniqueIndex:idx_cert_student_course" json:"courseId"`
	EnrollmentID      uuid.UUID `gorm:"type:uuid;not null;unique;column:enrollment_id" json:"enrollmentId"`
	CertificateNumber string    `gorm:"type:varchar(50);not null;unique;column:certificate_number" json:"certificateNumber"`
	IssuedAt          time.Time `gorm:"not null;column:issued_at" json:"issuedAt"`
}

// TableName overrides the default table name.
func (CourseCertificate) TableName() string { return "course_certificates" }

// NewNumber produces a candidate certificate number: CERT- followed by eight
// uppercase hex characters.
func NewNumber() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in real trouble
		panic(err)
	}
	return "CERT-" + strings.ToUpper(hex.EncodeToString(buf))
}

// GenerateNumber produces a certificate number not currently in use,
// regenerating on collision.
func GenerateNumber(exists func(string) (bool, error)) (string, error) {
	for i := 0; i < numberAttempts; i++ {
		number := NewNumber()
		taken, err := exists(number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", ErrNumberExhausted
}

// Issue creates a certificate for a completed enrollment. The caller supplies
// the enrollment facts so issuance can run inside the completion transaction.
func Issue(db *gorm.DB, studentID, courseID, enrollmentID uuid.UUID, progress int, now time.Time) (CourseCertificate, error) {
	if progress < 100 {
		return CourseCertificate{}, ErrNotCompleted
	}

	var count int64
	if err := db.Model(&CourseCertificate{}).
		Where("enrollment_id = ?", enrollmentID).
		Count(&count).Error; err != nil {
		return CourseCertificate{}, err
	}
	if count > 0 {
		return CourseCertificate{}, ErrAlreadyIssued
	}

	number, err := GenerateNumber(func(candidate string) (bool, error) {
		var n int64
		err := db.Model(&CourseCertificate{}).
			Where("certificate_number = ?", candidate).
			Count(&n).Error
		return n > 0, err
	})
	if err != nil {
		return CourseCertificate{}, err
	}

	cert := CourseCertificate{
		StudentID:         studentID,
		CourseID:          courseID,
		EnrollmentID:      enrollmentID,
		CertificateNumber: number,
		IssuedAt:          now,
	}

	if err := db.Create(&cert).Error; err != nil {
		if apperrors.IsDuplicateKey(err) {
			return CourseCertificate{}, ErrAlreadyIssued
		}
		return CourseCertificate{}, err
	}

	return cert, nil
}

// GetByNumber retrieves a certificate by its public number.
func GetByNumber(db *gorm.DB, number string) (CourseCertificate, error) {
	var cert CourseCertificate
	if err := db.First(&cert, "certificate_number = ?", strings.ToUpper(strings.TrimSpace(number))).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return cert, ErrCertificateNotFound
		}
		return cert, err
	}
	return cert, nil
}

// GetByEnrollment retrieves the certificate tied to an enrollment.
func GetByEnrollment(db *gorm.DB, enrollmentID uuid.UUID) (CourseCertificate, error) {
	var cert CourseCertificate
	if err := db.First(&cert, "enrollment_id = ?", enrollmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return cert, ErrCertificateNotFound
		}
		return cert, err
	}
	return cert, nil
}

// GetForStudentCourse retrieves the certificate for a student and course pair.
func GetForStudentCourse(db *gorm.DB, studentID, courseID uuid.UUID) (CourseCertificate, error) {
	var cert CourseCertificate
	if err := db.First(&cert, "student_id = ? AND course_id = ?", studentID, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return cert, ErrCertificateNotFound
		}
		return cert, err
	}
	return cert, nil
}

// ListForStudent retrieves all certificates issued to a student.
func ListForStudent(db *gorm.DB, studentID uuid.UUID) ([]CourseCertificate, error) {
	certs := make([]CourseCertificate, 0)
	err := db.Where("student_id = ?", studentID).Order("issued_at DESC").Find(&certs).Error
	return certs, err
}
