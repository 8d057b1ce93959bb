package certificate

import "errors"

var (
	// ErrCertificateNotFound indicates no certificate matches the lookup.
	ErrCertificateNotFound = errors.New("certificate not found")
	// ErrNotCompleted indicates the enrollment has not reached full progress.
	ErrNotCompleted = errors.New("course not completed")
	// ErrAlreadyIssued indicates a certificate already exists for the enrollment.
	ErrAlreadyIssued = errors.New("certificate already issued")
	// ErrNumberExhausted indicates number generation kept colliding.
	ErrNumberExhausted = errors.New("could not generate a unique certificate number")
)
