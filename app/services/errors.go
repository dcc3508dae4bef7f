// Package services holds the business layer. Services return FailError
// for expected business failures — controllers render those as FAILURE
// envelopes with HTTP 200 — and plain errors for genuine faults.
package services

import "errors"

// FailError is a business failure carrying the user-facing message.
type FailError struct {
	Message string
}

func (e FailError) Error() string { return e.Message }

// Fail builds a business failure.
func Fail(message string) error {
	return FailError{Message: message}
}

// AsFail extracts the business-failure message if err is one.
func AsFail(err error) (string, bool) {
	var fe FailError
	if errors.As(err, &fe) {
		return fe.Message, true
	}
	return "", false
}
