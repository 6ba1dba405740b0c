package entities

import "errors"

var ErrFundNotFound = errors.New("fund not found")

// ValidationError marks a request the caller has to fix before retrying.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return ValidationError{Msg: msg}
}
