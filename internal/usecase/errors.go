package usecase

import "errors"

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeEmailConflict = "EMAIL_ALREADY_EXISTS"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeDatabase      = "DATABASE_ERROR"
	CodeGateway       = "GATEWAY_ERROR"
)

type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func validationFailed(errs []ValidationError) *DomainError {
	msg := "validation failed: "
	for i, e := range errs {
		if i > 0 {
			msg += ", "
		}
		msg += e.Field + " (" + e.Message + ")"
	}
	return &DomainError{Code: CodeValidation, Message: msg, Fields: errs}
}
