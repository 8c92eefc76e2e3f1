package services

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation    = "validation_error"
	CodeNotFound      = "not_found"
	CodeUnauthorized  = "unauthorized"
	CodePolicyDenied  = "storage_policy_denied"
	CodeStorageWrite  = "storage_write_failed"
	CodeProcessing    = "processing_error"
	CodeStore         = "store_error"
	CodeMissingFile   = "missing_file"
	CodeUnsupported   = "unsupported_type"
	CodeSizeExceeded  = "size_exceeded"
	CodeMissingConfig = "missing_config"
)

type ServiceError struct {
	Status  int
	Code    string
	Message string
	Hint    string
	Details any
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: http.StatusBadRequest, Code: CodeValidation, Message: msg}
}

func ErrValidation(msg string, details []string) error {
	return ServiceError{Status: http.StatusBadRequest, Code: CodeValidation, Message: msg, Details: details}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: msg}
}

func ErrProcessing(msg, hint string, details any) error {
	return ServiceError{Status: http.StatusInternalServerError, Code: CodeProcessing, Message: msg, Hint: hint, Details: details}
}

// ErrStore passes the adapter's message through, the way the admin UI
// expects to see it. A nil err yields the fallback message.
func ErrStore(err error, fallback string) error {
	msg := fallback
	if err != nil {
		var serr ServiceError
		if errors.As(err, &serr) {
			return serr
		}
		if err.Error() != "" {
			msg = err.Error()
		}
	}
	return ServiceError{Status: http.StatusInternalServerError, Code: CodeStore, Message: msg}
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
