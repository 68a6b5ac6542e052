package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/procurement/budget/internal/domain/shared"
	"github.com/procurement/budget/internal/domain/shared/valueobject"
)

// CodePrefix is prepended to every error kind in the envelope
const CodePrefix = "400.10."

// Boundary error kinds. Domain kinds come from shared.DomainError codes.
const (
	// KindInvalidJSONType is used when a body field has the wrong JSON type
	KindInvalidJSONType = "INVALID_JSON_TYPE"
	// KindValidationError is used when a body or query parameter fails validation
	KindValidationError = "VALIDATION_ERROR"
	// KindException is the catch-all for anything unexpected
	KindException = "EXCEPTION"
)

// ErrorCode returns the envelope code for an error kind
func ErrorCode(kind string) string {
	return CodePrefix + kind
}

// FromError converts any error into a failure response.
// Domain errors keep their code and boundary errors get their own kind.
// Everything else, malformed JSON included, becomes EXCEPTION with the raw
// error text.
func FromError(err error) Response {
	if err == nil {
		return NewErrorResponse(KindException, "unknown error")
	}
	if domainErr, ok := shared.AsDomainError(err); ok {
		return NewErrorResponse(domainErr.Code, domainErr.Message)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return NewErrorResponse(KindInvalidJSONType, invalidTypeMessage(typeErr))
	}
	if errors.Is(err, valueobject.ErrInvalidDateTime) {
		return NewErrorResponse(KindInvalidJSONType, err.Error())
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return NewErrorResponse(KindValidationError, validationMessage(validationErrs))
	}
	var paramErr *ParamError
	if errors.As(err, &paramErr) {
		return NewErrorResponse(KindValidationError, paramErr.Error())
	}

	return NewErrorResponse(KindException, err.Error())
}

// ParamError reports a missing or malformed query or path parameter
type ParamError struct {
	Name   string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter '%s' %s", e.Name, e.Reason)
}

func invalidTypeMessage(err *json.UnmarshalTypeError) string {
	field := err.Field
	if field == "" {
		field = "body"
	}
	return fmt.Sprintf("field '%s' must be of type %s, got %s", field, err.Type.String(), err.Value)
}

func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("field '%s' failed on '%s'", fieldPath(fe), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// fieldPath drops the root struct name from the validator namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
