// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields) defined in struct tags. Clients only ever see
// "Bad request"; the field-level detail goes to the log.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsapi/internal/errs"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// Struct runs the struct tag rules for v.
func Struct(v any) error {
	return validate.Struct(v)
}

// RequestError is a rejected request. It unwraps to the 400 HTTPError the
// client sees and keeps the reason for logging.
type RequestError struct {
	Reason string
	err    *errs.HTTPError
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.err.Message, e.Reason)
}

func (e *RequestError) Unwrap() error {
	return e.err
}

func newRequestError(reason string) *RequestError {
	return &RequestError{
		Reason: reason,
		err:    errs.NewBadRequestError(errs.MsgBadRequest),
	}
}

// BindAndValidate binds path, query and body data into payload and validates
// it. Both bind failures (unparseable ids, wrong JSON types) and rule
// failures come back as a *RequestError.
//
// payload must be a pointer.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		reason := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			reason = fmt.Sprint(he.Message)
			if he.Internal != nil {
				reason += ": " + he.Internal.Error()
			}
		}
		return newRequestError("bind: " + reason)
	}

	if err := payload.Validate(); err != nil {
		return newRequestError(describeValidationError(err))
	}

	return nil
}

// describeValidationError flattens validator errors into "field: tag" pairs.
func describeValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}
