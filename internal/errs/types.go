package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// Used for malformed or disallowed input: unparseable ids, sort columns
// outside the allow-list, non-integer vote deltas, missing body fields.
func NewBadRequestError(message string) *HTTPError {
	return &HTTPError{
		// http.StatusText(400) => "Bad Request" => "BAD_REQUEST"
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest)),
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Used for well-formed references to entities that do not exist.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)),
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is always the generic status text; the real cause is only logged.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: MsgInternalServerError,
		Status:  http.StatusInternalServerError,
	}
}
