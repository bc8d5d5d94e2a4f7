package errs

import "strings"

// Messages shared by the API. Some endpoints use an entity-specific
// not-found message while precondition checks use the generic one.
const (
	MsgBadRequest          = "Bad request"
	MsgResourceNotFound    = "Resource not found"
	MsgArticleNotFound     = "Article not found"
	MsgCommentNotFound     = "Comment not found"
	MsgUserNotFound        = "User not found"
	MsgInternalServerError = "Internal Server Error"
)

// HTTPError is the domain error returned by services and repositories.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "NOT_FOUND"), logged only.
//   - Message: the client-facing message, serialized as "msg".
//   - Status: HTTP status code.
type HTTPError struct {
	Code    string `json:"-"`
	Message string `json:"msg"`
	Status  int    `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError with the same status and
// message, so tests and callers can write errors.Is(err, errs.NewNotFoundError(...)).
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}

	return t.Status == e.Status && t.Message == e.Message
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
