package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError_JSONBodyOnlyCarriesMsg(t *testing.T) {
	body, err := json.Marshal(NewNotFoundError(MsgArticleNotFound))
	require.NoError(t, err)

	assert.JSONEq(t, `{"msg":"Article not found"}`, string(body))
}

func TestHTTPError_Constructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
		msg    string
	}{
		{"bad request", NewBadRequestError(MsgBadRequest), http.StatusBadRequest, "BAD_REQUEST", "Bad request"},
		{"not found", NewNotFoundError(MsgCommentNotFound), http.StatusNotFound, "NOT_FOUND", "Comment not found"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}
}

func TestHTTPError_IsComparesStatusAndMessage(t *testing.T) {
	wrapped := fmt.Errorf("fetching article: %w", NewNotFoundError(MsgArticleNotFound))

	assert.True(t, errors.Is(wrapped, NewNotFoundError(MsgArticleNotFound)))
	assert.False(t, errors.Is(wrapped, NewNotFoundError(MsgResourceNotFound)))
	assert.False(t, errors.Is(wrapped, NewBadRequestError(MsgArticleNotFound)))
}

func TestHTTPError_WithMessageCopies(t *testing.T) {
	base := NewNotFoundError(MsgResourceNotFound)
	custom := base.WithMessage(MsgUserNotFound)

	assert.Equal(t, MsgResourceNotFound, base.Message)
	assert.Equal(t, MsgUserNotFound, custom.Message)
	assert.Equal(t, base.Status, custom.Status)
}
