package apierror

import (
	"net/http"
	"testing"

	"medash/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestMessageFromBody_ExtractionOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "error field wins over message",
			body: `{"error":"cohort not found","message":"shadowed"}`,
			want: "cohort not found",
		},
		{
			name: "message when no error field",
			body: `{"message":"invalid course code"}`,
			want: "invalid course code",
		},
		{
			name: "details as third choice",
			body: `{"details":"duplicate student id"}`,
			want: "duplicate student id",
		},
		{
			name: "msg as last resort",
			body: `{"msg":"batch closed"}`,
			want: "batch closed",
		},
		{
			name: "bare string body used verbatim",
			body: `"Invalid or expired verification token"`,
			want: "Invalid or expired verification token",
		},
		{
			name: "non-string error field falls through to message",
			body: `{"error":{"code":17},"message":"still readable"}`,
			want: "still readable",
		},
		{
			name: "unknown shape falls back to status text",
			body: `{"trace":"..."}`,
			want: "Bad Request",
		},
		{
			name: "malformed body falls back to status text",
			body: `{{{`,
			want: "Bad Request",
		},
		{
			name: "empty body falls back to status text",
			body: "",
			want: "Bad Request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MessageFromBody([]byte(tt.body), http.StatusBadRequest)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(&ClientError{Status: 400, Msg: "bad"}))
	assert.False(t, Retryable(&AuthExpiredError{}))
	assert.False(t, Retryable(NewValidation("passwords do not match")))
	assert.True(t, Retryable(&ServerError{Status: 503}))
	assert.True(t, Retryable(&NetworkUnreachableError{Err: errors.New("refused")}))
	assert.True(t, Retryable(errors.New("opaque")))
}

func TestRetryable_SeesThroughWrapping(t *testing.T) {
	wrapped := errors.Wrap(&ClientError{Status: 404, Msg: "gone"}, "list courses")
	assert.False(t, Retryable(wrapped))
}

func TestIsAuthExpired(t *testing.T) {
	assert.True(t, IsAuthExpired(&AuthExpiredError{}))
	assert.True(t, IsAuthExpired(errors.Wrap(&AuthExpiredError{}, "profile fetch")))
	assert.False(t, IsAuthExpired(&ServerError{Status: 500}))
}
