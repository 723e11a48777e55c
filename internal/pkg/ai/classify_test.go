package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.ErrorCode
	}{
		{"openai 401", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "nope"}, apperrors.ErrAuthenticationFailed},
		{"openai 403", &openai.APIError{HTTPStatusCode: http.StatusForbidden}, apperrors.ErrAuthenticationFailed},
		{"openai 429", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, apperrors.ErrRateLimited},
		{"openai request error 401", &openai.RequestError{HTTPStatusCode: http.StatusUnauthorized, Err: errors.New("x")}, apperrors.ErrAuthenticationFailed},
		{"googleapi 403", &googleapi.Error{Code: http.StatusForbidden}, apperrors.ErrAuthenticationFailed},
		{"googleapi 429", &googleapi.Error{Code: http.StatusTooManyRequests}, apperrors.ErrRateLimited},
		{"gemini invalid key text", errors.New("googleapi: Error 400: API key not valid. Please pass a valid API key."), apperrors.ErrAuthenticationFailed},
		{"grpc unauthenticated text", errors.New("rpc error: code = Unauthenticated desc = bad"), apperrors.ErrAuthenticationFailed},
		{"quota text", errors.New("Resource has been exhausted (e.g. check quota)."), apperrors.ErrRateLimited},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), apperrors.ErrTimeout},
		{"client timeout text", errors.New("net/http: request canceled (Client.Timeout exceeded while awaiting headers)"), apperrors.ErrTimeout},
		{"cancelled", context.Canceled, apperrors.ErrInterrupted},
		{"connection refused", errors.New("dial tcp 127.0.0.1:443: connect: connection refused"), apperrors.ErrProviderCall},
		{"openai 404", &openai.APIError{HTTPStatusCode: http.StatusNotFound, Message: "model not found"}, apperrors.ErrProviderCall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError("openai", tt.err)
			assert.True(t, apperrors.HasCode(got, tt.want), "got %v (%v)", apperrors.GetAppError(got).Code, got)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	assert.NoError(t, classifyError("openai", nil))
}
