package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/require"
)

func TestNewRetryHandler(t *testing.T) {
	t.Run("explicit values kept", func(t *testing.T) {
		handler := NewRetryHandler(RetryConfig{
			MaxRetries:     5,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			Multiplier:     2.5,
		})
		require.Equal(t, 5, handler.cfg.MaxRetries)
		require.Equal(t, 100*time.Millisecond, handler.cfg.InitialBackoff)
		require.Equal(t, 2*time.Second, handler.cfg.MaxBackoff)
		require.Equal(t, 2.5, handler.cfg.Multiplier)
	})

	t.Run("invalid values use defaults", func(t *testing.T) {
		handler := NewRetryHandler(RetryConfig{
			MaxRetries:     -1,
			InitialBackoff: -100 * time.Millisecond,
			Multiplier:     0.5,
		})
		require.Equal(t, 0, handler.cfg.MaxRetries)
		require.Equal(t, defaultInitialBackoff, handler.cfg.InitialBackoff)
		require.Equal(t, defaultMaxBackoff, handler.cfg.MaxBackoff)
		require.Equal(t, defaultBackoffFactor, handler.cfg.Multiplier)
	})
}

func TestRetryHandlerDo(t *testing.T) {
	fast := func(max int) *RetryHandler {
		return NewRetryHandler(RetryConfig{MaxRetries: max, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond})
	}

	t.Run("success on first try", func(t *testing.T) {
		calls := 0
		err := fast(3).Do(context.Background(), func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 1, calls)
	})

	t.Run("success after transient failures", func(t *testing.T) {
		var retries []int
		handler := NewRetryHandler(RetryConfig{
			MaxRetries:     3,
			InitialBackoff: time.Millisecond,
			OnRetry:        func(attempt int, _ error) { retries = append(retries, attempt) },
		})
		calls := 0
		err := handler.Do(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &openai.Error{StatusCode: http.StatusServiceUnavailable}
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, calls)
		require.Equal(t, []int{1, 2}, retries)
	})

	t.Run("exhausted retries return last error", func(t *testing.T) {
		calls := 0
		err := fast(2).Do(context.Background(), func() error {
			calls++
			return &openai.Error{StatusCode: http.StatusTooManyRequests}
		})
		var apiErr *openai.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		require.Equal(t, 3, calls)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		calls := 0
		err := fast(3).Do(context.Background(), func() error {
			calls++
			return &openai.Error{StatusCode: http.StatusUnauthorized}
		})
		require.Error(t, err)
		require.Equal(t, 1, calls)
	})

	t.Run("cancellation during backoff", func(t *testing.T) {
		handler := NewRetryHandler(RetryConfig{MaxRetries: 3, InitialBackoff: time.Second})
		ctx, cancel := context.WithCancel(context.Background())
		err := handler.Do(ctx, func() error {
			cancel()
			return &openai.Error{StatusCode: http.StatusBadGateway}
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"rate limited", &openai.Error{StatusCode: http.StatusTooManyRequests}, true},
		{"request timeout", &openai.Error{StatusCode: http.StatusRequestTimeout}, true},
		{"server error", &openai.Error{StatusCode: http.StatusInternalServerError}, true},
		{"gateway timeout", &openai.Error{StatusCode: http.StatusGatewayTimeout}, true},
		{"bad request", &openai.Error{StatusCode: http.StatusBadRequest}, false},
		{"not found", &openai.Error{StatusCode: http.StatusNotFound}, false},
		{"wrapped api error", errors.Join(errors.New("wrapper"), &openai.Error{StatusCode: http.StatusBadGateway}), true},
		{"net timeout", &timeoutError{}, true},
		{"dial failure", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"generic", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
