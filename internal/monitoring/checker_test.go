package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bissquit/gov-status/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticChecker(t *testing.T) {
	status, err := StaticChecker{}.Check(context.Background(), domain.ServiceDescriptor{Status: domain.ServiceStatusDegraded})
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceStatusDegraded, status)
}

func TestHTTPChecker_Check(t *testing.T) {
	var gotMethod, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	checker := NewHTTPChecker(HTTPCheckerConfig{UserAgent: "test-agent", RateLimit: 1000})

	tests := []struct {
		name string
		svc  domain.ServiceDescriptor
		want domain.ServiceStatus
	}{
		{
			name: "reachable keeps configured status",
			svc:  domain.ServiceDescriptor{ID: "a", URL: srv.URL + "/up", Status: domain.ServiceStatusDegraded},
			want: domain.ServiceStatusDegraded,
		},
		{
			name: "error response is outage",
			svc:  domain.ServiceDescriptor{ID: "b", URL: srv.URL + "/down", Status: domain.ServiceStatusOperational},
			want: domain.ServiceStatusOutage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := checker.Check(context.Background(), tt.svc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, http.MethodHead, gotMethod)
			assert.Equal(t, "test-agent", gotUA)
		})
	}
}

func TestHTTPChecker_NoURL(t *testing.T) {
	checker := NewHTTPChecker(HTTPCheckerConfig{})

	status, err := checker.Check(context.Background(), domain.ServiceDescriptor{Status: domain.ServiceStatusOperational})
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceStatusOperational, status)
}

func TestHTTPChecker_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	checker := NewHTTPChecker(HTTPCheckerConfig{RateLimit: 1000})

	_, err := checker.Check(context.Background(), domain.ServiceDescriptor{URL: url})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.True(t, isRetryable(err))
}

func TestHTTPChecker_BadURL(t *testing.T) {
	checker := NewHTTPChecker(HTTPCheckerConfig{RateLimit: 1000})

	_, err := checker.Check(context.Background(), domain.ServiceDescriptor{URL: "http://bad host/"})
	require.Error(t, err)
	assert.False(t, isRetryable(err))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errors.New("plain")))
	assert.True(t, isRetryable(NewRetryableError(errors.New("x"))))
	assert.False(t, isRetryable(NewNonRetryableError(errors.New("x"))))
}
