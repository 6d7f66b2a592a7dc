package gallery

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallget/pkg/logger"
)

// countingLimiter records how often it was waited on
type countingLimiter struct {
	waits atomic.Int32
	err   error
}

func (l *countingLimiter) Allow() bool { return true }
func (l *countingLimiter) Reset()      {}
func (l *countingLimiter) Wait(ctx context.Context) error {
	l.waits.Add(1)
	return l.err
}

func TestNewClient(t *testing.T) {
	client := NewClient(30*time.Second, logger.NewTestLogger())

	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, DefaultUserAgent, client.headers["User-Agent"])
	assert.NotContains(t, client.headers, "Accept-Encoding")
}

func TestFetchPage(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, listingHTML)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, logger.NewNopLogger())
	client.SetHeader("User-Agent", "wallget-test")

	page, err := client.FetchPage(context.Background(), server.URL+"/index1.html")
	require.NoError(t, err)

	assert.Equal(t, "wallget-test", gotUA)
	require.Len(t, page.Refs, 2)
	assert.Equal(t, server.URL+"/wallpaper/7yz4ma1/04242_nightfall_{resolution}.jpg", page.Refs[0].Template)
}

func TestFetchPageStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantType ErrorType
	}{
		{"not found", http.StatusNotFound, ErrorTypeNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrorTypeRateLimit},
		{"server error", http.StatusBadGateway, ErrorTypeServerError},
		{"forbidden", http.StatusForbidden, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(5*time.Second, logger.NewNopLogger())
			_, err := client.FetchPage(context.Background(), server.URL)
			require.Error(t, err)

			var gerr *Error
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, tt.wantType, gerr.Type)
			assert.Equal(t, tt.status, gerr.Code)
			assert.Equal(t, tt.status == http.StatusNotFound, IsNotFound(err))
		})
	}
}

func TestFetchPageUsesLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, listingHTML)
	}))
	defer server.Close()

	limiter := &countingLimiter{}
	client := NewClient(5*time.Second, logger.NewNopLogger())
	client.SetLimiter(limiter)

	_, err := client.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)
	_, err = client.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, int32(2), limiter.waits.Load())
}

func TestFetchPageLimiterAborted(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, logger.NewNopLogger())
	client.SetLimiter(&countingLimiter{err: context.Canceled})

	_, err := client.FetchPage(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}

func TestFetchPageTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(5*time.Second, logger.NewNopLogger())
	client.SetPageTimeout(50 * time.Millisecond)

	_, err := client.FetchPage(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, IsType(err, ErrorTypeNetwork))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "image-bytes")
	}))
	defer server.Close()

	client := NewClient(5*time.Second, logger.NewNopLogger())

	body, err := client.Open(context.Background(), server.URL+"/a.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "image-bytes", string(data))

	_, err = client.Open(context.Background(), server.URL+"/missing.jpg")
	assert.True(t, IsNotFound(err))
}

func TestRequestLogging(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer server.Close()

	log := logger.NewTestLogger()
	client := NewClient(5*time.Second, log)

	body, err := client.Open(context.Background(), server.URL+"/a.jpg")
	require.NoError(t, err)
	body.Close()

	assert.True(t, log.HasMessage("sending HTTP request"))
	assert.True(t, log.HasMessage("HTTP request completed"))
}
