package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedpress/luxwire/internal/collector"
)

type countingPacer struct {
	calls atomic.Int64
}

func (p *countingPacer) Wait(context.Context, string) error {
	p.calls.Add(1)
	return nil
}

func TestFetchReturnsBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "https://www.google.com/", r.Header.Get("Referer"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>jewellery news</body></html>"))
	}))
	defer srv.Close()

	pacer := &countingPacer{}
	client := New(Config{}, pacer, nil)

	res, err := client.Fetch(context.Background(), srv.URL, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(res.Body), "jewellery")
	assert.Equal(t, "text/html; charset=utf-8", res.Headers.Get("Content-Type"))
	assert.False(t, res.Insecure)
	assert.Equal(t, int64(1), pacer.calls.Load())
}

func TestFetchDoesNotRetryNon200(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("blocked"))
	}))
	defer srv.Close()

	client := New(Config{InsecureRetry: true}, nil, nil)

	res, err := client.Fetch(context.Background(), srv.URL, 5*time.Second)
	require.Error(t, err)
	assert.Equal(t, collector.FailureHTTPStatus, collector.KindOf(err))
	assert.Equal(t, 403, collector.StatusCode(err))
	assert.Equal(t, int64(1), hits.Load())
	// status and body still surfaced for block detection
	assert.Equal(t, 403, res.StatusCode)
	assert.Equal(t, "blocked", string(res.Body))
}

func TestFetchRetriesOnceWithRelaxedTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("made it through"))
	}))
	defer srv.Close()

	client := New(Config{InsecureRetry: true}, nil, nil)

	res, err := client.Fetch(context.Background(), srv.URL, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, res.Insecure)
	assert.Equal(t, "made it through", string(res.Body))
}

func TestFetchTLSFailurePropagatesWithoutRetry(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("unreachable without relaxed verification"))
	}))
	defer srv.Close()

	client := New(Config{InsecureRetry: false}, nil, nil)

	_, err := client.Fetch(context.Background(), srv.URL, 5*time.Second)
	require.Error(t, err)
	assert.Equal(t, collector.FailureTransport, collector.KindOf(err))
}

func TestFetchTimeoutClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	client := New(Config{}, nil, nil)

	_, err := client.Fetch(context.Background(), srv.URL, 50*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, collector.FailureTimeout, collector.KindOf(err))
}

func TestIdentityPoolRotates(t *testing.T) {
	pool := NewIdentityPool([]string{"ua-one", "ua-two"})
	assert.Equal(t, "ua-one", pool.Next())
	assert.Equal(t, "ua-two", pool.Next())
	assert.Equal(t, "ua-one", pool.Next())
}

func TestDefaultIdentityPoolLooksLikeBrowsers(t *testing.T) {
	pool := NewIdentityPool(nil)
	for i := 0; i < len(defaultUserAgents); i++ {
		assert.True(t, strings.HasPrefix(pool.Next(), "Mozilla/5.0"))
	}
}
