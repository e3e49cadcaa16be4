package pwned_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/passcheck/pkg/pwned"
)

func newClient(t *testing.T, url string, opts ...pwned.Option) *pwned.Client {
	t.Helper()
	opts = append([]pwned.Option{
		pwned.WithBaseURL(url),
		pwned.WithBackoff(pwned.FixedBackoff{Interval: time.Millisecond}),
	}, opts...)
	c, err := pwned.NewClient(opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		c, err := pwned.NewClient()
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("invalid base URLs", func(t *testing.T) {
		t.Parallel()
		for _, u := range []string{"ftp://example.com", "http://", "://bad"} {
			_, err := pwned.NewClient(pwned.WithBaseURL(u))
			assert.ErrorIs(t, err, pwned.ErrInvalidBaseURL, u)
		}
	})
}

func TestClient_Range_Success(t *testing.T) {
	t.Parallel()

	d := pwned.Sum("password")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/range/"+d.Prefix(), r.URL.Path)
		assert.Equal(t, "passcheck/1.0", r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Add-Padding"))

		fmt.Fprintf(w, "0077CA954CC79F02509ED44973DD93D21CE:3\r\n%s:9545824", d.Suffix())
	}))
	defer server.Close()

	c := newClient(t, server.URL+"/")
	records, err := c.Range(context.Background(), d.Prefix())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, pwned.Contains(records, d.Suffix()))
	assert.Equal(t, 9545824, records[1].Count)
}

func TestClient_Range_LowercasePrefixIsNormalized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/range/5BAA6", r.URL.Path)
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Range(context.Background(), "5baa6")
	require.NoError(t, err)
}

func TestClient_Range_Headers(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.Header.Get("Add-Padding"))
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
	}))
	defer server.Close()

	c := newClient(t, server.URL, pwned.WithPadding(true), pwned.WithUserAgent("custom-agent"))
	_, err := c.Range(context.Background(), "5BAA6")
	require.NoError(t, err)
}

func TestClient_Range_InvalidPrefix(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Range(context.Background(), "5BAA61E4")
	require.Error(t, err)
	assert.ErrorIs(t, err, pwned.ErrLookupFailed)
	assert.ErrorIs(t, err, pwned.ErrInvalidPrefix)
	assert.Zero(t, calls.Load())
}

func TestClient_Range_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("0077CA954CC79F02509ED44973DD93D21CE:3"))
	}))
	defer server.Close()

	var (
		mu      sync.Mutex
		results []pwned.LookupResult
	)
	observer := func(r pwned.LookupResult) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}

	c := newClient(t, server.URL, pwned.WithMaxRetries(2), pwned.WithObserver(observer))
	records, err := c.Range(context.Background(), "5BAA6")
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(3), calls.Load())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 3)
	assert.Equal(t, http.StatusServiceUnavailable, results[0].StatusCode)
	assert.ErrorIs(t, results[0].Error, pwned.ErrUnexpectedStatus)
	assert.Equal(t, 3, results[2].Attempt)
	assert.Equal(t, 1, results[2].Records)
	assert.NoError(t, results[2].Error)
}

func TestClient_Range_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, pwned.WithMaxRetries(1)).Range(context.Background(), "5BAA6")
	require.Error(t, err)
	assert.ErrorIs(t, err, pwned.ErrLookupFailed)
	assert.ErrorIs(t, err, pwned.ErrUnexpectedStatus)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Range_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, pwned.WithMaxRetries(3)).Range(context.Background(), "5BAA6")
	assert.ErrorIs(t, err, pwned.ErrUnexpectedStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Range_MalformedBody(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, pwned.WithMaxRetries(3)).Range(context.Background(), "5BAA6")
	assert.ErrorIs(t, err, pwned.ErrLookupFailed)
	assert.ErrorIs(t, err, pwned.ErrMalformedResponse)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Range_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := newClient(t, server.URL, pwned.WithTimeout(50*time.Millisecond), pwned.WithMaxRetries(0))
	_, err := c.Range(context.Background(), "5BAA6")
	require.Error(t, err)
	assert.ErrorIs(t, err, pwned.ErrLookupFailed)
	assert.ErrorIs(t, err, pwned.ErrTimeout)
}

func TestClient_Range_TransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newClient(t, url, pwned.WithMaxRetries(1)).Range(context.Background(), "5BAA6")
	require.Error(t, err)
	assert.ErrorIs(t, err, pwned.ErrLookupFailed)
	assert.ErrorIs(t, err, pwned.ErrTransport)
}

func TestClient_Range_CanceledContext(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(t, server.URL, pwned.WithMaxRetries(3)).Range(ctx, "5BAA6")
	require.Error(t, err)
	assert.ErrorIs(t, err, pwned.ErrLookupFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}
