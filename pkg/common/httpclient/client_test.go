package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, DefaultTimeout, c.Timeout)

	ua, ok := c.Transport.(*userAgentTransport)
	require.True(t, ok)
	assert.Equal(t, DefaultUserAgent, ua.userAgent)

	tr, ok := ua.next.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, DefaultMaxConns, tr.MaxConnsPerHost)
	assert.Equal(t, DefaultMaxConns, tr.MaxIdleConnsPerHost)
}

func TestNewUsesSourceSettings(t *testing.T) {
	c := New(Options{Timeout: 3 * time.Second, MaxConns: 1, UserAgent: "triage-test/2"})
	assert.Equal(t, 3*time.Second, c.Timeout)

	tr := c.Transport.(*userAgentTransport).next.(*http.Transport)
	assert.Equal(t, 1, tr.MaxConnsPerHost)
}

func TestUserAgentReplacesCallerHeader(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "go-resty/2")

	resp, err := New(Options{UserAgent: "triage-test/2"}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "triage-test/2", <-got)
	assert.Equal(t, "go-resty/2", req.Header.Get("User-Agent"))
}
