// SPDX-License-Identifier: GPL-3.0-or-later

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, opts Options) *Client {
	t.Helper()
	if opts.UserAgent == "" {
		opts.UserAgent = "sd2xmltv-test/1"
	}
	if opts.Delay == 0 {
		opts.Delay = time.Microsecond
	}
	return NewClient(opts)
}

func TestDoSetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := testClient(t, Options{UserAgent: "rt2xmltv/1 test"})
	body, err := c.Do(context.Background(), Request{Name: "ping", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), body)
	assert.Equal(t, "rt2xmltv/1 test", gotUA)
}

func TestDoQueryEncoding(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := testClient(t, Options{})
	_, err := c.Do(context.Background(), Request{
		Name:  "search",
		URL:   srv.URL + "/headends",
		Query: url.Values{"country": {"GBR"}, "postalcode": {"SW1A 1AA"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "GBR", gotQuery.Get("country"))
	assert.Equal(t, "SW1A 1AA", gotQuery.Get("postalcode"))
}

func TestDoErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such lineup", http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, Options{})
	_, err := c.Do(context.Background(), Request{Name: "lineup", URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamStatus))

	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusNotFound, herr.Status)
}

func TestDoUsesCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	c := testClient(t, Options{Cache: cache})
	req := Request{Name: "data", URL: srv.URL + "/channels.dat"}

	body, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), body)

	body, err = c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), body)
	assert.Equal(t, 1, hits, "second request should come from cache")

	// NoCache bypasses both read and write.
	req.NoCache = true
	_, err = c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestDoDistinctBodiesDistinctCacheEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf [64]byte
		n, _ := r.Body.Read(buf[:])
		_, _ = w.Write(buf[:n])
	}))
	defer srv.Close()

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	c := testClient(t, Options{Cache: cache})
	first, err := c.Do(context.Background(), Request{
		Name: "schedules", Method: http.MethodPost, URL: srv.URL, Body: []byte(`["a"]`),
	})
	require.NoError(t, err)
	second, err := c.Do(context.Background(), Request{
		Name: "schedules", Method: http.MethodPost, URL: srv.URL, Body: []byte(`["b"]`),
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestRobotsDisallow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(t, Options{})
	require.NoError(t, c.LoadRobots(context.Background(), srv.URL))

	_, err := c.Do(context.Background(), Request{Name: "open", URL: srv.URL + "/public.dat"})
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Request{Name: "closed", URL: srv.URL + "/private/secret.dat"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRobotsDisallowed))
}
