// SPDX-License-Identifier: GPL-3.0-or-later

// Package fetch provides the download capability consumed by the
// provider clients: a polite HTTP client with robots.txt compliance, a
// request rate limit and a persistent response cache. The conversion
// core never touches this package.
package fetch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/nomis/sd2xmltv/internal/log"
)

// Request describes one download. Name is a human-readable label used
// for progress logging only.
type Request struct {
	Name    string
	Method  string // defaults to GET
	URL     string
	Query   url.Values
	Body    []byte // JSON request body, sent with POST/PUT
	Header  http.Header
	NoCache bool // bypass the response cache for both read and write
}

// Fetcher is the capability interface injected into provider clients.
type Fetcher interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// Options configure a Client.
type Options struct {
	UserAgent string
	// Cache is the optional persistent response cache.
	Cache *Cache
	// Delay is the politeness delay between requests (default 100ms).
	// A robots.txt crawl-delay overrides it when larger.
	Delay time.Duration
	// Timeout bounds a single request (default 30s).
	Timeout time.Duration
}

// Client is the HTTP Fetcher implementation.
type Client struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	robots    *robotstxt.Group
	cache     *Cache
	logger    zerolog.Logger
}

// NewClient returns a Fetcher with the given options.
func NewClient(opts Options) *Client {
	delay := opts.Delay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
		cache:     opts.Cache,
		logger:    log.WithComponent("fetch"),
	}
}

// LoadRobots fetches and applies baseURL's robots.txt. Subsequent
// requests are refused when disallowed for the client's user agent, and
// a crawl-delay raises the politeness delay. Callers may ignore the
// returned error to treat a missing robots.txt as permissive.
func (c *Client) LoadRobots(ctx context.Context, baseURL string) error {
	body, err := c.Do(ctx, Request{
		Name:    "robots.txt",
		URL:     baseURL + "/robots.txt",
		NoCache: true,
	})
	if err != nil {
		return err
	}
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return fmt.Errorf("fetch: parse robots.txt: %w", err)
	}
	c.robots = data.FindGroup(c.userAgent)
	if c.robots != nil && c.robots.CrawlDelay > 0 {
		c.limiter.SetLimit(rate.Every(c.robots.CrawlDelay))
	}
	return nil
}

// Do performs one download, honouring robots.txt, the rate limit and
// the response cache. Responses with status >= 400 become errors.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", req.Name, err)
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	target := u.String()

	if c.robots != nil && !c.robots.Test(u.Path) {
		return nil, &RobotsError{URL: target}
	}

	key := cacheKey(method, target, req.Body)
	if !req.NoCache && c.cache != nil {
		if body, ok, err := c.cache.Get(key); err != nil {
			return nil, err
		} else if ok {
			c.logger.Debug().
				Str(log.FieldEvent, "fetch.cached").
				Str(log.FieldURL, target).
				Msg(req.Name)
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if req.Body != nil {
		reqBody = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", req.Name, err)
	}
	hreq.Header.Set("User-Agent", c.userAgent)
	if req.Body != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}
	for name, values := range req.Header {
		for _, v := range values {
			hreq.Header.Add(name, v)
		}
	}

	start := time.Now()
	res, err := c.http.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", req.Name, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: read body: %w", req.Name, err)
	}
	duration := time.Since(start)

	if res.StatusCode >= 400 {
		return nil, &HTTPError{Name: req.Name, URL: target, Status: res.StatusCode, Body: string(body)}
	}

	c.logger.Info().
		Str(log.FieldEvent, "fetch.done").
		Str(log.FieldURL, target).
		Str(log.FieldSize, log.SizeString(len(body))).
		Dur("duration", duration).
		Str(log.FieldRate, log.RateString(len(body), duration)).
		Msg("downloaded " + req.Name)

	if !req.NoCache && c.cache != nil {
		if err := c.cache.Put(key, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// cacheKey hashes the request identity. Headers are deliberately
// excluded so authenticated and anonymous fetches of the same resource
// share an entry, matching the provider's cache semantics.
func cacheKey(method, url string, body []byte) string {
	h := sha256.New()
	io.WriteString(h, method)
	io.WriteString(h, " ")
	io.WriteString(h, url)
	if len(body) > 0 {
		io.WriteString(h, " ")
		h.Write(body)
	}
	return hex.EncodeToString(h.Sum(nil))
}
