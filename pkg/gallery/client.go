package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"wallget/pkg/logger"
	"wallget/pkg/ratelimit"
)

// DefaultUserAgent is sent when no user agent is configured
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Client fetches listing pages and image bodies from the gallery
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	selectors   Selectors
	limiter     ratelimit.Limiter
	pageTimeout time.Duration
	logger      logger.Logger
}

// NewClient creates a gallery client. timeout bounds every request,
// including reading the body.
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      DefaultUserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Cache-Control":   "no-cache",
			"Pragma":          "no-cache",
		},
		selectors: Selectors{
			Item: "div.item",
			Link: "div.download a[href]",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetHeaders sets multiple headers at once
func (c *Client) SetHeaders(headers map[string]string) {
	for key, value := range headers {
		c.headers[key] = value
	}
}

// SetSelectors replaces the listing selectors
func (c *Client) SetSelectors(sel Selectors) {
	c.selectors = sel
}

// SetLimiter makes every request wait on l first
func (c *Client) SetLimiter(l ratelimit.Limiter) {
	c.limiter = l
}

// SetPageTimeout bounds listing page fetches separately from image bodies
func (c *Client) SetPageTimeout(d time.Duration) {
	c.pageTimeout = d
}

// doRequest performs an HTTP GET with the configured headers
func (c *Client) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{
				Type:    ErrorTypeNetwork,
				Message: fmt.Sprintf("rate limiter wait aborted: %v", err),
				Err:     err,
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Err:     err,
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    rawURL,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      rawURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Err:     err,
		}
	}

	logger.LogRequest(c.logger, req.Method, rawURL, resp.StatusCode, duration)

	if err := checkResponseStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// checkResponseStatus maps non-2xx responses to gallery errors
func checkResponseStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return &Error{Type: ErrorTypeNotFound, Message: "resource not found", Code: code}
	case code == http.StatusTooManyRequests:
		return &Error{Type: ErrorTypeRateLimit, Message: "rate limit exceeded", Code: code}
	case code >= 500:
		return &Error{Type: ErrorTypeServerError, Message: "server error", Code: code}
	default:
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", code),
			Code:    code,
		}
	}
}

// FetchPage downloads and parses one listing page
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	if c.pageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.pageTimeout)
		defer cancel()
	}

	resp, err := c.doRequest(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Parse against the final URL so relative links survive redirects
	base := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL.String()
	}

	page, err := ParseListing(resp.Body, base, c.selectors)
	if err != nil {
		var gerr *Error
		if errors.As(err, &gerr) {
			gerr.Code = resp.StatusCode
		}
		return nil, err
	}

	c.logger.DebugWithFields("parsed listing page", map[string]interface{}{
		"url":      pageURL,
		"items":    len(page.Refs),
		"has_more": page.HasMore,
	})

	return page, nil
}

// Open starts downloading rawURL and returns the response body. The caller
// must close it.
func (c *Client) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	resp, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
