package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusError reports a response with a non-200 status code.
//
// The body has already been closed when a StatusError is returned;
// callers only decide how to log and count the failure. There is no
// retry policy: failures are logged and counted, not retried.
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// URL is the requested URL.
	URL string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.URL)
}

// Client wraps HTTP operations with catalog-specific configuration.
//
// Client provides:
//   - Randomized browser-like request headers on every request
//   - Per-request timeouts
//   - Streamed downloads for large bodies (audio)
//   - In-memory downloads for small bodies (HTML, covers)
//
// The underlying transport caps physical connections (per-host and
// total); logical download concurrency is bounded separately by the
// download limiter and must stay within these caps.
//
// Example usage:
//
//	client := NewClient("https://tarat.ru", 8, 20)
//
//	// Fetch HTML content
//	html, err := client.GetString(ctx, artistURL, 15*time.Second)
//
//	// Stream an audio body
//	resp, err := client.Open(ctx, mp3URL, 45*time.Second)
//	if err == nil {
//	    defer resp.Close()
//	    io.Copy(file, resp.Body)
//	}
type Client struct {
	httpClient *http.Client
	referer    string
}

// NewClient creates a new HTTP client for the catalog site.
//
// baseURL is sent as the Referer header on every request. perHost and
// total cap the transport's simultaneous connections.
func NewClient(baseURL string, perHost, total int) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxConnsPerHost:     perHost,
				MaxIdleConnsPerHost: perHost,
				MaxIdleConns:        total,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		referer: baseURL,
	}
}

// Response is a streamed HTTP response body.
//
// ContentLength is the expected total size in bytes, or a negative
// value when the server did not send a usable Content-Length header.
// Negative means indeterminate, not zero: progress displays must not
// treat it as an empty body.
//
// Close releases both the body and the per-request timeout; it must be
// called exactly once.
type Response struct {
	Body          io.ReadCloser
	ContentLength int64
	StatusCode    int

	cancel context.CancelFunc
}

// Close closes the body and releases the request's timeout context.
func (r *Response) Close() error {
	err := r.Body.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

// Open performs a GET request and returns the response body as a
// stream without buffering it.
//
// The timeout covers the whole exchange including body reads, so a
// stalled transfer unwinds instead of hanging a worker. Cancelling ctx
// has the same effect.
//
// On a non-200 status the body is closed and a *StatusError is
// returned.
//
// Example:
//
//	resp, err := client.Open(ctx, mp3URL, 45*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer resp.Close()
//	_, err = io.Copy(file, resp.Body)
func (c *Client) Open(ctx context.Context, url string, timeout time.Duration) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header = RandomHeaders(c.referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	return &Response{
		Body:          resp.Body,
		ContentLength: resp.ContentLength,
		StatusCode:    resp.StatusCode,
		cancel:        cancel,
	}, nil
}

// Get performs a GET request and returns the response body in memory.
//
// Use this for small bodies like cover images. For audio bodies use
// Open and stream to disk instead.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	resp, err := c.Open(ctx, url, timeout)
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a
// string. This is a convenience wrapper around Get for HTML pages.
func (c *Client) GetString(ctx context.Context, url string, timeout time.Duration) (string, error) {
	body, err := c.Get(ctx, url, timeout)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  resp.ContentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, resp.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes. Negative when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}
