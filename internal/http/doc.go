// Package http provides the HTTP client used for all catalog requests.
//
// The Client in this package handles:
//   - Randomized browser-like headers (User-Agent pool, Referer, etc.)
//   - Per-request timeouts
//   - Streamed downloads with progress tracking
//   - Connection caps at the transport level
//
// # Basic Usage
//
//	client := http.NewClient("https://tarat.ru", 8, 20)
//
//	// Fetch an HTML page
//	html, err := client.GetString(ctx, artistURL, 15*time.Second)
//
//	// Stream an audio file in 8 KiB chunks with progress
//	resp, err := client.Open(ctx, mp3URL, 45*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer resp.Close()
//	pw := &http.ProgressWriter{Writer: file, Total: resp.ContentLength, OnUpdate: report}
//	io.CopyBuffer(pw, resp.Body, make([]byte, 8192))
//
// # Failure model
//
// A non-200 response surfaces as *StatusError; timeouts and transport
// errors are returned as-is. The client never retries: callers log and
// count failures.
package http
