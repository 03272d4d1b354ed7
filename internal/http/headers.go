package http

import (
	"math/rand"
	"net/http"
)

// userAgents is the fixed pool of browser User-Agent strings the
// client rotates through. A small pool of real browser identities is
// enough to avoid the site's trivial bot filtering.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
}

// RandomUserAgent returns one User-Agent from the pool.
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// RandomHeaders builds browser-like request headers with a randomized
// User-Agent. The referer should be the site's base URL.
func RandomHeaders(referer string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", RandomUserAgent())
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")
	h.Set("Referer", referer)
	h.Set("DNT", "1")
	h.Set("Connection", "keep-alive")
	return h
}

// IsKnownUserAgent reports whether ua is one of the pool entries.
// Exposed for tests.
func IsKnownUserAgent(ua string) bool {
	for _, known := range userAgents {
		if ua == known {
			return true
		}
	}
	return false
}
