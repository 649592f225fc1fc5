package middleware

import (
	"net/http"
)

// SecurityConfig holds configuration for response hardening.
type SecurityConfig struct {
	// IsDevelopment suppresses HSTS so plain-HTTP local runs keep working.
	IsDevelopment bool
	// MaxRequestBodySize is the largest accepted request body in bytes.
	MaxRequestBodySize int64
}

// DefaultSecurityConfig returns the production defaults: HSTS on and a 1MB
// body limit.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{MaxRequestBodySize: 1 << 20}
}

// hsts is sent outside development only.
const hsts = "max-age=31536000; includeSubDomains"

// responseHeaders are set on every response. Bodies are JSON and may carry
// bearer tokens, so nothing is framed, sniffed or cached.
var responseHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Referrer-Policy", "no-referrer"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Cache-Control", "no-store"},
	{"Pragma", "no-cache"},
}

// Security returns a middleware that applies the hardening headers.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range responseHeaders {
				h.Set(kv[0], kv[1])
			}
			if !cfg.IsDevelopment {
				h.Set("Strict-Transport-Security", hsts)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize rejects bodies larger than maxBytes. A declared Content-Length
// over the limit is refused up front with 413; otherwise the body is wrapped
// so that reading past the limit fails with *http.MaxBytesError, which the
// JSON decoding in handlers turns into the same 413.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large")
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			next.ServeHTTP(w, r)
		})
	}
}
