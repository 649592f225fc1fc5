package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CORSConfig lists the browser origins allowed to call the API.
// Credentials mode is never enabled: the token travels in the
// Authorization header, not in cookies.
type CORSConfig struct {
	// AllowedOrigins holds exact origins ("https://app.example.com") or
	// subdomain patterns ("https://*.example.com"). Empty denies every
	// cross-origin caller.
	AllowedOrigins []string
	// MaxAge is how long browsers may cache a preflight answer.
	MaxAge time.Duration
}

// DefaultCORSConfig returns a config that denies all origins.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{MaxAge: 24 * time.Hour}
}

const (
	corsMethods        = "GET, POST, PUT, DELETE"
	corsRequestHeaders = "Authorization, Content-Type, X-Request-ID"
	corsExposedHeaders = "X-Request-ID"
)

// originPattern is one parsed AllowedOrigins entry.
type originPattern struct {
	scheme string
	host   string // includes port when given
	suffix bool   // host is a parent domain; only subdomains match
}

func parseOriginPattern(raw string) (originPattern, bool) {
	u, err := url.Parse(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return originPattern{}, false
	}
	if rest, ok := strings.CutPrefix(u.Host, "*."); ok {
		return originPattern{scheme: u.Scheme, host: rest, suffix: true}, true
	}
	return originPattern{scheme: u.Scheme, host: u.Host}, true
}

func (p originPattern) matches(scheme, host string) bool {
	if scheme != p.scheme {
		return false
	}
	if p.suffix {
		return strings.HasSuffix(host, "."+p.host)
	}
	return host == p.host
}

// CORS returns a middleware that answers preflight requests and tags
// responses for allowed origins. Requests without an Origin header pass
// through untouched. A preflight from a disallowed origin gets 403; other
// requests from it proceed without CORS headers and the browser blocks them.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	patterns := make([]originPattern, 0, len(cfg.AllowedOrigins))
	for _, raw := range cfg.AllowedOrigins {
		if p, ok := parseOriginPattern(raw); ok {
			patterns = append(patterns, p)
		}
	}

	maxAge := ""
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	allowed := func(origin string) bool {
		u, err := url.Parse(strings.ToLower(origin))
		if err != nil || u.Host == "" {
			return false
		}
		for _, p := range patterns {
			if p.matches(u.Scheme, u.Host) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			if !allowed(origin) {
				if preflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Expose-Headers", corsExposedHeaders)

			if preflight {
				w.Header().Set("Access-Control-Allow-Methods", corsMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsRequestHeaders)
				if maxAge != "" {
					w.Header().Set("Access-Control-Max-Age", maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
