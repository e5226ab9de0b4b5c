package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy lists the cross-origin callers the API answers. The method and
// header lists are fixed at wiring time; only origins vary per deployment.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// WithCORS emits CORS headers for allowed origins and answers preflight
// requests directly. An empty origin list disables the middleware.
func WithCORS(p CORSPolicy) Middleware {
	if len(p.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	wildcard := false
	origins := make(map[string]bool, len(p.AllowedOrigins))
	for _, o := range p.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			wildcard = true
		} else if o != "" {
			origins[strings.ToLower(o)] = true
		}
	}
	methods := strings.Join(p.AllowedMethods, ", ")
	headers := strings.Join(p.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(int(p.MaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || (!wildcard && !origins[strings.ToLower(origin)]) {
				next.ServeHTTP(w, r)
				return
			}

			hdr := w.Header()
			if wildcard && !p.AllowCredentials {
				hdr.Set("Access-Control-Allow-Origin", "*")
			} else {
				// Credentialed responses must name the concrete origin.
				hdr.Set("Access-Control-Allow-Origin", origin)
			}
			if p.AllowCredentials {
				hdr.Set("Access-Control-Allow-Credentials", "true")
			}
			if methods != "" {
				hdr.Set("Access-Control-Allow-Methods", methods)
			}
			if headers != "" {
				hdr.Set("Access-Control-Allow-Headers", headers)
			}
			if p.MaxAge > 0 {
				hdr.Set("Access-Control-Max-Age", maxAge)
			}
			hdr.Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
