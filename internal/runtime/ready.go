package runtime

import (
	"context"
	"net/http"
	"time"
)

// ReadyCheck is one named dependency behind /readyz, such as the
// database pool or the rate-limiter Redis.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

// NewBaseMuxWithReady builds the mux every daybook process starts from:
// /healthz answers as long as the process serves, /readyz answers once
// every dependency does. Service routes are registered on top.
func NewBaseMuxWithReady(checks ...ReadyCheck) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := c.Check(ctx)
			cancel()
			if err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(c.Name + ": " + err.Error()))
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
