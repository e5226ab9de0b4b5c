package handlers

import (
	"net/http"
	"runtime"
)

type versionResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Go      string `json:"go"`
}

// Version reports build identity for operators; no booking state involved.
func Version(service, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, versionResponse{
			Service: service,
			Version: version,
			Go:      runtime.Version(),
		})
	}
}
