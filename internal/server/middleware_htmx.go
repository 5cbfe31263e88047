package server

import (
	"net/http"

	"github.com/pthm/xloss"
)

// requireHTMX rejects requests without HX-Request: true.
func requireHTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !xloss.IsHTMX(r) {
			writeError(w, r, http.StatusForbidden, ErrNotHTMX)
			return
		}
		next.ServeHTTP(w, r)
	})
}
