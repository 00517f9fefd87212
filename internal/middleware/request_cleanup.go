package middleware

import (
	"io"
	"net/http"
)

// MaxRequestBodyBytes bounds request bodies, a session submission is well under 1KB.
const MaxRequestBodyBytes = 64 << 10

// DrainAndCloseRequest caps the request body at maxBytes (no cap when <= 0) and, once
// the handler returns, drains the rest of the body and closes it.
func DrainAndCloseRequest(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			next.ServeHTTP(w, r)

			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
