package middleware

import (
	"net/http"
	"time"

	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP, err := pkg.ReadUserIP(r)
			if err != nil {
				clientIP = r.RemoteAddr
			}
			entry := log.WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"ip":     clientIP,
				"ua":     r.Header.Get("User-Agent"),
			})

			entry.Trace(" ====> request")
			start := time.Now()
			next.ServeHTTP(w, r)
			entry.WithField("took", time.Since(start)).Trace(" <==== request done")
		})
	}
}
