package middleware

import (
	"net/http"
	"strings"
)

// MaxRequestSize caps request bodies at limit bytes, or uploadLimit on media
// upload routes.
func MaxRequestSize(limit, uploadLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			maxBytes := limit
			if strings.HasSuffix(r.URL.Path, mediaPathSuffix) {
				maxBytes = uploadLimit
			}

			if r.ContentLength > maxBytes {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
