package middleware

import (
	"net/http"
	"strings"

	"gymstore/pkg/logger"
)

const mediaPathSuffix = "/media"

// ContentTypeValidation requires application/json on request bodies. Media
// upload routes (ending in /media) accept image/* and video/* instead.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if !contentTypeAllowed(r.URL.Path, contentType) {
					log.Warn("Invalid Content-Type header",
						logger.REQUEST_ID, logger.RequestID(r.Context()),
						"content_type", contentType,
						"path", r.URL.Path,
						"method", r.Method,
					)
					writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(r *http.Request) bool {
	if r.ContentLength == 0 {
		return false
	}
	return r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Split(header, ";")
	return strings.ToLower(strings.TrimSpace(parts[0]))
}

func contentTypeAllowed(path, contentType string) bool {
	if contentType == "application/json" {
		return true
	}
	if strings.HasSuffix(path, mediaPathSuffix) {
		return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
	}
	return false
}
