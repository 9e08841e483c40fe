package middleware

import (
	"net/http"

	apperrors "tratador/pkg/errors"
)

// MaxRequestSize caps the request body. Requests that announce a larger
// Content-Length are refused up front; others fail when the handler reads
// past the limit.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = apperrors.WriteError(w, apperrors.TooLarge(limit))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
