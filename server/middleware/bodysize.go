package middleware

import (
	"net/http"

	"github.com/kbukum/speakeralign/util"
)

// DefaultMaxBodySize applies when the configured size cannot be parsed.
const DefaultMaxBodySize = 10 * 1024 * 1024

// BodySizeLimit returns middleware that caps the request body at the given
// size string (e.g. "10MB", "512KB"). Reads past the cap fail, which the
// JSON decoders report as a bad request.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, DefaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
