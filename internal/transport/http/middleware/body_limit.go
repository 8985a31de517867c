package middleware

import "net/http"

// BodyLimit caps the request body on mutating methods. Oversized payloads
// surface as a read error from MaxBytesReader inside the JSON decoders.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				switch r.Method {
				case http.MethodPost, http.MethodPut, http.MethodPatch:
					r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
