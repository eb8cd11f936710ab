package middleware

import (
	"encoding/json"
	"net/http"
)

// AdminKey guards the admin surface with a static X-API-Key header. An
// empty configured key disables the admin routes entirely rather than
// leaving them open.
func AdminKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-API-Key")

			if provided == "" {
				unauthorized(w, "Missing API key")
				return
			}
			if apiKey == "" || provided != apiKey {
				unauthorized(w, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // best-effort error body
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"details": details,
	})
}
