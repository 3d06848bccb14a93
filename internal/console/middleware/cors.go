package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets the listed origins call the JSON endpoints (the CEP lookup) from
// another host. With no origins configured it is a no-op and the console
// stays same-origin only.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		// Session cookies never go to a wildcard origin.
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})
}
