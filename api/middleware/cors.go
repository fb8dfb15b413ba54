package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/smokehouse-backend/api/responses"
)

// CORS returns middleware that applies the storefront's allowed origin policy.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", VisitorIDHeader, "X-Requested-With"},
		ExposedHeaders:   []string{VisitorIDHeader, responses.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
