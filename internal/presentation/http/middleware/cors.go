package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/internal/config"
)

// Registers call the sales API server to server, so the only browser
// caller is the cashier UI, served by its Next.js dev server in development.
var cashierUIOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

var (
	corsMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	}
	corsAllowHeaders = []string{
		"Accept",
		"Authorization",
		"Content-Type",
		"Origin",
		"X-Request-ID",
		IdempotencyKeyHeader,
	}
	// Content-Disposition names receipt PDFs; the replay header tells the UI a
	// save answer came from the idempotency store.
	corsExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Content-Disposition",
		"X-Request-ID",
		IdempotencyReplayedHeader,
	}
)

// CORSMiddleware builds the CORS policy from cfg. Empty lists fall back to
// the cashier UI defaults, and Idempotency-Key is always allowed.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	allowHeaders := orDefault(cfg.AllowedHeaders, corsAllowHeaders)
	if !slices.Contains(allowHeaders, IdempotencyKeyHeader) {
		allowHeaders = append(slices.Clip(allowHeaders), IdempotencyKeyHeader)
	}

	return cors.New(cors.Config{
		AllowOrigins:     orDefault(cfg.AllowedOrigins, cashierUIOrigins),
		AllowMethods:     orDefault(cfg.AllowedMethods, corsMethods),
		AllowHeaders:     allowHeaders,
		ExposeHeaders:    corsExposeHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func orDefault(values, defaults []string) []string {
	if len(values) == 0 {
		return defaults
	}
	return values
}
