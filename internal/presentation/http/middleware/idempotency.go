package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/internal/domain/entity"
	"github.com/sangkips/shundor-pos/internal/domain/repository"
	"github.com/sangkips/shundor-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/shundor-pos/pkg/apperror"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when a POST, PUT or PATCH repeats
// an Idempotency-Key already seen from the same client. Only 2xx responses
// are stored, so a failed request can be retried with the same key. A key
// reused on a different method or path is rejected with 422.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}
		clientID := GetClientID(c)
		endpoint := c.Request.Method + " " + c.Request.URL.Path
		ctx := c.Request.Context()

		existing, err := config.Repo.GetByKey(ctx, idempotencyKey, clientID)
		if err != nil {
			slog.WarnContext(ctx, "idempotency lookup failed", slog.Any("error", err))
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			if existing.Endpoint != endpoint {
				response.Error(c, apperror.ErrIdempotencyReuse)
				c.Abort()
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			ClientID:     clientID,
			Endpoint:     endpoint,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Create(ctx, ikey); err != nil {
			slog.WarnContext(ctx, "failed to store idempotency key",
				slog.String("key", idempotencyKey),
				slog.Any("error", err),
			)
		}
	}
}
