package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/internal/config"
	"github.com/sangkips/shundor-pos/internal/domain/entity"
	"github.com/sangkips/shundor-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryIdempotencyRepository struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryIdempotencyRepository() *memoryIdempotencyRepository {
	return &memoryIdempotencyRepository{keys: make(map[string]*entity.IdempotencyKey)}
}

func (m *memoryIdempotencyRepository) GetByKey(_ context.Context, key, clientID string) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[clientID+"/"+key], nil
}

func (m *memoryIdempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[ikey.ClientID+"/"+ikey.Key] = ikey
	return nil
}

func (m *memoryIdempotencyRepository) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

func request(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	repo := newMemoryIdempotencyRepository()
	var calls atomic.Int32

	r := gin.New()
	r.Use(Idempotency(IdempotencyConfig{Repo: repo}))
	r.POST("/sales/", func(c *gin.Context) {
		n := calls.Add(1)
		c.JSON(http.StatusCreated, gin.H{"sale_id": "SALE-1", "call": n})
	})

	headers := map[string]string{IdempotencyKeyHeader: "attempt-1"}
	first := request(r, http.MethodPost, "/sales/", headers)
	second := request(r, http.MethodPost, "/sales/", headers)

	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
	assert.Equal(t, int32(1), calls.Load())

	stored := repo.keys[AnonymousClient+"/attempt-1"]
	require.NotNil(t, stored)
	assert.Equal(t, "POST /sales/", stored.Endpoint)

	request(r, http.MethodPost, "/sales/", map[string]string{IdempotencyKeyHeader: "attempt-2"})
	request(r, http.MethodPost, "/sales/", nil)
	assert.Equal(t, int32(3), calls.Load())
}

func TestIdempotency_DoesNotStoreFailures(t *testing.T) {
	repo := newMemoryIdempotencyRepository()
	var calls atomic.Int32

	r := gin.New()
	r.Use(Idempotency(IdempotencyConfig{Repo: repo}))
	r.POST("/sales/", func(c *gin.Context) {
		calls.Add(1)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	})

	headers := map[string]string{IdempotencyKeyHeader: "attempt-1"}
	request(r, http.MethodPost, "/sales/", headers)
	request(r, http.MethodPost, "/sales/", headers)

	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, repo.keys)
}

func TestIdempotency_RejectsKeyReusedOnAnotherEndpoint(t *testing.T) {
	repo := newMemoryIdempotencyRepository()
	var calls atomic.Int32

	r := gin.New()
	r.Use(Idempotency(IdempotencyConfig{Repo: repo}))
	r.POST("/sales/", func(c *gin.Context) {
		calls.Add(1)
		c.JSON(http.StatusCreated, gin.H{"sale_id": "SALE-1"})
	})
	r.PUT("/sales/:sale_id/status", func(c *gin.Context) {
		calls.Add(1)
		c.JSON(http.StatusOK, gin.H{"payment_status": "cancelled"})
	})

	headers := map[string]string{IdempotencyKeyHeader: "attempt-1"}
	request(r, http.MethodPost, "/sales/", headers)

	w := request(r, http.MethodPut, "/sales/SALE-1/status", headers)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, w.Header().Get(IdempotencyReplayedHeader))
	assert.NotContains(t, w.Body.String(), "SALE-1")
	assert.Equal(t, int32(1), calls.Load())

	w = request(r, http.MethodPut, "/sales/SALE-1/status", map[string]string{IdempotencyKeyHeader: "attempt-2"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = request(r, http.MethodPut, "/sales/SALE-2/status", map[string]string{IdempotencyKeyHeader: "attempt-2"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "same route, different sale")
}

func TestIdempotency_ExpiredKeyIsIgnored(t *testing.T) {
	repo := newMemoryIdempotencyRepository()
	repo.keys[AnonymousClient+"/old"] = &entity.IdempotencyKey{
		Key:          "old",
		ClientID:     AnonymousClient,
		ResponseCode: http.StatusCreated,
		ResponseBody: `{"stale":true}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}

	r := gin.New()
	r.Use(Idempotency(IdempotencyConfig{Repo: repo}))
	r.POST("/sales/", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"fresh": true})
	})

	w := request(r, http.MethodPost, "/sales/", map[string]string{IdempotencyKeyHeader: "old"})
	assert.JSONEq(t, `{"fresh":true}`, w.Body.String())
	assert.Empty(t, w.Header().Get(IdempotencyReplayedHeader))
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Minute)
	token, err := jwtManager.GenerateToken("register-7")
	require.NoError(t, err)

	r := gin.New()
	r.Use(AuthMiddleware(jwtManager))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, GetClientID(c))
	})

	w := request(r, http.MethodGet, "/whoami", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "register-7", w.Body.String())

	for _, header := range []string{"", "Token " + token, "Bearer not-a-jwt"} {
		w := request(r, http.MethodGet, "/whoami", map[string]string{"Authorization": header})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestGetClientID_Anonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, AnonymousClient, GetClientID(c))
}

func TestClientRateLimiter(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Close()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	ip := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, ip("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, ip("10.0.0.1").Code)
	limited := ip("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Equal(t, "2", limited.Header().Get("X-RateLimit-Limit"))

	assert.Equal(t, http.StatusOK, ip("10.0.0.2").Code, "other clients have their own bucket")
	assert.Equal(t, 2, rl.Stats()["active_clients"])
}

func TestClientRateLimiter_Cleanup(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{EntryTTL: time.Millisecond, CleanupInterval: time.Hour})
	defer rl.Close()

	rl.getLimiter("a")
	time.Sleep(5 * time.Millisecond)
	rl.cleanup()
	assert.Equal(t, 0, rl.Stats()["active_clients"])
}

type recordingObserver struct {
	method, route string
	status        int
}

func (o *recordingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.method, o.route, o.status = method, route, status
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	obs := &recordingObserver{}

	r := gin.New()
	r.Use(LoggerMiddleware(logger, obs))
	r.GET("/sales/:sale_id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := request(r, http.MethodGet, "/sales/SALE-1?x=1", map[string]string{"X-Request-ID": "req-123"})
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	assert.Equal(t, "GET", obs.method)
	assert.Equal(t, "/sales/:sale_id", obs.route)
	assert.Equal(t, http.StatusOK, obs.status)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "req-123", line["request_id"])
	assert.Equal(t, "/sales/SALE-1?x=1", line["path"])

	buf.Reset()
	w = request(r, http.MethodGet, "/missing", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "unmatched", obs.route)
	assert.True(t, strings.Contains(buf.String(), `"level":"WARN"`))
}

func TestCORSMiddleware_AllowsIdempotencyKey(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.POST("/sales/", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := request(r, http.MethodOptions, "/sales/", map[string]string{
		"Origin":                         "http://localhost:3000",
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "Idempotency-Key",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "idempotency-key")
}

func TestCORSMiddleware_Defaults(t *testing.T) {
	cfg := &config.CORSConfig{AllowedHeaders: make([]string, 1, 4)}
	cfg.AllowedHeaders[0] = "Content-Type"

	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{}))
	r.GET("/api/v1/bill/receipt.pdf", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := request(r, http.MethodGet, "/api/v1/bill/receipt.pdf", map[string]string{"Origin": "http://127.0.0.1:3000"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://127.0.0.1:3000", w.Header().Get("Access-Control-Allow-Origin"))
	exposed := strings.ToLower(w.Header().Get("Access-Control-Expose-Headers"))
	assert.Contains(t, exposed, "content-disposition")
	assert.Contains(t, exposed, "x-idempotency-replayed")

	w = request(r, http.MethodGet, "/api/v1/bill/receipt.pdf", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Idempotency-Key is appended to a copy, not into the config's spare capacity.
	CORSMiddleware(cfg)
	assert.Equal(t, []string{"Content-Type"}, cfg.AllowedHeaders)
	assert.Empty(t, cfg.AllowedHeaders[:2][1])
}
