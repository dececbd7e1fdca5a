package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/internal/config"
	domainRepo "github.com/sangkips/shundor-pos/internal/domain/repository"
	"github.com/sangkips/shundor-pos/internal/presentation/http/handler"
	"github.com/sangkips/shundor-pos/internal/presentation/http/middleware"
	"github.com/sangkips/shundor-pos/pkg/metrics"
	"github.com/sangkips/shundor-pos/pkg/utils"
)

// APIHandlers holds the sales API handlers.
type APIHandlers struct {
	Sale    *handler.SaleHandler
	Printer *handler.PrinterHandler
}

// RegisterHandlers holds the register's handlers.
type RegisterHandlers struct {
	Bill    *handler.BillHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// JWTManager enables register authentication on the sales API when set.
	JWTManager      *utils.JWTManager
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

func newRouter(deps *Deps, service string) *gin.Engine {
	router := gin.New()

	// Global middleware
	var observer middleware.RequestObserver
	if deps.Metrics != nil {
		observer = deps.Metrics
	}
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger, observer))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": service,
		})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	return router
}

// SetupAPI creates the sales API router.
func SetupAPI(h *APIHandlers, deps *Deps) *gin.Engine {
	router := newRouter(deps, deps.Cfg.App.Name)

	api := router.Group("/api")
	{
		sales := api.Group("/sales")
		if deps.JWTManager != nil {
			sales.Use(middleware.AuthMiddleware(deps.JWTManager))
		}
		if deps.RateLimiter != nil {
			sales.Use(deps.RateLimiter.Middleware())
		}
		if deps.IdempotencyRepo != nil {
			sales.Use(middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}))
		}

		sales.POST("/", h.Sale.Create)
		sales.GET("/", h.Sale.List)
		sales.GET("/daily_summary", h.Sale.DailySummary)
		sales.GET("/weekly_summary", h.Sale.WeeklySummary)
		sales.GET("/:sale_id", h.Sale.Get)
		sales.PUT("/:sale_id/status", h.Sale.UpdateStatus)
		sales.POST("/:sale_id/print", h.Printer.PrintSale)
		sales.GET("/:sale_id/receipt.pdf", h.Printer.SaleReceiptPDF)

		api.GET("/printer/status", h.Printer.GetStatus)
	}

	return router
}

// SetupRegister creates the cashier register router.
func SetupRegister(h *RegisterHandlers, deps *Deps) *gin.Engine {
	router := newRouter(deps, "register")

	v1 := router.Group("/api/v1")
	{
		bill := v1.Group("/bill")
		bill.GET("", h.Bill.Get)
		bill.POST("/items", h.Bill.AddItem)
		bill.PATCH("/items/:id", h.Bill.UpdateQuantity)
		bill.DELETE("/items/:id", h.Bill.RemoveItem)
		bill.PUT("/discount", h.Bill.SetDiscount)
		bill.PUT("/payment", h.Bill.SetPayment)
		bill.POST("/save", h.Bill.Save)
		bill.POST("/clear", h.Bill.Clear)
		bill.POST("/print", h.Bill.Print)
		bill.GET("/receipt.pdf", h.Bill.ReceiptPDF)

		v1.GET("/printer/status", h.Printer.GetStatus)
	}

	return router
}
