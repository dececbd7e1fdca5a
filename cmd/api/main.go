package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/internal/application/service"
	"github.com/sangkips/shundor-pos/internal/config"
	"github.com/sangkips/shundor-pos/internal/infrastructure/database"
	"github.com/sangkips/shundor-pos/internal/infrastructure/repository"
	"github.com/sangkips/shundor-pos/internal/presentation/http/handler"
	"github.com/sangkips/shundor-pos/internal/presentation/http/middleware"
	"github.com/sangkips/shundor-pos/internal/presentation/http/routes"
	"github.com/sangkips/shundor-pos/pkg/logging"
	"github.com/sangkips/shundor-pos/pkg/metrics"
	"github.com/sangkips/shundor-pos/pkg/printer"
	"github.com/sangkips/shundor-pos/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	logger := logging.Setup(cfg.App.LogLevel, cfg.App.IsProduction())

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.IsProduction())
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	m := metrics.New()

	// Initialize repositories
	saleRepo := repository.NewSaleRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    printer.Type(cfg.Printer.Type),
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
		Timeout: cfg.Printer.Timeout,
	})
	if err != nil {
		logger.Warn("failed to initialize printer", slog.Any("error", err))
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	// Initialize services
	saleService := service.NewSaleService(saleRepo, m)
	printerService := service.NewPrinterService(thermalPrinter, saleRepo, cfg.Register.BusinessName, cfg.Printer.Width, m)
	go service.NewIdempotencyJanitor(idempotencyRepo, service.DefaultJanitorInterval).Run(ctx)

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})
	defer rateLimiter.Close()

	deps := &routes.Deps{
		Cfg:             cfg,
		Logger:          logger,
		Metrics:         m,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	}
	if cfg.Register.TokenSecret != "" {
		deps.JWTManager = utils.NewJWTManager(cfg.Register.TokenSecret, time.Hour)
	} else {
		logger.Warn("REGISTER_TOKEN_SECRET is empty, sales API accepts unauthenticated requests")
	}

	router := routes.SetupAPI(&routes.APIHandlers{
		Sale:    handler.NewSaleHandler(saleService),
		Printer: handler.NewPrinterHandler(printerService),
	}, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting sales API",
		slog.String("service", cfg.App.Name),
		slog.String("port", cfg.App.Port),
		slog.String("env", cfg.App.Env),
	)
	if err := serve(ctx, srv); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("sales API stopped")
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
