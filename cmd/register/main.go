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
	"github.com/sangkips/shundor-pos/internal/application/billing"
	"github.com/sangkips/shundor-pos/internal/application/service"
	"github.com/sangkips/shundor-pos/internal/config"
	"github.com/sangkips/shundor-pos/internal/infrastructure/salesapi"
	"github.com/sangkips/shundor-pos/internal/presentation/http/handler"
	"github.com/sangkips/shundor-pos/internal/presentation/http/routes"
	"github.com/sangkips/shundor-pos/pkg/logging"
	"github.com/sangkips/shundor-pos/pkg/metrics"
	"github.com/sangkips/shundor-pos/pkg/printer"
	"github.com/sangkips/shundor-pos/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.App.LogLevel, cfg.App.IsProduction())

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var clientOpts []salesapi.Option
	if cfg.Register.TokenSecret != "" {
		clientOpts = append(clientOpts, salesapi.WithToken(
			utils.NewJWTManager(cfg.Register.TokenSecret, 5*time.Minute),
			cfg.Register.RegisterID,
		))
	}
	client := salesapi.NewClient(cfg.Register.SalesAPIURL, cfg.Register.SalesAPITimeout, clientOpts...)

	session := billing.NewSession(client,
		billing.WithStatusReset(cfg.Register.SaveStatusReset),
		billing.WithLogger(logger.With(slog.String("register_id", cfg.Register.RegisterID))),
	)
	defer session.Close()

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

	// The register prints its own bill only, so no sale repository.
	printerService := service.NewPrinterService(thermalPrinter, nil, cfg.Register.BusinessName, cfg.Printer.Width, m)

	router := routes.SetupRegister(&routes.RegisterHandlers{
		Bill:    handler.NewBillHandler(session, printerService, m),
		Printer: handler.NewPrinterHandler(printerService),
	}, &routes.Deps{
		Cfg:     cfg,
		Logger:  logger,
		Metrics: m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Register.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting register",
		slog.String("register_id", cfg.Register.RegisterID),
		slog.String("port", cfg.Register.Port),
		slog.String("sales_api", cfg.Register.SalesAPIURL),
	)
	if err := serve(ctx, srv); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("register stopped")
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
