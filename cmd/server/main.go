package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lynra/internal/audit"
	"lynra/internal/commons"
	"lynra/internal/config"
	"lynra/internal/infrastructure/badger"
	"lynra/internal/infrastructure/logger"
	"lynra/internal/infrastructure/mysql"
	"lynra/internal/proxy"
	"lynra/internal/ratelimit"
	"lynra/internal/server"
	"lynra/internal/session"
	"lynra/internal/wizard"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "internal/config/config.yaml"
	}
	cfg, err := commons.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Mews.HotelID == "" {
		zapLogger.Warn("MEWS_HOTEL_ID is empty; upstream calls will be rejected")
	}
	if cfg.Security.InternalSecret == "" {
		zapLogger.Warn("INTERNAL_API_SECRET is empty; direct reservation calls are refused")
	}

	recorder := newAuditRecorder(cfg, zapLogger)

	db, err := badger.NewInMemory(zapLogger)
	if err != nil {
		zapLogger.Fatal("opening session store", zap.Error(err))
	}
	defer db.Close()

	policies := proxy.NewPolicies(cfg.RateLimit)
	limiter := ratelimit.New(zapLogger.Named("ratelimit"),
		ratelimit.WithRetention(ratelimit.LongestWindow(policies.Hotel, policies.Availability, policies.Reservation)),
		ratelimit.WithSweepInterval(cfg.RateLimit.SweepInterval),
	)

	proxyCtrl, gateway := proxy.NewModule(cfg, limiter, recorder, &http.Client{}, zapLogger)
	wizardCtrl, err := wizard.NewModule(cfg, session.NewBadgerRepository(db, cfg.Booking.SessionTTL), gateway, zapLogger)
	if err != nil {
		zapLogger.Fatal("building booking wizard", zap.Error(err))
	}

	router := server.NewRouter(zapLogger, proxyCtrl, wizardCtrl)
	srv := server.New(cfg.Server.Port, router, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		return limiter.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		zapLogger.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
	zapLogger.Info("server stopped gracefully")
}

// newAuditRecorder writes reservation attempts to MySQL when auditing is enabled.
// An unreachable database disables auditing rather than the booking service.
func newAuditRecorder(cfg *config.Config, zapLogger *zap.Logger) proxy.AuditRecorder {
	if !cfg.Audit.Enabled {
		return audit.Nop{}
	}
	conn, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Error("audit database unavailable, auditing disabled", zap.Error(err))
		return audit.Nop{}
	}
	zapLogger.Info("audit database connected")
	return audit.NewRecorder(audit.NewMySQLRepository(conn), zapLogger.Named("audit"))
}
