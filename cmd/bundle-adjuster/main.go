package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/config"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/infra/httpx"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/infra/shopify"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/resolver"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjustlog"
	adjustsqlite "github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjustlog/sqlite"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/pkg/cache"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/pkg/telemetry"
)

const serviceName = "bundle-adjuster"

func main() {
	ctx := context.Background()

	telemetry.InitLogger()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("%v", err)
	}

	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}

	client := shopify.NewClient(cfg.StoreDomain, cfg.AdminToken, cfg.UpstreamTimeout)

	// Static location strategy: pin one warehouse for the process lifetime.
	// When no fixed id is configured, the store's first location is resolved
	// once here, not per request.
	locationID := cfg.LocationID
	if locationID == "" {
		locationID, err = client.FirstLocationID(ctx)
		if err != nil {
			log.Fatalf("could not resolve a warehouse location: %v", err)
		}
		slog.Info("pinned first store location", "location_id", locationID)
	}

	var items resolver.ItemResolver = resolver.Direct{}
	if cfg.ResolveVariants {
		variant := &resolver.Variant{Resolver: client}
		if cfg.RedisAddr != "" {
			variant.Cache = cache.NewRedisCache(cfg.RedisAddr, serviceName)
		}
		items = variant
	}

	var auditRepo adjustlog.Repository
	if cfg.AdjustLogPath != "" {
		repo, err := adjustsqlite.Open(cfg.AdjustLogPath)
		if err != nil {
			log.Fatalf("could not open adjustment log: %v", err)
		}
		defer repo.Close()
		auditRepo = repo
	}

	handler := httpx.NewHandler(client, items, client, locationID, cfg.LedgerDocumentURI, auditRepo)
	server := &http.Server{Addr: cfg.ListenAddr, Handler: httpx.NewRouter(handler)}

	go func() {
		slog.Info("bundle adjuster listening", "addr", cfg.ListenAddr, "store", cfg.StoreDomain)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error shutting down http server", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("error shutting down tracer", "error", err)
	}
}
