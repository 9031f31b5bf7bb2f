package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/keralasamajam/community-hub/internal/adapters/embedded"
	filesessions "github.com/keralasamajam/community-hub/internal/adapters/file/sessioncache"
	"github.com/keralasamajam/community-hub/internal/adapters/httpapi"
	"github.com/keralasamajam/community-hub/internal/adapters/postgres"
	"github.com/keralasamajam/community-hub/internal/app/bootstrap"
	"github.com/keralasamajam/community-hub/internal/app/community"
	platformclock "github.com/keralasamajam/community-hub/internal/platform/clock"
	"github.com/keralasamajam/community-hub/internal/platform/config"
	storeport "github.com/keralasamajam/community-hub/internal/ports/out/store"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	var (
		adapter storeport.Adapter
		cleanup func()
	)
	switch cfg.StoreBackend {
	case config.BackendRemote:
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		cleanup = pool.Close
		adapter = postgres.NewStore(pool, postgres.Options{OpTimeout: cfg.StoreOpTimeout})
	default:
		adapter = embedded.Open()
	}
	if cleanup != nil {
		defer cleanup()
	}
	log.Printf("store backend: %s", cfg.StoreBackend)

	if err := bootstrap.Run(context.Background(), adapter); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	sessions := filesessions.New(cfg.SessionFile)
	svc := community.NewService(adapter, sessions, platformclock.NewSystemClock())

	if m, ok, err := svc.RestoreSession(context.Background()); err != nil {
		log.Printf("session restore failed: %v", err)
	} else if ok {
		log.Printf("restored session for %s", m.Email)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
