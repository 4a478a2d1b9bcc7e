package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/c4stleone/SOLHeaven/config"
	"github.com/c4stleone/SOLHeaven/mcp"
	"github.com/c4stleone/SOLHeaven/metrics"
	"github.com/c4stleone/SOLHeaven/services"
	storage "github.com/c4stleone/SOLHeaven/storage/escrow"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// run owns the store lifecycle so the deferred Close executes on every exit
// path, including server errors.
func run() error {
	cfg := config.Load(os.Getenv("ESCROWD_CONFIG"))

	ctx := context.Background()
	var store storage.Store
	switch cfg.StoreDriver {
	case "postgres":
		if cfg.PGDSN == "" {
			return errors.New("ESCROWD_PG_DSN required when store driver is postgres")
		}
		pg, err := storage.NewPGStore(ctx, cfg.PGDSN, cfg.SeedFixtures())
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		store = pg
	default:
		store = storage.NewMemoryStore(cfg.SeedFixtures())
	}
	defer store.Close()

	mcpServer := mcp.NewMCPServer(metrics.Instrument(ctx, store), services.NewFundingService())

	g, gctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
			go func() {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()
			log.Printf("metrics endpoint listening on %s", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	log.Printf("escrowd starting (driver=%s transport=%s)", cfg.StoreDriver, cfg.Transport)
	switch cfg.Transport {
	case "http":
		httpServer := server.NewStreamableHTTPServer(mcpServer.GetMCPServer())
		g.Go(func() error {
			return httpServer.Start(cfg.ListenAddr)
		})
	default:
		g.Go(func() error {
			return server.ServeStdio(mcpServer.GetMCPServer())
		})
	}

	return g.Wait()
}
