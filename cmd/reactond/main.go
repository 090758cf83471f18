// Command reactond is a demo HTTP server exposing a reacton.Store over a
// small JSON API: reads, writes, SSE-style subscriptions, and a
// query-cache-backed upstream fetch endpoint, grounded in evalgo-org-eve's
// cli/root.go server-bootstrap shape (viper-backed config, graceful
// shutdown) adapted from echo to gin per the domain-stack wiring.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sitharaj88/reacton"
	"github.com/sitharaj88/reacton/extensions"
	"github.com/sitharaj88/reacton/internal/config"
	"github.com/sitharaj88/reacton/internal/telemetry"
	"github.com/sitharaj88/reacton/query"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("reactond: load config: %v", err)
	}

	logger := telemetry.NewLogger()
	tracer := telemetry.NewTracer("reactond")
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(registry)

	store := reacton.NewStore(
		reacton.WithFeedbackLoopLimit(cfg.FeedbackLoopLimit),
		reacton.WithExtension(extensions.NewLoggingExtension(logger)),
		reacton.WithExtension(extensions.NewTracingExtension(tracer)),
		reacton.WithExtension(extensions.NewMetricsExtension(metrics)),
	)
	graphDebug := extensions.NewGraphDebugExtension()
	if err := store.UseExtension(graphDebug); err != nil {
		log.Fatalf("reactond: install graph debug extension: %v", err)
	}

	reacton.NewSource(store, "counter", 0)

	cache := query.NewCache()
	demoQuery := query.New(cache, query.Config[string]{
		Fingerprint: "demo-upstream",
		StaleTime:   cfg.QueryStaleTime,
		CacheTime:   cfg.QueryCacheTime,
		Fetch: func(ctx context.Context) (string, error) {
			return fmt.Sprintf("fetched at %s", time.Now().Format(time.RFC3339)), nil
		},
	})

	router := gin.Default()
	registerRoutes(router, store, graphDebug, demoQuery)

	srv := &http.Server{Addr: ":8080", Handler: router}
	go func() {
		logger.Info("reactond listening on :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("reactond: serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	_ = tracer.Shutdown(ctx)
	store.Dispose()
}
